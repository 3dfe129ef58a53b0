// Package auth implements an abstract capability-token gate. The core
// never issues or renews tokens; it only validates that one is present
// and unexpired. Every method of internal/knowledge.Service except Close
// takes a Token and rejects the call if this check fails.
package auth

import (
	"errors"
	"time"

	"github.com/logos-system/ontos/internal/logging"
)

// ErrMissingToken is returned when no token was supplied.
var ErrMissingToken = errors.New("missing capability token")

// ErrExpiredToken is returned when the token's ttl has elapsed since
// issuance.
var ErrExpiredToken = errors.New("expired capability token")

// Token is the opaque capability credential. Issuance and renewal live
// outside the core; the core only reads IssuedAt and TTL.
type Token struct {
	IssuedAt time.Time
	TTL      time.Duration
}

// NewToken constructs a token issued now with the given ttl, for callers
// that have nothing more elaborate to hand the service (tests, the CLI).
func NewToken(ttl time.Duration) Token {
	return Token{IssuedAt: time.Now(), TTL: ttl}
}

// Validate reports whether tok is present (non-zero) and not expired.
func Validate(tok Token) error {
	if tok.IssuedAt.IsZero() {
		logging.AuthDebug("rejected: missing token")
		return ErrMissingToken
	}
	if tok.TTL > 0 && time.Since(tok.IssuedAt) > tok.TTL {
		logging.AuthDebug("rejected: token issued at %s with ttl %s has expired", tok.IssuedAt, tok.TTL)
		return ErrExpiredToken
	}
	return nil
}
