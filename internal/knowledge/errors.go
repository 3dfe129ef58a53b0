package knowledge

import (
	"errors"

	"github.com/logos-system/ontos/internal/kernel"
	"github.com/logos-system/ontos/internal/store"
)

// Sentinel errors form the closed error taxonomy of this package. Store-
// and kernel-level sentinels are re-exported here so callers never need
// to import internal/store or internal/kernel directly to discriminate
// errors with errors.Is.
var (
	ErrUnknownNode       = errors.New("unknown node")
	ErrMissingEndpoint   = store.ErrMissingEndpoint
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrTypeError         = kernel.ErrTypeError
	ErrEvaluationTimeout = kernel.ErrEvaluationTimeout
	ErrTimeout           = errors.New("operation timeout")
	ErrFuelExhausted     = errors.New("fuel exhausted")
	ErrStoreUnavailable  = store.ErrStoreUnavailable
	ErrServiceClosed     = errors.New("service closed")
	ErrCorrupted         = store.ErrCorrupted
)
