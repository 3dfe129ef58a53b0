// Package store implements the persistent, durable store: nodes and
// relations backed by SQLite, with atomic writes, referential integrity
// on relations, and label substring search.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/logos-system/ontos/internal/logging"
	"github.com/logos-system/ontos/internal/types"
)

// ErrMissingEndpoint is returned by PutRelation when either endpoint node
// does not exist.
var ErrMissingEndpoint = errors.New("missing relation endpoint")

// ErrCorrupted is returned (and logged) when a persisted node blob fails
// to deserialize.
var ErrCorrupted = errors.New("corrupted record")

// ErrStoreUnavailable describes a failed schema initialization when
// persistence was requested. Open does not return it: it logs the
// wrapped condition and degrades to ephemeral mode instead.
var ErrStoreUnavailable = errors.New("persistent store unavailable")

// Store is the durable backing store. When Ephemeral is true, all
// operations succeed against in-memory state only.
type Store struct {
	mu        sync.Mutex
	db        *sql.DB
	ephemeral bool

	// In-memory fallback used only when ephemeral.
	memNodes     map[string]types.OntologicalNode
	memRelations map[string]types.Relation
}

// Open opens (or creates) the SQLite-backed store at path. If
// persistenceEnabled is false, or if the store directory cannot be
// created, or the database cannot be opened, or the schema fails to
// initialize, Open degrades to an ephemeral in-memory Store instead of
// returning an error, logging the condition it degraded from.
func Open(path string, persistenceEnabled bool) (*Store, error) {
	if !persistenceEnabled {
		logging.Store("persistence disabled; running in ephemeral mode")
		return newEphemeral(), nil
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.StoreWarn("could not create store directory %s: %v; falling back to ephemeral mode", dir, err)
			return newEphemeral(), nil
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logging.StoreWarn("could not open sqlite database at %s: %v; falling back to ephemeral mode", path, err)
		return newEphemeral(), nil
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		logging.StoreWarn("schema initialization failed for %s: %v; falling back to ephemeral mode", path,
			fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
		return newEphemeral(), nil
	}
	logging.Store("opened persistent store at %s", path)
	return s, nil
}

func newEphemeral() *Store {
	return &Store{
		ephemeral:    true,
		memNodes:     make(map[string]types.OntologicalNode),
		memRelations: make(map[string]types.Relation),
	}
}

// Ephemeral reports whether the store is running without durable
// persistence.
func (s *Store) Ephemeral() bool {
	return s.ephemeral
}

// Close releases the underlying database handle, if any.
func (s *Store) Close() error {
	if s.ephemeral || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func marshalPayload(m map[string]interface{}) (string, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalPayload(s string) (map[string]interface{}, error) {
	if s == "" || s == "{}" {
		return map[string]interface{}{}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}
