// Package store keeps the model tables: named key-value tables whose values
// are nested maps of costs, encoded with msgpack.
package store

import (
	"errors"
	"fmt"

	"text2phenotype.com/morphtag/types"
)

type Mode int

const (
	// ModeReadOnly opens an existing table for lookups only.
	ModeReadOnly Mode = iota
	// ModeCreate opens a table exclusively and drops whatever it held.
	ModeCreate
)

func (m Mode) String() string {
	if m == ModeCreate {
		return "create"
	}
	return "read-only"
}

var (
	ErrReadOnly = errors.New("store: table is opened read-only")
	ErrClosed   = errors.New("store: table is closed")
	ErrLocked   = errors.New("store: table is being written")
)

// Backend stores raw values by key.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Has(key string) (bool, error)
	// Put upserts all entries at once.
	Put(entries map[string][]byte) error
	// Keys lists keys in lexical order.
	Keys() ([]string, error)
	Clear() error
	Close() error
}

// Open opens the named table on the configured backend. In ModeCreate the
// table is emptied so that a build always fully replaces it.
func Open(cfg types.StoreConfig, name string, mode Mode) (Backend, error) {
	var backend Backend
	var err error
	switch cfg.Backend {
	case types.BackendMemory:
		backend, err = openMemory(name, mode)
	case types.BackendSQLite:
		backend, err = openSQLite(cfg.Dir, name, mode)
	case types.BackendRedis:
		backend, err = openRedis(name, mode)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s table %q (%s): %w", cfg.Backend, name, mode, err)
	}
	if mode == ModeCreate {
		if err := backend.Clear(); err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("clear table %q: %w", name, err)
		}
	}
	return backend, nil
}
