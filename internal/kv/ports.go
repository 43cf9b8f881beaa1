// Package kv defines the local key-value storage the application persists
// into. It stands in for the browser's local storage: a handful of named
// entries, each holding an opaque blob.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Ports for storage adapters.
type (
	Reader interface {
		// Get returns the value stored under key or ErrNotFound.
		Get(ctx context.Context, key string) ([]byte, error)
	}

	Writer interface {
		// Put replaces the value stored under key.
		Put(ctx context.Context, key string, value []byte) error
	}

	// Store is a full key-value backend.
	Store interface {
		Reader
		Writer
		Close() error
	}
)

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s if it is a Pinger. Other stores are always healthy.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
