// Package kv provides the small key-value store used for voiceprint
// snapshots, challenge codes, and the analysis history log. Keys are
// flat strings with ':'-separated segments (e.g. "voiceprint:member_1").
//
// Two implementations are provided: an in-memory store for tests and a
// BadgerDB-backed store for on-disk persistence.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Entry is a key-value pair returned by List.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the interface for a key-value store.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key string) error

	// List returns all entries whose key starts with the prefix,
	// ordered lexicographically by key.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Close releases resources held by the store.
	Close() error
}
