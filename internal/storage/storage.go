// Package storage defines the key-value port the session persists through.
//
// The port is three typed slots (number, bool, bytes) with get, set, and
// delete. internal/storage/bolt provides the durable implementation; Memory
// backs tests and ephemeral runs.
package storage

import "errors"

// ErrNotFound is returned when a key has no stored value. Callers treat it
// as "use the default", never as a failure.
var ErrNotFound = errors.New("key not found")

// KV is a typed key-value store. Implementations must be safe for
// concurrent use.
type KV interface {
	// SetNumber stores a float64 under key.
	SetNumber(key string, value float64) error
	// Number returns the float64 stored under key, or ErrNotFound.
	Number(key string) (float64, error)

	// SetBool stores a bool under key.
	SetBool(key string, value bool) error
	// Bool returns the bool stored under key, or ErrNotFound.
	Bool(key string) (bool, error)

	// SetBytes stores an opaque payload under key.
	SetBytes(key string, value []byte) error
	// Bytes returns the payload stored under key, or ErrNotFound.
	Bytes(key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Close releases the underlying resources.
	Close() error
}
