// Package kv provides the opaque key/value persistence used to store the session locally.
package kv

import "github.com/pkg/errors"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// A Store is a durable key/value persistence.
type Store interface {
	// Set stores the value under the given key, overwriting any previous value.
	Set(key string, value []byte) error
	// Get returns the value stored under the given key or ErrNotFound.
	Get(key string) ([]byte, error)
	// Remove deletes the given key. Removing a missing key is not an error.
	Remove(key string) error
	// Close releases the underlying resources.
	Close() error
}

// IsNotFound returns true if err is a not found error.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}
