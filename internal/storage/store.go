// Package storage defines the persistence boundary of the application.
package storage

import "context"

// KeyValueStore persists opaque values by key. Callers serialize entities
// themselves; the store only guarantees that a successful Set is visible to
// every later Get.
type KeyValueStore interface {
	// Get returns the value stored under key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}
