package entitystore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/storage"
)

// ErrEntityNotFound is returned when an ID does not exist in a collection.
var ErrEntityNotFound = apperr.New(apperr.ErrNotFound, "ENTITY_NOT_FOUND", "entity not found")

// Entity is anything stored in a Collection.
type Entity interface {
	EntityID() string
}

// Collection is an ordered, persisted sequence of entities kept under one key.
//
// The collection holds the last successfully persisted JSON snapshot. Reads
// decode a fresh copy, so callers may modify what they receive. Every
// mutation rewrites the whole collection with a single Set and only replaces
// the snapshot once that write succeeds.
type Collection[T Entity] struct {
	kv  storage.KeyValueStore
	key string

	mu  sync.RWMutex
	raw []byte
}

func newCollection[T Entity](kv storage.KeyValueStore, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) load(ctx context.Context) error {
	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return apperr.Storage("failed to load "+c.key, err)
	}
	if raw != nil {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return apperr.Storage("failed to decode "+c.key, err)
		}
	}

	c.mu.Lock()
	c.raw = raw
	c.mu.Unlock()
	return nil
}

func (c *Collection[T]) flush(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw := c.raw
	if raw == nil {
		raw = []byte("[]")
	}
	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		return apperr.Storage("failed to write "+c.key, err)
	}
	return nil
}

// decodeLocked must be called with c.mu held.
func (c *Collection[T]) decodeLocked() ([]T, error) {
	if len(c.raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(c.raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// List returns the collection in stored order.
func (c *Collection[T]) List() ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decodeLocked()
}

// Get returns the entity with the given ID.
func (c *Collection[T]) Get(id string) (T, error) {
	item, ok, err := c.Find(func(e T) bool { return e.EntityID() == id })
	if err != nil {
		return item, err
	}
	if !ok {
		return item, ErrEntityNotFound.Withf("%s: %s not found", c.key, id)
	}
	return item, nil
}

// Find returns the first entity matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.List()
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if pred(item) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Mutate applies fn to a private copy of the collection and persists the
// result. If fn fails nothing is written; if the write fails the in-memory
// snapshot is left untouched and a storage error is returned.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.decodeLocked()
	if err != nil {
		return apperr.Storage("failed to read "+c.key, err)
	}

	updated, err := fn(items)
	if err != nil {
		return err
	}
	if updated == nil {
		updated = []T{}
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		return apperr.Storage("failed to write "+c.key, err)
	}

	c.raw = raw
	return nil
}

// Append adds entity at the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, entity T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		return append(items, entity), nil
	})
}

// Prepend adds entity at the head of the collection.
func (c *Collection[T]) Prepend(ctx context.Context, entity T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		return append([]T{entity}, items...), nil
	})
}

// Update applies patch to the entity with the given ID in place.
func (c *Collection[T]) Update(ctx context.Context, id string, patch func(*T) error) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].EntityID() != id {
				continue
			}
			if err := patch(&items[i]); err != nil {
				return nil, err
			}
			return items, nil
		}
		return nil, ErrEntityNotFound.Withf("%s: %s not found", c.key, id)
	})
}

// Put replaces the entity with the same ID, or appends it.
func (c *Collection[T]) Put(ctx context.Context, entity T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].EntityID() == entity.EntityID() {
				items[i] = entity
				return items, nil
			}
		}
		return append(items, entity), nil
	})
}

// Remove deletes the entity with the given ID.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if items[i].EntityID() == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrEntityNotFound.Withf("%s: %s not found", c.key, id)
	})
}

// Replace overwrites the whole collection.
func (c *Collection[T]) Replace(ctx context.Context, entities []T) error {
	return c.Mutate(ctx, func([]T) ([]T, error) {
		return entities, nil
	})
}
