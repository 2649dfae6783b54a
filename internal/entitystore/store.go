// Package entitystore keeps the application's persisted collections.
//
// Each collection is a JSON array stored under a namespaced key of a
// storage.KeyValueStore:
//
//	mycese_users, mycese_events, mycese_payments, mycese_logs
//
// plus the mycese_seeded flag and per-action rate-limit timestamp arrays
// under mycese_rate_limit_<action>.
//
// The lifecycle is Load (initialize from the persisted snapshot), mutate
// through the collections, and Flush (rewrite everything, used after a
// restore). Writers inside one process are serialized per collection.
// Writers in other processes sharing the same file are not coordinated.
package entitystore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/storage"
)

// Storage keys.
const (
	KeyPrefix       = "mycese_"
	UsersKey        = KeyPrefix + "users"
	EventsKey       = KeyPrefix + "events"
	PaymentsKey     = KeyPrefix + "payments"
	LogsKey         = KeyPrefix + "logs"
	SeededKey       = KeyPrefix + "seeded"
	RateLimitPrefix = KeyPrefix + "rate_limit_"
)

// Store bundles the persisted collections.
type Store struct {
	kv storage.KeyValueStore

	Users    *Collection[models.User]
	Events   *Collection[models.Event]
	Payments *Collection[models.Payment]
	Logs     *Collection[models.LogEntry]

	rateMu sync.Mutex
}

// New creates a Store over kv. Call Load before use.
func New(kv storage.KeyValueStore) *Store {
	return &Store{
		kv:       kv,
		Users:    newCollection[models.User](kv, UsersKey),
		Events:   newCollection[models.Event](kv, EventsKey),
		Payments: newCollection[models.Payment](kv, PaymentsKey),
		Logs:     newCollection[models.LogEntry](kv, LogsKey),
	}
}

// Open creates a Store and loads its persisted snapshot.
func Open(ctx context.Context, kv storage.KeyValueStore) (*Store, error) {
	s := New(kv)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load initializes every collection from the persisted snapshot.
func (s *Store) Load(ctx context.Context) error {
	for _, load := range []func(context.Context) error{
		s.Users.load, s.Events.load, s.Payments.load, s.Logs.load,
	} {
		if err := load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Flush rewrites every collection from memory.
func (s *Store) Flush(ctx context.Context) error {
	for _, flush := range []func(context.Context) error{
		s.Users.flush, s.Events.flush, s.Payments.flush, s.Logs.flush,
	} {
		if err := flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Seeded reports whether initial data has been written.
func (s *Store) Seeded(ctx context.Context) (bool, error) {
	raw, err := s.kv.Get(ctx, SeededKey)
	if err != nil {
		return false, apperr.Storage("failed to read seeded flag", err)
	}
	if raw == nil {
		return false, nil
	}
	seeded, err := strconv.ParseBool(string(raw))
	if err != nil {
		return false, apperr.Storage("failed to decode seeded flag", err)
	}
	return seeded, nil
}

// MarkSeeded records that initial data has been written.
func (s *Store) MarkSeeded(ctx context.Context) error {
	if err := s.kv.Set(ctx, SeededKey, []byte("true")); err != nil {
		return apperr.Storage("failed to write seeded flag", err)
	}
	return nil
}

// UpdateAttempts atomically rewrites the timestamp array kept for a
// rate-limited action. Timestamps are persisted as Unix milliseconds.
func (s *Store) UpdateAttempts(ctx context.Context, action string, fn func([]time.Time) []time.Time) ([]time.Time, error) {
	s.rateMu.Lock()
	defer s.rateMu.Unlock()

	key := RateLimitPrefix + action
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, apperr.Storage("failed to read "+key, err)
	}

	var millis []int64
	if raw != nil {
		if err := json.Unmarshal(raw, &millis); err != nil {
			return nil, apperr.Storage("failed to decode "+key, err)
		}
	}
	attempts := make([]time.Time, 0, len(millis))
	for _, ms := range millis {
		attempts = append(attempts, time.UnixMilli(ms))
	}

	updated := fn(attempts)
	if len(updated) == 0 {
		if err := s.kv.Delete(ctx, key); err != nil {
			return nil, apperr.Storage("failed to clear "+key, err)
		}
		return nil, nil
	}

	millis = millis[:0]
	for _, t := range updated {
		millis = append(millis, t.UnixMilli())
	}
	raw, err = json.Marshal(millis)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return nil, apperr.Storage("failed to write "+key, err)
	}
	return updated, nil
}

// Snapshot is a consistent copy of the collections used by reports and
// backups.
type Snapshot struct {
	Users    []models.User    `json:"users"`
	Events   []models.Event   `json:"events"`
	Payments []models.Payment `json:"payments"`
}

// Snapshot reads users, events and payments under their read locks so the
// result reflects a single point in time.
func (s *Store) Snapshot() (Snapshot, error) {
	s.Users.mu.RLock()
	defer s.Users.mu.RUnlock()
	s.Events.mu.RLock()
	defer s.Events.mu.RUnlock()
	s.Payments.mu.RLock()
	defer s.Payments.mu.RUnlock()

	var (
		snap Snapshot
		err  error
	)
	if snap.Users, err = s.Users.decodeLocked(); err != nil {
		return Snapshot{}, err
	}
	if snap.Events, err = s.Events.decodeLocked(); err != nil {
		return Snapshot{}, err
	}
	if snap.Payments, err = s.Payments.decodeLocked(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Restore replaces users, events and payments with snap. Logs are kept.
func (s *Store) Restore(ctx context.Context, snap Snapshot) error {
	if err := s.Users.Replace(ctx, snap.Users); err != nil {
		return err
	}
	if err := s.Events.Replace(ctx, snap.Events); err != nil {
		return err
	}
	return s.Payments.Replace(ctx, snap.Payments)
}
