// Package auditlog records an append-only, most-recent-first action log.
package auditlog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
)

// Recorder is the write side of the log, as used by the business packages.
type Recorder interface {
	Record(ctx context.Context, action, actor string, details *models.LogDetails)
}

// Log writes entries to the logs collection.
type Log struct {
	logs   *entitystore.Collection[models.LogEntry]
	clock  clock.Clock
	logger *slog.Logger

	failures prometheus.Counter
}

// New creates a Log. Metrics are registered with reg when it is non-nil.
func New(logs *entitystore.Collection[models.LogEntry], clk clock.Clock, logger *slog.Logger, reg prometheus.Registerer) *Log {
	return &Log{
		logs:   logs,
		clock:  clk,
		logger: logger,
		failures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "mycese_audit_write_failures_total",
			Help: "Audit log entries that could not be persisted.",
		}),
	}
}

// Record inserts an entry at the head of the log. An empty actor is recorded
// as the system. Write failures are reported through the logger and the
// failure counter and never returned: the operation being described has
// already happened.
func (l *Log) Record(ctx context.Context, action, actor string, details *models.LogDetails) {
	if actor == "" {
		actor = models.SystemActor
	}
	entry := models.LogEntry{
		ID:        uuid.New().String(),
		Timestamp: l.clock.Now(),
		User:      actor,
		Action:    action,
		Details:   details,
	}

	if err := l.logs.Prepend(ctx, entry); err != nil {
		l.failures.Inc()
		l.logger.Warn("Failed to write audit entry",
			"action", action,
			"actor", actor,
			"error", err,
		)
	}
}

// List returns up to limit entries, most recent first. A non-positive limit
// returns everything.
func (l *Log) List(limit int) ([]models.LogEntry, error) {
	entries, err := l.logs.List()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
