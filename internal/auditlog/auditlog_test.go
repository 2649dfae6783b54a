package auditlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/storage/memory"
)

func TestRecordPrependsEntries(t *testing.T) {
	ctx := context.Background()
	store, err := entitystore.Open(ctx, memory.New())
	require.NoError(t, err)

	clk := clock.NewManual(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	log := New(store.Logs, clk, slog.Default(), nil)

	log.Record(ctx, "Pagamento submetido", "Ana", nil)
	clk.Advance(time.Minute)
	log.Record(ctx, "Login bem-sucedido", "", &models.LogDetails{Status: models.LogSuccess})

	entries, err := log.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Login bem-sucedido", entries[0].Action)
	assert.Equal(t, models.SystemActor, entries[0].User)
	assert.Equal(t, models.LogSuccess, entries[0].Details.Status)
	assert.NotEmpty(t, entries[0].ID)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))

	assert.Equal(t, "Ana", entries[1].User)

	limited, err := log.List(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store, err := entitystore.Open(ctx, kv)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := prometheus.NewRegistry()
	log := New(store.Logs, clock.Fixed(time.Now()), logger, reg)

	kv.FailWrites(errors.New("storage full"))
	log.Record(ctx, "Evento removido", "Ana", nil)

	assert.Contains(t, buf.String(), "Failed to write audit entry")
	assert.Contains(t, buf.String(), "storage full")
	assert.Equal(t, float64(1), testutil.ToFloat64(log.failures))

	entries, err := log.List(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
