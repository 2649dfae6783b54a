package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/mycese/internal/app"
	"github.com/mmynk/mycese/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("MYCESE_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("MYCESE_STORAGE_PATH", filepath.Join(t.TempDir(), "mycese.db"))
	t.Setenv("MYCESE_AUTH_BCRYPT_COST", "4")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestRunUsage(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	assert.ErrorIs(t, run(ctx, cfg, logger, nil, nil, nil), errUsage)
	assert.ErrorIs(t, run(ctx, cfg, logger, []string{"unknown"}, nil, nil), errUsage)
	assert.ErrorIs(t, run(ctx, cfg, logger, []string{"backup"}, nil, nil), errUsage)
}

func TestBackupAndRestore(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()
	dir := t.TempDir()

	var out bytes.Buffer
	err := run(ctx, cfg, logger, []string{"create-admin", "Admin", "admin@mycese.org"}, strings.NewReader("admin1234\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "admin@mycese.org")

	backupPath := filepath.Join(dir, "backup.json")
	require.NoError(t, run(ctx, cfg, logger, []string{"backup", backupPath}, nil, &out))
	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "passwordHash")

	// Restore into a fresh database and log in with the original password.
	fresh := testConfig(t)
	require.NoError(t, run(ctx, fresh, logger, []string{"restore", backupPath}, nil, &out))

	a, err := app.New(ctx, fresh, logger)
	require.NoError(t, err)
	defer a.Close()
	admin, err := a.Roster.GetByEmail("admin@mycese.org")
	require.NoError(t, err)
	assert.True(t, a.Hasher.Verify(admin.PasswordHash, "admin1234"))
}

func TestExportWorkbook(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "financas.xlsx")

	require.NoError(t, run(context.Background(), cfg, slog.New(slog.DiscardHandler), []string{"export-xlsx", path}, nil, &bytes.Buffer{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Pagamentos", "Inadimplencia", "Faculdades"}, f.GetSheetList())
}
