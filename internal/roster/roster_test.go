package roster

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/storage/memory"
)

func newRoster(t *testing.T) (*Roster, *entitystore.Store, *clock.Manual) {
	t.Helper()
	store, err := entitystore.Open(context.Background(), memory.New())
	require.NoError(t, err)
	clk := clock.NewManual(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	return New(store.Users, auditlog.New(store.Logs, clk, slog.Default(), nil), clk), store, clk
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newRoster(t)

	u, err := r.Create(ctx, "Admin", NewMember{
		Name:    " Ana Silva ",
		Email:   "Ana@Example.com",
		Faculty: models.FacultyFEN,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, models.RoleMember, u.Role)
	assert.Equal(t, models.StatusActive, u.Status)
	assert.Equal(t, 1, u.PasswordVersion)
	assert.Regexp(t, regexp.MustCompile(`^MYC-2026-[A-Z0-9]{6}$`), u.MyceseNumber)

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, err := r.Create(ctx, "Admin", NewMember{Name: "Other", Email: "ANA@example.com", Faculty: models.FacultyFCT})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := r.Create(ctx, "", NewMember{Name: "", Email: "x@example.com", Faculty: models.FacultyFCT})
		assert.ErrorIs(t, err, ErrInvalidMember)
		_, err = r.Create(ctx, "", NewMember{Name: "X", Email: "not-an-email", Faculty: models.FacultyFCT})
		assert.ErrorIs(t, err, ErrInvalidMember)
		_, err = r.Create(ctx, "", NewMember{Name: "X", Email: "x@example.com", Faculty: "Unknown"})
		assert.ErrorIs(t, err, ErrInvalidMember)
	})

	logs, err := store.Logs.List()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Action, "Ana Silva")
}

func TestLookupsAndUpdates(t *testing.T) {
	ctx := context.Background()
	r, _, clk := newRoster(t)

	u, err := r.Create(ctx, "", NewMember{Name: "Bruno", Email: "bruno@example.com", Faculty: models.FacultyESG, PasswordHash: "h1"})
	require.NoError(t, err)

	got, err := r.GetByEmail("BRUNO@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	name := "Bruno Costa"
	role := models.RoleCFO
	updated, err := r.Update(ctx, "Admin", u.ID, Changes{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Bruno Costa", updated.Name)
	assert.Equal(t, models.RoleCFO, updated.Role)
	assert.Equal(t, models.FacultyESG, updated.Faculty)

	deactivated, err := r.SetStatus(ctx, "Admin", u.ID, models.StatusInactive)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive())

	t.Run("reset token lifecycle", func(t *testing.T) {
		require.NoError(t, r.SetResetToken(ctx, u.ID, "digest", clk.Now().Add(15*time.Minute)))

		found, err := r.FindByResetToken("digest", clk.Now())
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		_, err = r.FindByResetToken("digest", clk.Now().Add(16*time.Minute))
		assert.ErrorIs(t, err, ErrUserNotFound)

		changed, err := r.SetPassword(ctx, u.ID, "h2", false)
		require.NoError(t, err)
		assert.Equal(t, "h2", changed.PasswordHash)
		assert.Equal(t, 2, changed.PasswordVersion)
		assert.Empty(t, changed.ResetPasswordToken)
		assert.Nil(t, changed.ResetPasswordExpires)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newRoster(t)

	for _, m := range []NewMember{
		{Name: "Carla", Email: "carla@example.com", Faculty: models.FacultyFEN, Role: models.RoleMember},
		{Name: "alberto", Email: "alberto@example.com", Faculty: models.FacultyFCT, Role: models.RoleAdmin},
		{Name: "Beatriz", Email: "bia@example.com", Faculty: models.FacultyFEN, Role: models.RoleMember},
	} {
		_, err := r.Create(ctx, "", m)
		require.NoError(t, err)
	}

	all, err := r.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"alberto", "Beatriz", "Carla"}, []string{all[0].Name, all[1].Name, all[2].Name})

	fen, err := r.List(Filter{Faculty: models.FacultyFEN, Search: "BIA"})
	require.NoError(t, err)
	require.Len(t, fen, 1)
	assert.Equal(t, "Beatriz", fen[0].Name)

	admins, err := r.List(Filter{Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admins, 1)
}

func TestTemporaryPassword(t *testing.T) {
	for range 20 {
		assert.Regexp(t, `^Mudar@[a-z0-9]{5}[0-9]$`, TemporaryPassword())
	}
}
