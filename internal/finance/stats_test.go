package finance

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/quota"
)

var (
	utc     = time.UTC
	juneNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, utc)
	march   = models.Period{Month: 3, Year: 2026}
)

func user(id string, role models.Role, faculty models.Faculty, joined time.Time) models.User {
	return models.User{ID: id, Role: role, Faculty: faculty, Status: models.StatusActive, CreatedAt: joined}
}

func payment(userID string, period models.Period, status models.PaymentStatus, amount int64) models.Payment {
	return models.Payment{ID: userID + period.String(), UserID: userID, Period: period, Status: status, Amount: decimal.NewFromInt(amount)}
}

func TestCollectionRate(t *testing.T) {
	tests := []struct {
		name     string
		payments []models.Payment
		want     float64
	}{
		{"no rows", nil, 0},
		{"only awaiting", []models.Payment{payment("a", march, models.PaymentAwaitingConfirmation, 10)}, 0},
		{
			name: "awaiting rows are excluded",
			payments: []models.Payment{
				payment("a", march, models.PaymentPaid, 10),
				payment("b", march, models.PaymentOverdue, 10),
				payment("c", march, models.PaymentPending, 10),
				payment("d", march, models.PaymentAwaitingConfirmation, 10),
			},
			want: 33.3,
		},
		{
			name: "rounds to one decimal",
			payments: []models.Payment{
				payment("a", march, models.PaymentPaid, 10),
				payment("b", march, models.PaymentPaid, 10),
				payment("c", march, models.PaymentOverdue, 10),
			},
			want: 66.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollectionRate(tt.payments))
		})
	}
}

func TestSummarize(t *testing.T) {
	joined := time.Date(2025, 1, 1, 0, 0, 0, 0, utc)
	inactive := user("x", models.RoleAdmin, models.FacultyFEN, joined)
	inactive.Status = models.StatusInactive

	users := []models.User{
		user("m", models.RoleMember, models.FacultyFEN, joined),
		user("c", models.RoleCFO, models.FacultyFCT, joined),
		inactive,
	}
	payments := []models.Payment{
		payment("m", march, models.PaymentPaid, 10),
		payment("c", march, models.PaymentPaid, 35),
		payment("m", models.Period{Month: 4, Year: 2026}, models.PaymentAwaitingConfirmation, 10),
	}

	s, err := Summarize(users, payments, quota.Default())
	require.NoError(t, err)
	assert.Equal(t, "45", s.TotalCollected.String())
	assert.Equal(t, "45", s.ProjectedMonthly.String())
	assert.Equal(t, "540", s.ProjectedAnnual.String())
}

func TestDelinquencyByMonth(t *testing.T) {
	before := time.Date(2026, 1, 10, 0, 0, 0, 0, utc)

	t.Run("single elapsed month", func(t *testing.T) {
		users := []models.User{
			user("a", models.RoleMember, models.FacultyFEN, before),
			user("b", models.RoleMember, models.FacultyFEN, before),
			user("c", models.RoleMember, models.FacultyFEN, before),
		}
		payments := []models.Payment{payment("a", march, models.PaymentPaid, 10)}

		got, err := DelinquencyByMonth(users, payments, juneNow, Range{End: march, Months: 1})
		require.NoError(t, err)
		assert.Equal(t, []MonthDelinquency{{Period: march, Paid: 1, Overdue: 2}}, got)
	})

	t.Run("membership and activity gating", func(t *testing.T) {
		lateJoiner := user("late", models.RoleMember, models.FacultyFEN, time.Date(2026, 5, 20, 0, 0, 0, 0, utc))
		gone := user("gone", models.RoleMember, models.FacultyFEN, before)
		gone.Status = models.StatusInactive
		users := []models.User{user("a", models.RoleMember, models.FacultyFEN, before), lateJoiner, gone}
		payments := []models.Payment{
			payment("a", models.Period{Month: 4, Year: 2026}, models.PaymentPaid, 10),
			payment("late", models.Period{Month: 6, Year: 2026}, models.PaymentAwaitingConfirmation, 10),
		}

		got, err := DelinquencyByMonth(users, payments, juneNow, LastMonths(3))
		require.NoError(t, err)

		want := []MonthDelinquency{
			{Period: models.Period{Month: 4, Year: 2026}, Paid: 1, Overdue: 0},
			{Period: models.Period{Month: 5, Year: 2026}, Paid: 0, Overdue: 2},
			{Period: models.Period{Month: 6, Year: 2026}, Paid: 0, Overdue: 0},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DelinquencyByMonth mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := DelinquencyByMonth(nil, nil, juneNow, LastMonths(0))
		assert.ErrorIs(t, err, ErrInvalidWindow)
		_, err = DelinquencyByMonth(nil, nil, juneNow, LastMonths(MaxWindow+1))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestRevenueVsProjectionByMonth(t *testing.T) {
	users := []models.User{
		user("m", models.RoleMember, models.FacultyFEN, time.Date(2025, 12, 1, 0, 0, 0, 0, utc)),
		user("c", models.RoleCFO, models.FacultyFCT, time.Date(2026, 6, 3, 0, 0, 0, 0, utc)),
	}
	payments := []models.Payment{
		payment("m", models.Period{Month: 5, Year: 2026}, models.PaymentPaid, 10),
		payment("m", models.Period{Month: 6, Year: 2026}, models.PaymentAwaitingConfirmation, 10),
	}

	got, err := RevenueVsProjectionByMonth(users, payments, quota.Default(), juneNow, LastMonths(2))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Period{Month: 5, Year: 2026}, got[0].Period)
	assert.Equal(t, "10", got[0].Revenue.String())
	assert.Equal(t, "10", got[0].Projection.String())

	assert.Equal(t, models.Period{Month: 6, Year: 2026}, got[1].Period)
	assert.Equal(t, "0", got[1].Revenue.String())
	assert.Equal(t, "45", got[1].Projection.String())
}

func TestFacultyComparison(t *testing.T) {
	joined := time.Date(2025, 1, 1, 0, 0, 0, 0, utc)
	users := []models.User{
		user("a", models.RoleMember, models.FacultyFEN, joined),
		user("b", models.RoleMember, models.FacultyFEN, joined),
		user("c", models.RoleCFO, models.FacultyESG, joined),
	}
	payments := []models.Payment{
		payment("a", march, models.PaymentPaid, 10),
		payment("b", march, models.PaymentOverdue, 10),
		payment("b", models.Period{Month: 4, Year: 2026}, models.PaymentAwaitingConfirmation, 10),
		payment("ghost", march, models.PaymentPaid, 99),
	}

	got := FacultyComparison(users, payments)
	require.Len(t, got, len(models.Faculties()))

	fen := got[0]
	assert.Equal(t, models.FacultyFEN, fen.Faculty)
	assert.Equal(t, 2, fen.Members)
	assert.Equal(t, 3, fen.TotalQuotas)
	assert.Equal(t, 1, fen.PaidQuotas)
	assert.Equal(t, 33.3, fen.PaymentRate)
	assert.Equal(t, "10", fen.TotalCollected.String())

	esg := got[3]
	assert.Equal(t, models.FacultyESG, esg.Faculty)
	assert.Equal(t, 1, esg.Members)
	assert.Equal(t, 0.0, esg.PaymentRate)

	enap := got[4]
	assert.Equal(t, 0, enap.Members)
	assert.True(t, enap.TotalCollected.IsZero())
}
