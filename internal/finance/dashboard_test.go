package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/quota"
)

func TestDashboard(t *testing.T) {
	users := []models.User{
		user("a", models.RoleMember, models.FacultyFEN, time.Date(2025, 3, 1, 0, 0, 0, 0, utc)),
		user("b", models.RoleMember, models.FacultyFEN, time.Date(2026, 6, 2, 0, 0, 0, 0, utc)),
		user("c", models.RoleCFO, models.FacultyFCT, time.Date(2025, 3, 20, 0, 0, 0, 0, utc)),
	}
	users[2].Status = models.StatusInactive
	events := []models.Event{
		{ID: "past", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, utc)},
		{ID: "future", Date: time.Date(2026, 7, 1, 0, 0, 0, 0, utc)},
	}
	payments := []models.Payment{
		payment("a", march, models.PaymentPaid, 10),
		payment("a", models.Period{Month: 4, Year: 2026}, models.PaymentOverdue, 10),
	}

	stats := Dashboard(users, events, payments, juneNow)
	assert.Equal(t, DashboardStats{ActiveMembers: 2, NewMembersThisMonth: 1, EventsHeld: 1, PaymentRate: 50}, stats)

	assert.Equal(t, []FacultyCount{{Faculty: models.FacultyFEN, Count: 2}, {Faculty: models.FacultyFCT, Count: 1}}, FacultyDistribution(users))
	assert.Equal(t, []StatusCount{{Status: models.PaymentPaid, Count: 1}, {Status: models.PaymentOverdue, Count: 1}}, PaymentStatusBreakdown(payments, juneNow))

	evolution := MembersEvolution(users, utc)
	assert.Equal(t, []MembersPoint{
		{Period: models.Period{Month: 3, Year: 2025}, Members: 2},
		{Period: models.Period{Month: 6, Year: 2026}, Members: 3},
	}, evolution)
}

func TestPaymentStatusBreakdownRederivesStatus(t *testing.T) {
	june := models.Period{Month: 6, Year: 2026}
	rows := []models.Payment{
		payment("a", june, models.PaymentPending, 10),
		payment("b", june, models.PaymentAwaitingConfirmation, 10),
	}

	assert.Equal(t, []StatusCount{{Status: models.PaymentAwaitingConfirmation, Count: 1}, {Status: models.PaymentPending, Count: 1}},
		PaymentStatusBreakdown(rows, juneNow))

	july := time.Date(2026, time.July, 2, 9, 0, 0, 0, utc)
	assert.Equal(t, []StatusCount{{Status: models.PaymentAwaitingConfirmation, Count: 1}, {Status: models.PaymentOverdue, Count: 1}},
		PaymentStatusBreakdown(rows, july))
}

func TestOverdueSummary(t *testing.T) {
	users := []models.User{
		user("a", models.RoleMember, models.FacultyFEN, time.Date(2025, 1, 1, 0, 0, 0, 0, utc)),
		user("b", models.RoleCFO, models.FacultyFEN, time.Date(2026, 4, 10, 0, 0, 0, 0, utc)),
		user("c", models.RoleMember, models.FacultyFEN, time.Date(2025, 1, 1, 0, 0, 0, 0, utc)),
	}
	var payments []models.Payment
	for m := 1; m <= 5; m++ {
		payments = append(payments, payment("c", models.Period{Month: m, Year: 2026}, models.PaymentPaid, 10))
	}
	payments = append(payments,
		payment("a", models.Period{Month: 1, Year: 2026}, models.PaymentAwaitingConfirmation, 10),
		payment("a", models.Period{Month: 2, Year: 2026}, models.PaymentPending, 10),
		payment("c", models.Period{Month: 6, Year: 2026}, models.PaymentPaid, 10),
	)

	got, err := OverdueSummary(users, payments, quota.Default(), juneNow)
	require.NoError(t, err)

	// a owes Feb..May (4 x 10); b joined in April and owes Apr..May (2 x 35)
	assert.Equal(t, "110", got.Amount.String())
	assert.Equal(t, 2, got.Members)
	assert.Equal(t, "10", got.CollectedThisMonth.String())
}

func TestConfirmationRate(t *testing.T) {
	assert.Equal(t, 100.0, ConfirmationRate(nil))

	withProof := func(status models.PaymentStatus) models.Payment {
		p := payment("a", march, status, 10)
		p.Proof = &models.Proof{FileName: "comp.pdf"}
		return p
	}
	payments := []models.Payment{
		withProof(models.PaymentPaid),
		withProof(models.PaymentAwaitingConfirmation),
		withProof(models.PaymentAwaitingConfirmation),
		payment("b", march, models.PaymentPaid, 10),
	}
	assert.Equal(t, 33.3, ConfirmationRate(payments))
}
