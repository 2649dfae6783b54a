package finance

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
	"github.com/mmynk/mycese/internal/quota"
)

// DashboardStats are the admin dashboard headline numbers.
type DashboardStats struct {
	ActiveMembers       int     `json:"activeMembers"`
	NewMembersThisMonth int     `json:"newMembersThisMonth"`
	EventsHeld          int     `json:"eventsHeld"`  // events dated on or before now
	PaymentRate         float64 `json:"paymentRate"` // see CollectionRate
}

// Dashboard computes the headline numbers at now.
func Dashboard(users []models.User, events []models.Event, payments []models.Payment, now time.Time) DashboardStats {
	monthStart := models.PeriodOf(now).Start(now.Location())

	var stats DashboardStats
	for _, u := range users {
		if u.IsActive() {
			stats.ActiveMembers++
		}
		if !u.CreatedAt.Before(monthStart) {
			stats.NewMembersThisMonth++
		}
	}
	for _, e := range events {
		if !e.Date.After(now) {
			stats.EventsHeld++
		}
	}
	stats.PaymentRate = CollectionRate(payments)
	return stats
}

// FacultyCount is the number of members in one faculty.
type FacultyCount struct {
	Faculty models.Faculty `json:"faculty"`
	Count   int            `json:"count"`
}

// FacultyDistribution counts members per faculty, skipping empty faculties.
func FacultyDistribution(users []models.User) []FacultyCount {
	counts := make(map[models.Faculty]int)
	for _, u := range users {
		counts[u.Faculty]++
	}
	var out []FacultyCount
	for _, f := range models.Faculties() {
		if n := counts[f]; n > 0 {
			out = append(out, FacultyCount{Faculty: f, Count: n})
		}
	}
	return out
}

// StatusCount is the number of rows in one payment status.
type StatusCount struct {
	Status models.PaymentStatus `json:"status"`
	Count  int                  `json:"count"`
}

// PaymentStatusBreakdown counts rows per status as seen at now, skipping
// empty statuses.
func PaymentStatusBreakdown(rows []models.Payment, now time.Time) []StatusCount {
	counts := make(map[models.PaymentStatus]int)
	for _, p := range rows {
		counts[payments.EffectiveStatus(p, now)]++
	}
	var out []StatusCount
	for _, s := range models.PaymentStatuses() {
		if n := counts[s]; n > 0 {
			out = append(out, StatusCount{Status: s, Count: n})
		}
	}
	return out
}

// MembersPoint is the cumulative member count at the end of a month.
type MembersPoint struct {
	Period  models.Period `json:"period"`
	Members int           `json:"members"`
}

// MembersEvolution returns the cumulative member count for every month in
// which at least one member joined, oldest first.
func MembersEvolution(users []models.User, loc *time.Location) []MembersPoint {
	joined := make([]time.Time, 0, len(users))
	for _, u := range users {
		joined = append(joined, u.CreatedAt.In(loc))
	}
	slices.SortFunc(joined, func(a, b time.Time) int { return a.Compare(b) })

	var out []MembersPoint
	for i, t := range joined {
		period := models.PeriodOf(t)
		if n := len(out); n > 0 && out[n-1].Period == period {
			out[n-1].Members = i + 1
			continue
		}
		out = append(out, MembersPoint{Period: period, Members: i + 1})
	}
	return out
}

// Overdue is the finance view's arrears summary for the year of now.
type Overdue struct {
	CollectedThisMonth decimal.Decimal `json:"collectedThisMonth"`
	Amount             decimal.Decimal `json:"amount"`  // quota owed for unpaid elapsed months
	Members            int             `json:"members"` // distinct active members in arrears
}

// OverdueSummary looks at the elapsed months of the current year. A month is
// in arrears for an active member who had joined by then and has no row, or
// a PENDING or OVERDUE row. Rows awaiting confirmation are not arrears.
func OverdueSummary(users []models.User, payments []models.Payment, quotas *quota.Schedule, now time.Time) (Overdue, error) {
	current := models.PeriodOf(now)
	idx := indexPayments(payments)

	summary := Overdue{CollectedThisMonth: decimal.Zero, Amount: decimal.Zero}
	for _, u := range users {
		if !u.IsActive() {
			continue
		}
		amount, err := quotas.For(u.Role)
		if err != nil {
			return Overdue{}, err
		}
		inArrears := false
		for month := 1; month < current.Month; month++ {
			period := models.Period{Month: month, Year: current.Year}
			if !memberDuring(u, period, now.Location()) {
				continue
			}
			p, ok := idx[models.PeriodKey{UserID: u.ID, Period: period}]
			if ok && (p.Status == models.PaymentPaid || p.Status == models.PaymentAwaitingConfirmation) {
				continue
			}
			summary.Amount = summary.Amount.Add(amount)
			inArrears = true
		}
		if inArrears {
			summary.Members++
		}
	}

	for _, p := range payments {
		if p.Period == current && p.Status == models.PaymentPaid {
			summary.CollectedThisMonth = summary.CollectedThisMonth.Add(p.Amount)
		}
	}
	return summary, nil
}

// ConfirmationRate is the share of proof-backed rows that were confirmed,
// in percent with one decimal. It is 100 when no proofs were submitted.
func ConfirmationRate(payments []models.Payment) float64 {
	var withProof, paid int
	for _, p := range payments {
		if p.Proof == nil {
			continue
		}
		withProof++
		if p.Status == models.PaymentPaid {
			paid++
		}
	}
	if withProof == 0 {
		return 100
	}
	return percent(paid, withProof)
}
