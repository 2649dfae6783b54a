package payments

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mycese/internal/models"
)

// PortalMonth is one cell of a member's yearly payment grid.
type PortalMonth struct {
	Period    models.Period
	Status    models.PaymentStatus
	Amount    decimal.Decimal
	PaymentID string // empty when the status is derived

	// Selectable is false for months already paid or in review.
	Selectable bool
}

// Portal is a member's payment grid for one year.
type Portal struct {
	UserID string
	Year   int
	Quota  decimal.Decimal
	Months []PortalMonth
}

// Total returns the amount due for the selected selectable months.
func (p Portal) Total(selected []models.Period) decimal.Decimal {
	total := decimal.Zero
	for _, m := range p.Months {
		if m.Selectable && slices.Contains(selected, m.Period) {
			total = total.Add(m.Amount)
		}
	}
	return total
}

// Portal builds the twelve-month grid for userID in year.
func (e *Engine) Portal(userID string, year int) (Portal, error) {
	if year < models.MinYear {
		return Portal{}, ErrInvalidPeriod.Withf("invalid year %d", year)
	}
	user, err := e.user(userID)
	if err != nil {
		return Portal{}, err
	}
	quotaAmount, err := e.quotas.For(user.Role)
	if err != nil {
		return Portal{}, err
	}
	rows, err := e.UserPayments(userID)
	if err != nil {
		return Portal{}, err
	}

	now := e.clock.Now()
	portal := Portal{UserID: userID, Year: year, Quota: quotaAmount, Months: make([]PortalMonth, 0, 12)}
	for month := 1; month <= 12; month++ {
		period := models.Period{Month: month, Year: year}
		cell := PortalMonth{Period: period, Status: DeriveStatus(period, now), Amount: quotaAmount}
		for _, p := range rows {
			if p.Period == period {
				cell.Status = EffectiveStatus(p, now)
				cell.Amount = p.Amount
				cell.PaymentID = p.ID
				break
			}
		}
		cell.Selectable = !cell.Status.Settled()
		portal.Months = append(portal.Months, cell)
	}
	return portal, nil
}

// UserPayments returns the user's rows, most recent period first.
func (e *Engine) UserPayments(userID string) ([]models.Payment, error) {
	all, err := e.store.Payments.List()
	if err != nil {
		return nil, err
	}
	var rows []models.Payment
	for _, p := range all {
		if p.UserID == userID {
			rows = append(rows, p)
		}
	}
	slices.SortFunc(rows, func(a, b models.Payment) int {
		return b.Period.Compare(a.Period)
	})
	return rows, nil
}

// LedgerFilter narrows the finance ledger. Zero values match everything.
type LedgerFilter struct {
	Search string // case-insensitive match on member name or email
	Status models.PaymentStatus
	Role   models.Role
	UserID string
}

// LedgerRow is a payment joined with its member.
type LedgerRow struct {
	Payment models.Payment
	Member  models.User
}

// activityTime is the proof submission time, else the payment time.
func (r LedgerRow) activityTime() time.Time {
	if r.Payment.Proof != nil {
		return r.Payment.Proof.SubmittedAt
	}
	if r.Payment.PaidAt != nil {
		return *r.Payment.PaidAt
	}
	return time.Time{}
}

// Ledger lists payments for review, most recent activity first. Rows whose
// member no longer exists are skipped.
func (e *Engine) Ledger(filter LedgerFilter) ([]LedgerRow, error) {
	snap, err := e.store.Snapshot()
	if err != nil {
		return nil, err
	}
	users := make(map[string]models.User, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = u.Sanitized()
	}

	now := e.clock.Now()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var rows []LedgerRow
	for _, p := range snap.Payments {
		u, ok := users[p.UserID]
		if !ok {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		p.Status = EffectiveStatus(p, now)
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		rows = append(rows, LedgerRow{Payment: p, Member: u})
	}

	slices.SortStableFunc(rows, func(a, b LedgerRow) int {
		return b.activityTime().Compare(a.activityTime())
	})
	return rows, nil
}
