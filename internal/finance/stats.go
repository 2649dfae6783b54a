// Package finance computes read-only financial statistics over members and
// their payments.
//
// The functions in this file are pure: they take the rows and a reference
// time and never touch storage. Only materialized payment rows count towards
// rates; a member with no rows contributes to membership counts only.
package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/quota"
)

// MaxWindow is the largest number of months a monthly series may cover.
const MaxWindow = 60

// ErrInvalidWindow is returned for a series window outside 1..MaxWindow.
var ErrInvalidWindow = apperr.New(apperr.ErrValidation, "INVALID_WINDOW", "window must be between 1 and 60 months")

// CollectionRate returns paid / (paid + pending + overdue) as a percentage
// rounded to one decimal. Rows awaiting confirmation are ignored. Returns 0
// when there is nothing to divide by.
func CollectionRate(payments []models.Payment) float64 {
	var paid, counted int
	for _, p := range payments {
		switch p.Status {
		case models.PaymentPaid:
			paid++
			counted++
		case models.PaymentPending, models.PaymentOverdue:
			counted++
		}
	}
	return percent(paid, counted)
}

// TotalCollected sums the amounts of paid rows.
func TotalCollected(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentPaid {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ProjectedMonthly sums the quota of every active member.
func ProjectedMonthly(users []models.User, quotas *quota.Schedule) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, u := range users {
		if !u.IsActive() {
			continue
		}
		amount, err := quotas.For(u.Role)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(amount)
	}
	return total, nil
}

// Summary is the headline financial position.
type Summary struct {
	TotalCollected   decimal.Decimal `json:"totalCollected"`
	ProjectedMonthly decimal.Decimal `json:"projectedMonthly"`
	ProjectedAnnual  decimal.Decimal `json:"projectedAnnual"`
}

// Summarize returns the total collected and the monthly and annual
// projections.
func Summarize(users []models.User, payments []models.Payment, quotas *quota.Schedule) (Summary, error) {
	monthly, err := ProjectedMonthly(users, quotas)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalCollected:   TotalCollected(payments),
		ProjectedMonthly: monthly,
		ProjectedAnnual:  monthly.Mul(decimal.NewFromInt(12)),
	}, nil
}

// MonthDelinquency counts, for one month, the active members who paid and
// those who have not paid a period that has already elapsed.
type MonthDelinquency struct {
	Period  models.Period `json:"period"`
	Paid    int           `json:"paid"`
	Overdue int           `json:"overdue"`
}

// Range selects the months of a monthly series: Months consecutive months
// ending with End. A zero End means the month of the reference time.
type Range struct {
	End    models.Period `json:"end"`
	Months int           `json:"months"`
}

// LastMonths is the range of n months ending with the current month.
func LastMonths(n int) Range {
	return Range{Months: n}
}

// DelinquencyByMonth covers the months of r. Members count for a month when
// they joined before the month ended; unpaid months only count as overdue
// once elapsed at now.
func DelinquencyByMonth(users []models.User, payments []models.Payment, now time.Time, r Range) ([]MonthDelinquency, error) {
	periods, err := r.periods(now)
	if err != nil {
		return nil, err
	}
	idx := indexPayments(payments)

	out := make([]MonthDelinquency, 0, len(periods))
	for _, period := range periods {
		row := MonthDelinquency{Period: period}
		for _, u := range users {
			if !u.IsActive() || !memberDuring(u, period, now.Location()) {
				continue
			}
			p, ok := idx[models.PeriodKey{UserID: u.ID, Period: period}]
			switch {
			case ok && p.Status == models.PaymentPaid:
				row.Paid++
			case period.Elapsed(now):
				row.Overdue++
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// MonthRevenue compares what was collected for a month with what active
// members were expected to pay.
type MonthRevenue struct {
	Period     models.Period   `json:"period"`
	Revenue    decimal.Decimal `json:"revenue"`
	Projection decimal.Decimal `json:"projection"`
}

// RevenueVsProjectionByMonth covers the months of r, using the same
// membership rule as DelinquencyByMonth.
func RevenueVsProjectionByMonth(users []models.User, payments []models.Payment, quotas *quota.Schedule, now time.Time, r Range) ([]MonthRevenue, error) {
	periods, err := r.periods(now)
	if err != nil {
		return nil, err
	}

	out := make([]MonthRevenue, 0, len(periods))
	for _, period := range periods {
		row := MonthRevenue{Period: period, Revenue: decimal.Zero, Projection: decimal.Zero}
		for _, u := range users {
			if !u.IsActive() || !memberDuring(u, period, now.Location()) {
				continue
			}
			amount, err := quotas.For(u.Role)
			if err != nil {
				return nil, err
			}
			row.Projection = row.Projection.Add(amount)
		}
		for _, p := range payments {
			if p.Period == period && p.Status == models.PaymentPaid {
				row.Revenue = row.Revenue.Add(p.Amount)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// FacultyStats summarizes one faculty.
type FacultyStats struct {
	Faculty        models.Faculty  `json:"faculty"`
	Members        int             `json:"members"`
	PaidQuotas     int             `json:"paidQuotas"`
	TotalQuotas    int             `json:"totalQuotas"`
	PaymentRate    float64         `json:"paymentRate"` // paid / total rows, percent, one decimal
	TotalCollected decimal.Decimal `json:"totalCollected"`
}

// FacultyComparison returns one entry per faculty, in models.Faculties
// order, including faculties without members.
func FacultyComparison(users []models.User, payments []models.Payment) []FacultyStats {
	stats := make(map[models.Faculty]*FacultyStats)
	for _, f := range models.Faculties() {
		stats[f] = &FacultyStats{Faculty: f, TotalCollected: decimal.Zero}
	}

	faculty := make(map[string]models.Faculty, len(users))
	for _, u := range users {
		faculty[u.ID] = u.Faculty
		if s, ok := stats[u.Faculty]; ok {
			s.Members++
		}
	}

	for _, p := range payments {
		s, ok := stats[faculty[p.UserID]]
		if !ok {
			continue
		}
		s.TotalQuotas++
		if p.Status == models.PaymentPaid {
			s.PaidQuotas++
			s.TotalCollected = s.TotalCollected.Add(p.Amount)
		}
	}

	out := make([]FacultyStats, 0, len(stats))
	for _, f := range models.Faculties() {
		s := stats[f]
		s.PaymentRate = percent(s.PaidQuotas, s.TotalQuotas)
		out = append(out, *s)
	}
	return out
}

// memberDuring reports whether u had joined before period ended.
func memberDuring(u models.User, period models.Period, loc *time.Location) bool {
	return u.CreatedAt.Before(period.ReferenceDate(loc))
}

func (r Range) periods(now time.Time) ([]models.Period, error) {
	if r.Months < 1 || r.Months > MaxWindow {
		return nil, ErrInvalidWindow.Withf("window must be between 1 and %d months, got %d", MaxWindow, r.Months)
	}
	end := r.End
	if end == (models.Period{}) {
		end = models.PeriodOf(now)
	}
	if !end.Valid() {
		return nil, ErrInvalidWindow.Withf("invalid end period %d/%d", end.Month, end.Year)
	}
	periods := make([]models.Period, 0, r.Months)
	for i := r.Months - 1; i >= 0; i-- {
		periods = append(periods, end.AddMonths(-i))
	}
	return periods, nil
}

func indexPayments(payments []models.Payment) map[models.PeriodKey]models.Payment {
	idx := make(map[models.PeriodKey]models.Payment, len(payments))
	for _, p := range payments {
		idx[p.Key()] = p
	}
	return idx
}

// percent returns part/whole*100 rounded to one decimal, or 0 for an empty
// whole.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
