package models

import (
	"fmt"
	"time"
)

// MinYear is the earliest year accepted for a quota period.
const MinYear = 2000

// Period is a quota period: one billing cycle of a member's dues.
type Period struct {
	Month int `json:"month"` // 1-12
	Year  int `json:"year"`
}

// PeriodOf returns the period containing t, in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// ParsePeriod parses the "YYYY-MM" form produced by String.
func ParsePeriod(s string) (Period, error) {
	var p Period
	if _, err := fmt.Sscanf(s, "%04d-%02d", &p.Year, &p.Month); err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	if !p.Valid() {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	return p, nil
}

// Valid reports whether the month is 1-12 and the year is plausible.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12 && p.Year >= MinYear
}

// Start returns the first instant of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
}

// ReferenceDate returns the first instant of the following month. A period is
// elapsed once its reference date has been reached.
func (p Period) ReferenceDate(loc *time.Location) time.Time {
	return p.AddMonths(1).Start(loc)
}

// Elapsed reports whether the period's month has fully passed at now.
// Month boundaries are taken in now's location.
func (p Period) Elapsed(now time.Time) bool {
	return !p.ReferenceDate(now.Location()).After(now)
}

// AddMonths returns the period n months later (n may be negative).
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	return Period{Month: idx%12 + 1, Year: idx / 12}
}

// Compare returns -1, 0 or +1 ordering periods chronologically.
func (p Period) Compare(o Period) int {
	switch {
	case p.Year < o.Year || (p.Year == o.Year && p.Month < o.Month):
		return -1
	case p == o:
		return 0
	default:
		return 1
	}
}

// String returns the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
