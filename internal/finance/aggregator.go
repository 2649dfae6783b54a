package finance

import (
	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/quota"
)

// Aggregator recomputes statistics from the store on every call. Each call
// reads one snapshot and one "now".
type Aggregator struct {
	store  *entitystore.Store
	quotas *quota.Schedule
	clock  clock.Clock
}

// NewAggregator creates an Aggregator. clk decides which month reports are
// anchored to.
func NewAggregator(store *entitystore.Store, quotas *quota.Schedule, clk clock.Clock) *Aggregator {
	return &Aggregator{store: store, quotas: quotas, clock: clk}
}

// CollectionRate over all materialized rows.
func (a *Aggregator) CollectionRate() (float64, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return 0, err
	}
	return CollectionRate(snap.Payments), nil
}

// Summary returns the total collected and projections.
func (a *Aggregator) Summary() (Summary, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return Summary{}, err
	}
	return Summarize(snap.Users, snap.Payments, a.quotas)
}

// DelinquencyByMonth for the months of r.
func (a *Aggregator) DelinquencyByMonth(r Range) ([]MonthDelinquency, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return DelinquencyByMonth(snap.Users, snap.Payments, a.clock.Now(), r)
}

// RevenueVsProjectionByMonth for the months of r.
func (a *Aggregator) RevenueVsProjectionByMonth(r Range) ([]MonthRevenue, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return RevenueVsProjectionByMonth(snap.Users, snap.Payments, a.quotas, a.clock.Now(), r)
}

// FacultyComparison per faculty.
func (a *Aggregator) FacultyComparison() ([]FacultyStats, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return FacultyComparison(snap.Users, snap.Payments), nil
}

// DashboardReport is everything the admin dashboard shows.
type DashboardReport struct {
	Stats     DashboardStats `json:"stats"`
	Faculties []FacultyCount `json:"faculties"`
	Statuses  []StatusCount  `json:"statuses"`
	Evolution []MembersPoint `json:"evolution"`
}

// Dashboard computes the admin dashboard.
func (a *Aggregator) Dashboard() (DashboardReport, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return DashboardReport{}, err
	}
	now := a.clock.Now()
	return DashboardReport{
		Stats:     Dashboard(snap.Users, snap.Events, snap.Payments, now),
		Faculties: FacultyDistribution(snap.Users),
		Statuses:  PaymentStatusBreakdown(snap.Payments, now),
		Evolution: MembersEvolution(snap.Users, now.Location()),
	}, nil
}

// Overview is the finance page header.
type Overview struct {
	Summary          Summary `json:"summary"`
	CollectionRate   float64 `json:"collectionRate"`
	ConfirmationRate float64 `json:"confirmationRate"`
	Overdue          Overdue `json:"overdue"`
}

// Overview computes the finance page header from one snapshot.
func (a *Aggregator) Overview() (Overview, error) {
	snap, err := a.store.Snapshot()
	if err != nil {
		return Overview{}, err
	}
	summary, err := Summarize(snap.Users, snap.Payments, a.quotas)
	if err != nil {
		return Overview{}, err
	}
	overdue, err := OverdueSummary(snap.Users, snap.Payments, a.quotas, a.clock.Now())
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Summary:          summary,
		CollectionRate:   CollectionRate(snap.Payments),
		ConfirmationRate: ConfirmationRate(snap.Payments),
		Overdue:          overdue,
	}, nil
}
