package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/internal/clock"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/quota"
	"github.com/mmynk/mycese/internal/storage/memory"
)

func TestAggregatorReadsCurrentState(t *testing.T) {
	ctx := context.Background()
	store, err := entitystore.Open(ctx, memory.New())
	require.NoError(t, err)

	clk := clock.NewManual(juneNow)
	agg := NewAggregator(store, quota.Default(), clk)

	rate, err := agg.CollectionRate()
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate, "no materialized rows")

	joined := time.Date(2026, 1, 5, 0, 0, 0, 0, utc)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Users.Append(ctx, user(id, models.RoleMember, models.FacultyFEN, joined)))
	}
	require.NoError(t, store.Payments.Append(ctx, payment("a", march, models.PaymentPaid, 10)))

	summary, err := agg.Summary()
	require.NoError(t, err)
	assert.Equal(t, "10", summary.TotalCollected.String())
	assert.Equal(t, "30", summary.ProjectedMonthly.String())

	delinquency, err := agg.DelinquencyByMonth(Range{End: march, Months: 1})
	require.NoError(t, err)
	assert.Equal(t, []MonthDelinquency{{Period: march, Paid: 1, Overdue: 2}}, delinquency)

	// reports follow the clock
	clk.Set(time.Date(2026, time.March, 20, 0, 0, 0, 0, utc))
	delinquency, err = agg.DelinquencyByMonth(LastMonths(1))
	require.NoError(t, err)
	assert.Equal(t, []MonthDelinquency{{Period: march, Paid: 1, Overdue: 0}}, delinquency)

	overview, err := agg.Overview()
	require.NoError(t, err)
	assert.Equal(t, 100.0, overview.CollectionRate)
	assert.Equal(t, 100.0, overview.ConfirmationRate)

	dash, err := agg.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 3, dash.Stats.ActiveMembers)

	faculties, err := agg.FacultyComparison()
	require.NoError(t, err)
	assert.Equal(t, 3, faculties[0].Members)

	revenue, err := agg.RevenueVsProjectionByMonth(LastMonths(1))
	require.NoError(t, err)
	assert.Equal(t, "10", revenue[0].Revenue.String())
}
