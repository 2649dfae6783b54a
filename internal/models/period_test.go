package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodElapsed(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, loc)

	tests := []struct {
		name   string
		period Period
		want   bool
	}{
		{"previous year", Period{Month: 12, Year: 2025}, true},
		{"last month", Period{Month: 5, Year: 2026}, true},
		{"current month", Period{Month: 6, Year: 2026}, false},
		{"next month", Period{Month: 7, Year: 2026}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.Elapsed(now))
		})
	}
}

func TestPeriodElapsedAtBoundary(t *testing.T) {
	p := Period{Month: 6, Year: 2026}
	boundary := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, p.Elapsed(boundary.Add(-time.Nanosecond)))
	assert.True(t, p.Elapsed(boundary))
}

func TestPeriodAddMonths(t *testing.T) {
	p := Period{Month: 1, Year: 2026}

	assert.Equal(t, Period{Month: 12, Year: 2025}, p.AddMonths(-1))
	assert.Equal(t, Period{Month: 2, Year: 2026}, p.AddMonths(1))
	assert.Equal(t, Period{Month: 1, Year: 2027}, p.AddMonths(12))
	assert.Equal(t, Period{Month: 7, Year: 2024}, p.AddMonths(-18))
}

func TestPeriodCompareAndParse(t *testing.T) {
	a := Period{Month: 3, Year: 2026}
	b := Period{Month: 11, Year: 2025}

	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	parsed, err := ParsePeriod(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParsePeriod("2026-13")
	assert.Error(t, err)
}

func TestPaymentDecodesLegacyMethod(t *testing.T) {
	raw := `{"id":"p1","userId":"u1","month":3,"year":2026,"amount":10,"status":"PAID","method":"Comprovativo Manual"}`

	var p Payment
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, MethodManualProof, p.Method)
	assert.Equal(t, Period{Month: 3, Year: 2026}, p.Period)
	assert.Equal(t, "10", p.Amount.String())
}

func TestFacultyShortName(t *testing.T) {
	assert.Equal(t, "FEN", FacultyFEN.ShortName())
	assert.Equal(t, "ENAP", FacultyENAP.ShortName())

	f, ok := ParseFaculty("esri")
	require.True(t, ok)
	assert.Equal(t, FacultyESRI, f)

	_, ok = ParseFaculty("unknown")
	assert.False(t, ok)
}
