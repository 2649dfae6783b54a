package api

import (
	"github.com/mmynk/mycese/internal/finance"
	"github.com/mmynk/mycese/internal/models"
)

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Dashboard finance.DashboardReport `json:"dashboard"`
}

type GetFinancialSummaryRequest struct{}

type GetFinancialSummaryResponse struct {
	Summary        finance.Summary `json:"summary"`
	CollectionRate float64         `json:"collectionRate"`
}

// WindowRequest selects the months of a monthly series. Zero Months uses
// the configured default and a zero End uses the current month.
type WindowRequest struct {
	Months int            `json:"months" validate:"gte=0,lte=60"`
	End    *models.Period `json:"end,omitempty"`
}

type GetDelinquencyRequest = WindowRequest

type GetDelinquencyResponse struct {
	Months []finance.MonthDelinquency `json:"months"`
}

type GetRevenueVsProjectionRequest = WindowRequest

type GetRevenueVsProjectionResponse struct {
	Months []finance.MonthRevenue `json:"months"`
}

type GetFacultyComparisonRequest struct{}

type GetFacultyComparisonResponse struct {
	Faculties []finance.FacultyStats `json:"faculties"`
}

type GetFinanceOverviewRequest struct{}

type GetFinanceOverviewResponse struct {
	Overview finance.Overview `json:"overview"`
}

type ListLogsRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

type ListLogsResponse struct {
	Entries []models.LogEntry `json:"entries"`
}

type ExportBackupRequest struct{}

type ExportBackupResponse struct {
	FileName string `json:"fileName"`
	Data     []byte `json:"data"`
}

type ExportWorkbookRequest struct{}

type ExportWorkbookResponse struct {
	FileName string `json:"fileName"`
	Data     []byte `json:"data"`
}
