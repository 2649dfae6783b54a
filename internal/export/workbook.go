// Package export renders finance data as an Excel workbook and the
// collections as a JSON backup.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/mycese/internal/finance"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/internal/payments"
)

// Sheet names.
const (
	SheetPayments    = "Pagamentos"
	SheetDelinquency = "Inadimplencia"
	SheetFaculties   = "Faculdades"
)

// Workbook is the data rendered by WriteWorkbook.
type Workbook struct {
	Ledger      []payments.LedgerRow
	Delinquency []finance.MonthDelinquency
	Faculties   []finance.FacultyStats
	Location    *time.Location // for timestamps; UTC when nil
}

// Source provides the data of a finance workbook.
type Source interface {
	Ledger(filter payments.LedgerFilter) ([]payments.LedgerRow, error)
}

// Reports provides the aggregate sheets of a finance workbook.
type Reports interface {
	DelinquencyByMonth(r finance.Range) ([]finance.MonthDelinquency, error)
	FacultyComparison() ([]finance.FacultyStats, error)
}

// Collect gathers the full ledger and the aggregates over r.
func Collect(src Source, reports Reports, r finance.Range, loc *time.Location) (Workbook, error) {
	ledger, err := src.Ledger(payments.LedgerFilter{})
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	delinquency, err := reports.DelinquencyByMonth(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to compute delinquency: %w", err)
	}
	faculties, err := reports.FacultyComparison()
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to compute faculty comparison: %w", err)
	}
	return Workbook{Ledger: ledger, Delinquency: delinquency, Faculties: faculties, Location: loc}, nil
}

// WriteWorkbook renders data as an .xlsx file.
func WriteWorkbook(w io.Writer, data Workbook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	loc := data.Location
	if loc == nil {
		loc = time.UTC
	}

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetPayments); err != nil {
		return err
	}
	rows := [][]any{{"Membro", "E-mail", "Função", "Faculdade", "Mês", "Valor", "Estado", "Método", "Data"}}
	for _, r := range data.Ledger {
		amount, _ := r.Payment.Amount.Float64()
		rows = append(rows, []any{
			r.Member.Name,
			r.Member.Email,
			string(r.Member.Role),
			r.Member.Faculty.ShortName(),
			r.Payment.Period.String(),
			amount,
			string(r.Payment.Status),
			string(r.Payment.Method),
			activity(r.Payment, loc),
		})
	}
	if err := writeRows(f, SheetPayments, rows); err != nil {
		return err
	}

	rows = [][]any{{"Mês", "Pagos", "Em atraso"}}
	for _, m := range data.Delinquency {
		rows = append(rows, []any{m.Period.String(), m.Paid, m.Overdue})
	}
	if err := addSheet(f, SheetDelinquency, rows); err != nil {
		return err
	}

	rows = [][]any{{"Faculdade", "Membros", "Quotas pagas", "Quotas totais", "Taxa de pagamento (%)", "Total arrecadado"}}
	for _, s := range data.Faculties {
		total, _ := s.TotalCollected.Float64()
		rows = append(rows, []any{s.Faculty.ShortName(), s.Members, s.PaidQuotas, s.TotalQuotas, s.PaymentRate, total})
	}
	if err := addSheet(f, SheetFaculties, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func activity(p models.Payment, loc *time.Location) string {
	switch {
	case p.PaidAt != nil:
		return p.PaidAt.In(loc).Format("2006-01-02 15:04")
	case p.Proof != nil:
		return p.Proof.SubmittedAt.In(loc).Format("2006-01-02 15:04")
	default:
		return ""
	}
}
