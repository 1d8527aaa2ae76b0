package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"solar_eda"
	"solar_eda/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary     = "Summary"
	sheetQuality     = "Quality"
	sheetDescribe    = "Describe"
	sheetCorrelation = "Correlation"
)

type ExportService struct {
	runs RunLog
}

func NewExportService(runs RunLog) *ExportService {
	return &ExportService{runs: runs}
}

// Workbook renders the stored run id as XLSX bytes.
func (s *ExportService) Workbook(ctx context.Context, id string) ([]byte, error) {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := RunWorkbook(run)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook for run %s: %w", run.ID, err)
	}
	return buf.Bytes(), nil
}

// RunWorkbook builds the workbook of one run: metadata and cleaning counts,
// per-column quality, describe table and correlation matrix.
func RunWorkbook(run solar_eda.Run) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetQuality, sheetDescribe, sheetCorrelation} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	writers := []struct {
		sheet string
		rows  [][]any
	}{
		{sheetSummary, summaryRows(run)},
		{sheetQuality, qualityRows(run.Report)},
		{sheetDescribe, describeRows(run.Report)},
		{sheetCorrelation, correlationRows(run.Report.Correlation)},
	}
	for _, w := range writers {
		if err := writeRows(f, w.sheet, w.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func summaryRows(run solar_eda.Run) [][]any {
	s := run.Summary
	return [][]any{
		{"run_id", run.ID},
		{"created_at", run.CreatedAt.UTC().Format(time.RFC3339)},
		{"dataset", run.Dataset},
		{"source", run.Source},
		{"policy", run.Policy},
		{"duration_ms", run.DurationMs},
		{"rows_in", s.RowsIn},
		{"rows_out", s.RowsOut},
		{"rows_dropped", s.RowsDropped},
		{"rows_flagged", s.RowsFlagged},
		{"protected_rows", s.ProtectedRows},
		{"rh_clipped_low", s.RHClippedLow},
		{"rh_clipped_high", s.RHClippedHigh},
		{"negatives_clipped", s.NegativesClipped},
	}
}

func qualityRows(r models.QualityReport) [][]any {
	rows := [][]any{{"column", "missing", "negative", "out_of_range"}}
	for _, q := range r.Columns {
		rows = append(rows, []any{q.Column.String(), q.Missing, q.Negative, q.OutOfRange})
	}
	return rows
}

func describeRows(r models.QualityReport) [][]any {
	rows := [][]any{{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}}
	for _, d := range r.Describe {
		rows = append(rows, []any{
			d.Column.String(), d.Count,
			cellValue(d.Mean), cellValue(d.Std), cellValue(d.Min),
			cellValue(d.Q25), cellValue(d.Median), cellValue(d.Q75), cellValue(d.Max),
		})
	}
	return rows
}

func correlationRows(m models.CorrelationMatrix) [][]any {
	header := []any{""}
	for _, c := range m.Columns {
		header = append(header, c.String())
	}
	rows := [][]any{header}
	for i, c := range m.Columns {
		row := []any{c.String()}
		for _, v := range m.Values[i] {
			row = append(row, cellValue(v))
		}
		rows = append(rows, row)
	}
	return rows
}

// Missing numbers become empty cells.
func cellValue(n models.Num) any {
	if n.Missing() || math.IsInf(float64(n), 0) {
		return nil
	}
	return float64(n)
}
