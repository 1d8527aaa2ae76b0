package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"solar_eda"
	"solar_eda/internal/models"

	"github.com/xuri/excelize/v2"
)

func exportRun() solar_eda.Run {
	nan := models.Num(math.NaN())
	return solar_eda.Run{
		ID:        "run-1",
		CreatedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
		Dataset:   "benin-malanville",
		Source:    "catalog",
		Policy:    "drop",
		Summary:   models.CleanSummary{Policy: models.PolicyDrop, RowsIn: 5, RowsOut: 4, RowsDropped: 1, RHClippedHigh: 1},
		Report: models.QualityReport{
			Rows: 5,
			Columns: []models.ColumnQuality{
				{Column: models.GHI, Missing: 1, Negative: 1},
				{Column: models.RH, Missing: 1, OutOfRange: 1},
			},
			Describe: []models.Summary{
				{Column: models.GHI, Count: 4, Mean: 175, Std: nan, Min: -50, Max: 300},
			},
			Correlation: models.CorrelationMatrix{
				Columns: []models.Column{models.GHI, models.DNI},
				Values:  [][]models.Num{{1, 0.5}, {0.5, 1}},
			},
		},
	}
}

func TestExportService_Workbook(t *testing.T) {
	repo := &fakeRunRepo{runs: []solar_eda.Run{exportRun()}}
	svc := NewExportService(NewRunLogService(repo))

	data, err := svc.Workbook(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	want := []string{sheetSummary, sheetQuality, sheetDescribe, sheetCorrelation}
	if len(sheets) != len(want) {
		t.Fatalf("sheets: got %v want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets: got %v want %v", sheets, want)
		}
	}

	checks := []struct {
		sheet, cell, want string
	}{
		{sheetSummary, "B1", "run-1"},
		{sheetSummary, "B3", "benin-malanville"},
		{sheetSummary, "A9", "rows_dropped"},
		{sheetSummary, "B9", "1"},
		{sheetQuality, "A3", "RH"},
		{sheetQuality, "D3", "1"},
		{sheetDescribe, "C2", "175"},
		{sheetDescribe, "D2", ""},
		{sheetCorrelation, "C1", "DNI"},
		{sheetCorrelation, "C2", "0.5"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue %s!%s: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}

func TestExportService_UnknownRun(t *testing.T) {
	svc := NewExportService(NewRunLogService(&fakeRunRepo{}))
	if _, err := svc.Workbook(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("want ErrRunNotFound, got %v", err)
	}
}
