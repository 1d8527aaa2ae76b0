package service

import (
	"io"
	"time"

	"solar_eda"
	"solar_eda/internal/models"
)

// AnalyzeParams selects one dataset. Upload wins over Key when both are set.
type AnalyzeParams struct {
	Key        string
	Upload     io.Reader
	UploadName string
	Policy     models.NegativePolicy // "" = configured default
}

// AnalyzeResult is a stored run plus the chart-ready aggregates of the cleaned data.
type AnalyzeResult struct {
	Run        solar_eda.Run     `json:"run"`
	Aggregates models.Aggregates `json:"aggregates"`
}

// SiteComparison is one row of the cross-site comparison.
type SiteComparison struct {
	Dataset string              `json:"dataset"`
	RunID   string              `json:"run_id"`
	Summary models.CleanSummary `json:"summary"`
	GHI     models.Summary      `json:"ghi"`
	DNI     models.Summary      `json:"dni"`
	DHI     models.Summary      `json:"dhi"`
}

// RunFilter supports history filtering by time range and dataset.
type RunFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Dataset string
}
