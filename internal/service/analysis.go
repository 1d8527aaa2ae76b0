package service

import (
	"context"
	"fmt"
	"time"

	"solar_eda"
	"solar_eda/internal/analysis"
	"solar_eda/internal/models"
	"solar_eda/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type AnalysisService struct {
	pipeline Runner
	catalog  Catalog
	runRepo  repository.RunRepo
	metrics  *Metrics
	now      func() time.Time
}

func NewAnalysisService(pipeline Runner, catalog Catalog, runRepo repository.RunRepo, metrics *Metrics) *AnalysisService {
	return &AnalysisService{
		pipeline: pipeline,
		catalog:  catalog,
		runRepo:  runRepo,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Analyze runs the pipeline once and stores the outcome. A pipeline failure
// is returned unchanged so callers can match it with errors.Is.
func (s *AnalysisService) Analyze(ctx context.Context, p AnalyzeParams) (AnalyzeResult, error) {
	source := analysis.SourceCatalog
	if p.Upload != nil {
		source = analysis.SourceUpload
	}

	started := s.now()
	res, err := s.pipeline.Run(ctx, analysis.Input{
		Key:        p.Key,
		Upload:     p.Upload,
		UploadName: p.UploadName,
	}, p.Policy)
	elapsed := s.now().Sub(started)
	s.metrics.observeRun(source, elapsed, res.Summary, err)
	if err != nil {
		return AnalyzeResult{}, err
	}

	run := solar_eda.Run{
		ID:         uuid.NewString(),
		CreatedAt:  started.UTC(),
		Dataset:    res.Name,
		Source:     res.Source,
		Policy:     string(res.Summary.Policy),
		RowsIn:     res.Summary.RowsIn,
		RowsOut:    res.Summary.RowsOut,
		DurationMs: elapsed.Milliseconds(),
		Summary:    res.Summary,
		Report:     res.Report,
	}

	// Per-row z-scores stay out of storage; mean and std are kept.
	stored := run
	stored.Report.ZScores.Rows = nil
	if err := s.runRepo.Save(ctx, stored); err != nil {
		return AnalyzeResult{}, fmt.Errorf("store run of %s: %w", run.Dataset, err)
	}

	return AnalyzeResult{Run: run, Aggregates: res.Aggregates}, nil
}

// Compare analyzes every bundled dataset concurrently. The first failure
// cancels the remaining runs.
func (s *AnalysisService) Compare(ctx context.Context, policy models.NegativePolicy) ([]SiteComparison, error) {
	names := s.catalog.Names()
	out := make([]SiteComparison, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() (err error) {
			// a panic becomes this site's error
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("compare %s: panic: %v", name, r)
				}
			}()
			res, err := s.Analyze(gctx, AnalyzeParams{Key: name, Policy: policy})
			if err != nil {
				return fmt.Errorf("compare %s: %w", name, err)
			}
			out[i] = compareRow(res.Run)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func compareRow(run solar_eda.Run) SiteComparison {
	row := SiteComparison{
		Dataset: run.Dataset,
		RunID:   run.ID,
		Summary: run.Summary,
	}
	for _, d := range run.Report.Describe {
		switch d.Column {
		case models.GHI:
			row.GHI = d
		case models.DNI:
			row.DNI = d
		case models.DHI:
			row.DHI = d
		}
	}
	return row
}
