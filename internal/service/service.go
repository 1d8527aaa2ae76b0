package service

import (
	"context"
	"time"

	"solar_eda"
	"solar_eda/internal/analysis"
	"solar_eda/internal/dataset"
	"solar_eda/internal/models"
	"solar_eda/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Analysis runs the quality pipeline and records every run.
type Analysis interface {
	Analyze(ctx context.Context, p AnalyzeParams) (AnalyzeResult, error)
	Compare(ctx context.Context, policy models.NegativePolicy) ([]SiteComparison, error)
}

// RunLog exposes stored runs with filtering access.
type RunLog interface {
	List(ctx context.Context, f RunFilter) ([]solar_eda.Run, error)
	Get(ctx context.Context, id string) (solar_eda.Run, error)
	Latest(ctx context.Context) (solar_eda.Run, error)
}

// Exporter renders a stored run as a spreadsheet.
type Exporter interface {
	Workbook(ctx context.Context, id string) ([]byte, error)
}

// Datasets lists the bundled selection keys.
type Datasets interface {
	List(ctx context.Context) []dataset.Entry
}

// Runner is the part of analysis.Pipeline the service depends on.
type Runner interface {
	Run(ctx context.Context, in analysis.Input, policy models.NegativePolicy) (analysis.Result, error)
}

// Catalog is the part of dataset.Catalog the service depends on.
type Catalog interface {
	Names() []string
	List(ctx context.Context) []dataset.Entry
}

// Deps carries everything NewService wires together.
type Deps struct {
	Repos      *repository.Repository
	Pipeline   Runner
	Catalog    Catalog
	Metrics    *Metrics
	SigningKey string
	TokenTTL   time.Duration
}

type Service struct {
	Analysis
	RunLog
	Exporter
	Datasets
	Authorization
}

func NewService(d Deps) *Service {
	runLog := NewRunLogService(d.Repos.RunRepo)
	return &Service{
		Analysis:      NewAnalysisService(d.Pipeline, d.Catalog, d.Repos.RunRepo, d.Metrics),
		RunLog:        runLog,
		Exporter:      NewExportService(runLog),
		Datasets:      NewDatasetService(d.Catalog),
		Authorization: NewAuthService(d.Repos.Auth, d.SigningKey, d.TokenTTL),
	}
}
