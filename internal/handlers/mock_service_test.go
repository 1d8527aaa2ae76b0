package handlers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"solar_eda"
	"solar_eda/internal/dataset"
	"solar_eda/internal/models"
	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, _ string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, _ string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAnalysis struct {
	result     service.AnalyzeResult
	err        error
	sites      []service.SiteComparison
	compareErr error

	lastParams  service.AnalyzeParams
	lastUpload  string
	lastPolicy  models.NegativePolicy
	analyzeCall int
}

func (m *mockAnalysis) Analyze(_ context.Context, p service.AnalyzeParams) (service.AnalyzeResult, error) {
	m.analyzeCall++
	m.lastParams = p
	if p.Upload != nil {
		b, _ := io.ReadAll(p.Upload)
		m.lastUpload = string(b)
	}
	return m.result, m.err
}

func (m *mockAnalysis) Compare(_ context.Context, policy models.NegativePolicy) ([]service.SiteComparison, error) {
	m.lastPolicy = policy
	return m.sites, m.compareErr
}

type mockRunLog struct {
	mu sync.Mutex

	runs    []solar_eda.Run
	listErr error
	getErr  error
	latest  []solar_eda.Run // popped front-to-back; the last one repeats
	lastErr error

	lastFilter service.RunFilter
	lastID     string
}

func (m *mockRunLog) List(_ context.Context, f service.RunFilter) ([]solar_eda.Run, error) {
	m.lastFilter = f
	return m.runs, m.listErr
}

func (m *mockRunLog) Get(_ context.Context, id string) (solar_eda.Run, error) {
	m.lastID = id
	if m.getErr != nil {
		return solar_eda.Run{}, m.getErr
	}
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return solar_eda.Run{}, service.ErrRunNotFound
}

func (m *mockRunLog) Latest(context.Context) (solar_eda.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastErr != nil {
		return solar_eda.Run{}, m.lastErr
	}
	if len(m.latest) == 0 {
		return solar_eda.Run{}, service.ErrRunNotFound
	}
	r := m.latest[0]
	if len(m.latest) > 1 {
		m.latest = m.latest[1:]
	}
	return r, nil
}

type mockExporter struct {
	data []byte
	err  error
}

func (m *mockExporter) Workbook(context.Context, string) ([]byte, error) {
	return m.data, m.err
}

type mockDatasets struct {
	entries []dataset.Entry
}

func (m *mockDatasets) List(context.Context) []dataset.Entry { return m.entries }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = http.NotFoundHandler()
	}
	return NewHandler(s, nil, opts).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func sampleRun(id string, at time.Time) solar_eda.Run {
	return solar_eda.Run{
		ID:        id,
		CreatedAt: at,
		Dataset:   "benin-malanville",
		Source:    "catalog",
		Policy:    "drop",
		RowsIn:    5,
		RowsOut:   4,
		Summary:   models.CleanSummary{Policy: models.PolicyDrop, RowsIn: 5, RowsOut: 4, RowsDropped: 1},
		Report: models.QualityReport{
			Rows:    5,
			Columns: []models.ColumnQuality{{Column: models.GHI, Missing: 1, Negative: 1}},
		},
	}
}
