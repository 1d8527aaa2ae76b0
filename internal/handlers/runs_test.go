package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solar_eda"
	"solar_eda/internal/service"
)

func TestRuns_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	runs := &mockRunLog{runs: []solar_eda.Run{sampleRun("a", now), sampleRun("b", now.Add(time.Second))}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, RunLog: runs})

	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs?from=notatime", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}
	w = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs?to=31/08/2025", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'to', got %d", w.Code)
	}

	w = do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs?from=2025-08-01&to=2025-08-31&dataset=benin-malanville", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count int             `json:"count"`
		Runs  []solar_eda.Run `json:"runs"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || out.Runs[1].ID != "b" {
		t.Fatalf("unexpected response: %+v", out)
	}

	f := runs.lastFilter
	wantTo := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !f.From.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)) || !f.To.Equal(wantTo) || f.Dataset != "benin-malanville" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestRuns_ListRangeAndStoreErrors(t *testing.T) {
	runs := &mockRunLog{listErr: service.ErrInvalidTimeRange}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, RunLog: runs})

	if w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs?from=2025-09-01&to=2025-08-01", nil)); w.Code != http.StatusBadRequest {
		t.Fatalf("inverted range: want 400, got %d", w.Code)
	}

	runs.listErr = errors.New("disk I/O error")
	if w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)); w.Code != http.StatusInternalServerError {
		t.Fatalf("store failure: want 500, got %d", w.Code)
	}
}

func TestRuns_Get(t *testing.T) {
	runs := &mockRunLog{runs: []solar_eda.Run{sampleRun("abc", time.Now().UTC())}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, RunLog: runs})

	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got solar_eda.Run
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got.ID != "abc" || got.Summary.RowsDropped != 1 {
		t.Fatalf("unexpected run: %+v err=%v", got, err)
	}

	if w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs/nope", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("unknown run: want 404, got %d", w.Code)
	}
}

func TestRuns_Export(t *testing.T) {
	ex := &mockExporter{data: []byte("PK\x03\x04")}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Exporter: ex})

	w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs/r7/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="run-r7.xlsx"` {
		t.Fatalf("content disposition %q", cd)
	}
	if w.Body.String() != "PK\x03\x04" {
		t.Fatalf("body not passed through")
	}

	ex.err = service.ErrRunNotFound
	if w := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/runs/r7/export", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	for in, want := range map[string]time.Time{
		"2025-08-27T15:04:05+02:00": time.Date(2025, 8, 27, 13, 4, 5, 0, time.UTC),
		"2025-08-27 15:04:05":       time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC),
		"2025-08-27":                time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC),
	} {
		got, err := parseQueryTime(in)
		if err != nil || !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parseQueryTime(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseQueryTime("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}
