package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"solar_eda/internal/models"
	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errAnalyze      = "failed to analyze dataset"
	errCompare      = "failed to compare datasets"
	errUploadField  = "multipart field 'file' is required"
	errUploadTooBig = "upload exceeds size limit"
	errLimitInvalid = "invalid 'limit'; use a positive integer or 'all'"
)

// @Summary      List bundled datasets
// @Tags         datasets
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, datasets"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/datasets [get]
// @Security     BearerAuth
func (h *Handler) listDatasets(c *gin.Context) {
	entries := h.services.Datasets.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count":    len(entries),
		"datasets": entries,
	})
}

// @Summary      Analyze a bundled dataset
// @Description  Runs load, validation, cleaning and aggregation; the run is stored.
// @Tags         datasets
// @Produce      json
// @Param        name    path   string  true   "Selection key"  example(benin-malanville)
// @Param        policy  query  string  false  "Negative value policy"  Enums(drop,flag,clip)
// @Param        limit   query  string  false  "Max per-row entries in the response, or 'all'"  example(500)
// @Success      200  {object}  service.AnalyzeResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/datasets/{name}/analyze [post]
// @Security     BearerAuth
func (h *Handler) analyzeDataset(c *gin.Context) {
	policy, limit, ok := h.analyzeQuery(c)
	if !ok {
		return
	}
	name := c.Param("name")

	res, err := h.services.Analysis.Analyze(c.Request.Context(), service.AnalyzeParams{
		Key:    name,
		Policy: policy,
	})
	if err != nil {
		h.respondServiceError(c, err, errAnalyze, "analyze_failed", "dataset", name)
		return
	}
	h.logRun(res)
	c.JSON(http.StatusOK, truncateResult(res, limit))
}

// @Summary      Analyze an uploaded file
// @Description  Accepts CSV, optionally gzip or zstd compressed, in multipart field 'file'.
// @Tags         datasets
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Site CSV"
// @Param        policy  query     string  false  "Negative value policy"  Enums(drop,flag,clip)
// @Param        limit   query     string  false  "Max per-row entries in the response, or 'all'"
// @Success      200  {object}  service.AnalyzeResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/datasets/upload [post]
// @Security     BearerAuth
func (h *Handler) uploadDataset(c *gin.Context) {
	policy, limit, ok := h.analyzeQuery(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.logAndJSONError(c, http.StatusRequestEntityTooLarge, errUploadTooBig, "upload_too_large", err, "limit", tooBig.Limit)
			return
		}
		h.logAndJSONError(c, http.StatusBadRequest, errUploadField, "upload_bad_form", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "cannot read uploaded file", "upload_open_failed", err, "file", fh.Filename)
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.services.Analysis.Analyze(c.Request.Context(), service.AnalyzeParams{
		Upload:     f,
		UploadName: fh.Filename,
		Policy:     policy,
	})
	if err != nil {
		h.respondServiceError(c, err, errAnalyze, "analyze_upload_failed", "file", fh.Filename, "size", fh.Size)
		return
	}
	h.logRun(res)
	c.JSON(http.StatusOK, truncateResult(res, limit))
}

// @Summary      Compare all bundled datasets
// @Tags         datasets
// @Produce      json
// @Param        policy  query  string  false  "Negative value policy"  Enums(drop,flag,clip)
// @Success      200  {object}  map[string]interface{}  "count, sites"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/datasets/compare [post]
// @Security     BearerAuth
func (h *Handler) compareDatasets(c *gin.Context) {
	policy, ok := parsePolicy(c)
	if !ok {
		return
	}

	sites, err := h.services.Analysis.Compare(c.Request.Context(), policy)
	if err != nil {
		h.respondServiceError(c, err, errCompare, "compare_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(sites),
		"sites": sites,
	})
}

// parsePolicy reads ?policy, writing a 400 on bad input. An absent policy
// stays empty so the configured default applies.
func parsePolicy(c *gin.Context) (models.NegativePolicy, bool) {
	qs := strings.TrimSpace(c.Query("policy"))
	if qs == "" {
		return "", true
	}
	p, err := models.ParseNegativePolicy(strings.ToLower(qs))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return p, true
}

// analyzeQuery reads ?policy and ?limit, writing a 400 on bad input.
func (h *Handler) analyzeQuery(c *gin.Context) (models.NegativePolicy, int, bool) {
	policy, ok := parsePolicy(c)
	if !ok {
		return "", 0, false
	}

	limit, err := parseLimit(c.Query("limit"), h.opts.ResponseLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return "", 0, false
	}
	return policy, limit, true
}

// parseLimit returns def for "", 0 for "all" (no limit).
func parseLimit(s string, def int) (int, error) {
	switch s = strings.TrimSpace(s); s {
	case "":
		return def, nil
	case "all":
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid limit %q", s)
	}
	return n, nil
}

// truncateResult caps every per-row slice of res at limit entries.
func truncateResult(res service.AnalyzeResult, limit int) gin.H {
	if limit <= 0 {
		return gin.H{"run": res.Run, "aggregates": res.Aggregates, "truncated": false}
	}
	truncated := false
	capAt := func(n int) int {
		if n > limit {
			truncated = true
			return limit
		}
		return n
	}

	run := res.Run
	run.Report.ZScores.Rows = run.Report.ZScores.Rows[:capAt(len(run.Report.ZScores.Rows))]

	agg := res.Aggregates
	agg.TimeSeries = agg.TimeSeries[:capAt(len(agg.TimeSeries))]
	agg.Wind = agg.Wind[:capAt(len(agg.Wind))]
	agg.RHvsTamb = agg.RHvsTamb[:capAt(len(agg.RHvsTamb))]
	agg.RHvsGHI = agg.RHvsGHI[:capAt(len(agg.RHvsGHI))]
	agg.Bubbles = agg.Bubbles[:capAt(len(agg.Bubbles))]

	return gin.H{"run": run, "aggregates": agg, "truncated": truncated}
}

func (h *Handler) logRun(res service.AnalyzeResult) {
	if h.log == nil {
		return
	}
	h.log.Infow("analysis_run_stored",
		"run_id", res.Run.ID,
		"dataset", res.Run.Dataset,
		"source", res.Run.Source,
		"policy", res.Run.Policy,
		"rows_in", res.Run.RowsIn,
		"rows_out", res.Run.RowsOut,
		"duration_ms", res.Run.DurationMs,
	)
}
