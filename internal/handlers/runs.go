package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListRuns    = "failed to load runs"
	errGetRun      = "failed to load run"
	errExportRun   = "failed to export run"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List analysis runs
// @Description  Filter by creation time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and dataset. A date-only 'to' covers the whole day. Reports are omitted.
// @Tags         runs
// @Produce      json
// @Param        from     query  string  false  "Start of range"  example(2025-08-01)
// @Param        to       query  string  false  "End of range; date-only means end of day"  example(2025-08-31)
// @Param        dataset  query  string  false  "Dataset name"  example(benin-malanville)
// @Success      200  {object}  map[string]interface{}  "count, runs"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	var (
		from, to time.Time
		err      error
		dataset  = strings.TrimSpace(c.Query("dataset"))
	)
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	runs, err := h.services.RunLog.List(c.Request.Context(), service.RunFilter{
		From:    from,
		To:      to,
		Dataset: dataset,
	})
	if err != nil {
		h.respondServiceError(c, err, errListRuns, "runs_list_failed", "from", from, "to", to, "dataset", dataset)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// @Summary      Get one run
// @Tags         runs
// @Produce      json
// @Param        id   path  string  true  "Run ID"
// @Success      200  {object}  solar_eda.Run
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRun(c *gin.Context) {
	id := c.Param("id")
	run, err := h.services.RunLog.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, errGetRun, "run_get_failed", "run_id", id)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Export a run as XLSX
// @Tags         runs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "Run ID"
// @Success      200  {file}    file
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/{id}/export [get]
// @Security     BearerAuth
func (h *Handler) exportRun(c *gin.Context) {
	id := c.Param("id")
	data, err := h.services.Exporter.Workbook(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err, errExportRun, "run_export_failed", "run_id", id)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="run-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
