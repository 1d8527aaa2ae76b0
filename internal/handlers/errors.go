package handlers

import (
	"errors"
	"net/http"

	"solar_eda/internal/analysis"
	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status. Only the pipeline and
// lookup failures are client-visible; everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrNotFound), errors.Is(err, service.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrMalformedInput), errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...any) {
	if h.log != nil && err != nil {
		fields := append([]any{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError writes err with its mapped status. Client errors carry
// the error text; server errors get fallback.
func (h *Handler) respondServiceError(c *gin.Context, err error, fallback, logKey string, kv ...any) {
	code := statusFor(err)
	msg := fallback
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
