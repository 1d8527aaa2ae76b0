package handlers

import (
	"net/http"

	"solar_eda/internal/logger"
	"solar_eda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultMaxUploadBytes = 64 << 20
	defaultResponseLimit  = 500
)

// Options tune request handling; zero values fall back to defaults.
type Options struct {
	MaxUploadBytes int64
	ResponseLimit  int
	MetricsHandler http.Handler
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.ResponseLimit <= 0 {
		opts.ResponseLimit = defaultResponseLimit
	}
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = promhttp.Handler()
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(h.opts.MetricsHandler))

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Latest-run stream over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerDatasetRoutes(api)
		h.registerRunRoutes(api)
	}
}

func (h *Handler) registerDatasetRoutes(api *gin.RouterGroup) {
	datasets := api.Group("/datasets")
	{
		datasets.GET("", h.listDatasets)
		datasets.POST("/upload", h.uploadDataset)
		datasets.POST("/compare", h.compareDatasets)
		datasets.POST("/:name/analyze", h.analyzeDataset)
	}
}

func (h *Handler) registerRunRoutes(api *gin.RouterGroup) {
	runs := api.Group("/runs")
	{
		runs.GET("", h.listRuns)
		runs.GET("/:id", h.getRun)
		runs.GET("/:id/export", h.exportRun)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
