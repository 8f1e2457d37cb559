package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/internal/interfaces/http/handlers"
	"github.com/turtacn/ClauseLens/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	// Handlers
	ComparisonHandler *handlers.ComparisonHandler
	ReportHandler     *handlers.ReportHandler
	DocumentHandler   *handlers.DocumentHandler
	JobHandler        *handlers.JobHandler
	HealthHandler     *handlers.HealthHandler

	// Middleware
	CORS        *middleware.CORSConfig
	RateLimiter middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig
	Logging     middleware.LoggingConfig
	HTTPMetrics middleware.HTTPMetrics

	// Infrastructure
	Logger         logging.Logger
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter builds the gin engine: global middleware, public probes,
// /metrics and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(logger))
	if cfg.HTTPMetrics != nil {
		r.Use(middleware.Metrics(cfg.HTTPMetrics))
	}
	r.Use(middleware.RequestLogging(logger, cfg.Logging))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit))
	}
	registerComparisonRoutes(api, cfg.ComparisonHandler, cfg.JobHandler)
	registerReportRoutes(api, cfg.ReportHandler)
	registerDocumentRoutes(api, cfg.DocumentHandler)

	return r
}

// registerComparisonRoutes mounts the engine entry points and the async job
// endpoints under /comparisons.
func registerComparisonRoutes(api *gin.RouterGroup, h *handlers.ComparisonHandler, jobs *handlers.JobHandler) {
	g := api.Group("/comparisons")
	if h != nil {
		g.POST("", h.Compare)
		g.POST("/key-changes", h.KeyChanges)
		g.POST("/insights", h.Insights)
		g.POST("/side-by-side", h.SideBySide)
	}
	if jobs != nil {
		g.POST("/jobs", jobs.Submit)
		g.GET("/jobs/:runId", jobs.Status)
	}
}

func registerReportRoutes(api *gin.RouterGroup, h *handlers.ReportHandler) {
	if h == nil {
		return
	}
	api.POST("/reports", h.Generate)
}

func registerDocumentRoutes(api *gin.RouterGroup, h *handlers.DocumentHandler) {
	if h == nil {
		return
	}
	api.POST("/documents/extract", h.Extract)
}
