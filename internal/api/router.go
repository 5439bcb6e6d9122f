// Package api exposes the dashboard's HTTP interface.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"geowatch/internal/app"
	"geowatch/internal/config"
	"geowatch/internal/logger"
	"geowatch/internal/metrics"
)

const maxBodyBytes = 4 << 20

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options configures the router.
type Options struct {
	Service *app.Service
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	HTTP    config.HTTPConfig
	AI      config.AIConfig
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(
		RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		CORS(DefaultCORSConfig(opts.HTTP.CORSAllowOrigins)),
	)
	if opts.Metrics != nil {
		engine.Use(Metrics(opts.Metrics))
	}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil && opts.HTTP.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	var aiLimit []gin.HandlerFunc
	if opts.AI.RateLimit > 0 {
		aiLimit = append(aiLimit, RateLimit(NewClientLimiter(opts.AI.RateLimit, opts.AI.Burst)))
	}

	api := engine.Group("/api", BodyLimit(maxBodyBytes))
	for _, r := range []RouteRegistrar{
		&EventsHandler{svc: opts.Service},
		&AnalysisHandler{svc: opts.Service, limit: aiLimit},
		&CoverageHandler{svc: opts.Service},
	} {
		r.RegisterRoutes(api)
	}
	return engine
}
