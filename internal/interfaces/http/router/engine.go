package router

import (
	"time"

	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/filterdesk/backend/internal/infrastructure/logger"
	"github.com/filterdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds the settings of the global middleware stack
type EngineConfig struct {
	HTTP     config.HTTPConfig
	Tracing  middleware.TracingConfig
	Security middleware.SecurityConfig
	// Meter enables request metrics when set
	Meter metric.Meter
	// Profiling labels profile samples with the request route
	Profiling bool
}

// NewEngine creates the gin engine with the global middleware stack:
//  1. RequestID - generate/propagate the request id, attach the request logger
//  2. Recovery - catch panics
//  3. AccessLog - one log entry per request
//  4. Tracing - server span per request
//  5. Metrics - request count and latency per route (if a meter is set)
//  6. ProfilingLabels - route and method on profile samples (if enabled)
//  7. Security - security headers
//  8. CORS - cross-origin requests
//  9. BodyLimit - JSON bodies; uploads apply their own limit
//  10. RateLimit - per client IP (if enabled)
//
// The returned stop function releases the rate limiter.
func NewEngine(cfg EngineConfig, log *zap.Logger) (*gin.Engine, func()) {
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log, "/health"))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.TracingWithConfig(cfg.Tracing), middleware.SpanErrorMarker())
	}
	if cfg.Meter != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	}
	if cfg.Profiling {
		engine.Use(middleware.ProfilingLabels())
	}
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimitExcept(cfg.HTTP.MaxBodySize, "/preview"))

	stop := func() {}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		stop = limiter.Stop
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow))
	}

	return engine, stop
}
