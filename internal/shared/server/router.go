package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/services/health"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/server/middleware"
	"idea-analyzer/internal/shared/server/respond"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupSubmit  = "SUBMIT"
	submissionsPath  = "/api/v1/submissions"
)

// RouterDeps carries the handlers and services the router mounts.
type RouterDeps struct {
	Config      config.Config
	Auth        auth.Service
	IdeaHandler *ideas.Handler
	// Health is optional; without it /health always reports ok.
	Health *health.Service
	// Limiter is optional; a fresh one is created when nil.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	authed := api.Group("",
		middleware.Auth(deps.Auth),
		middleware.RateLimit(rateLimitConfig(deps.Config, deps.Limiter)),
	)
	registerMeRoutes(authed)
	if deps.IdeaHandler != nil {
		deps.IdeaHandler.RegisterRoutes(authed)
	}
	return r
}

func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	perMinute := cfg.SubmitPerMinute
	if perMinute <= 0 {
		perMinute = 6
	}
	return middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		Limiter:      limiter,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == submissionsPath {
				return rateGroupSubmit
			}
			return rateGroupDefault
		},
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: 10, Burst: 30},
			rateGroupSubmit:  {Rate: float64(perMinute) / 60, Burst: perMinute},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
