package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanjanarawald/CreditApprovalSystem/pkg/auth"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig collects what the HTTP router serves.
type RouterConfig struct {
	Handler *Handler
	Logger  *slog.Logger

	// JWT enables bearer-token auth on the API routes when set. Writes
	// additionally need one of auth.WriterRoles.
	JWT *auth.JWTService
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// Ready is pinged by /readyz when set.
	Ready Pinger
	// ServiceName is reported by the health endpoints.
	ServiceName string
}

// NewRouter builds the gin engine. API routes are served both at the root
// and under /api/v1.
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(cfg.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})
	r.GET("/readyz", readiness(cfg))
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	var mw, writeGuard []gin.HandlerFunc
	if cfg.JWT != nil {
		mw = append(mw, requireAuth(cfg.JWT))
		writeGuard = append(writeGuard, requireRole(auth.WriterRoles...))
	}
	cfg.Handler.register(r.Group("/", mw...), writeGuard...)
	cfg.Handler.register(r.Group("/api/v1", mw...), writeGuard...)

	return r
}

func readiness(cfg RouterConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Ready.Ping(ctx); err != nil {
				cfg.Logger.WarnContext(ctx, "readiness check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": cfg.ServiceName})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": cfg.ServiceName})
	}
}
