package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/cmd/api/di"
	ginrouter "users-api/internal/adapter/gin/router"
	"users-api/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(cfg *config.Config, c *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(
		c.GinHandler,
		c.HealthHandler,
		c.RateLimiter,
		c.Translator,
		l,
		ginrouter.Options{
			CORSOrigins:   cfg.App.CORSAllowedOrigins,
			EnableMetrics: cfg.App.MetricsEnabled,
			EnableSwagger: cfg.App.SwaggerEnabled,
		},
	)

	l.Info("Gin REST API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
