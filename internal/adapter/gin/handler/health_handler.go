package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name string
	Pinger
}

// HealthHandler answers liveness probes by pinging the database and any
// optional dependency registered with WithDependency.
type HealthHandler struct {
	deps    []dependency
	service string
	log     *zap.Logger
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db Pinger, service string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		deps:    []dependency{{name: "database", Pinger: db}},
		service: service,
		log:     log,
	}
}

// WithDependency adds a dependency to the health check.
func (h *HealthHandler) WithDependency(name string, p Pinger) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, Pinger: p})
	return h
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	checks := make(gin.H, len(h.deps))
	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("dependency", d.name), zap.Error(err))
			checks[d.name] = "down"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		checks[d.name] = "up"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"checks":  checks,
	})
}
