package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the standard gRPC health service in sync with the
// database connectivity.
type HealthReporter struct {
	server   *health.Server
	db       Pinger
	interval time.Duration
	log      *zap.Logger
}

// NewHealthReporter creates a reporter that starts in NOT_SERVING until the
// first successful ping.
func NewHealthReporter(db Pinger, interval time.Duration, log *zap.Logger) *HealthReporter {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthReporter{
		server:   srv,
		db:       db,
		interval: interval,
		log:      log,
	}
}

// Server returns the health service to register on a gRPC server.
func (r *HealthReporter) Server() *health.Server {
	return r.server
}

// Check pings the database once and updates the overall status.
func (r *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := r.db.Ping(pingCtx); err != nil {
		r.log.Warn("database health check failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.server.SetServingStatus("", status)
	return status
}

// Run checks immediately and then on every interval until ctx is done.
func (r *HealthReporter) Run(ctx context.Context) {
	r.Check(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and ignores later updates.
func (r *HealthReporter) Shutdown() {
	r.server.Shutdown()
}
