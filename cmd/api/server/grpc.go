package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcadapter "users-api/internal/adapter/grpc"
	"users-api/internal/adapter/ratelimit"
	"users-api/pkg/logger"
)

// SetupGRPC creates the gRPC server exposing the standard health service
func SetupGRPC(reporter *grpcadapter.HealthReporter, rateLimiter *ratelimit.RateLimiter, l *zap.Logger) *grpc.Server {
	// Create gRPC server with request ID and rate limit interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(grpcServer, reporter.Server())
	reflection.Register(grpcServer)

	l.Info("gRPC health service configured")

	return grpcServer
}
