package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"users-api/cmd/api/di"
	"users-api/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config    *config.Config
	Logger    *zap.Logger
	Container *di.Container
	GRPC      *grpc.Server
	Gin       *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	s := &Server{
		Config:    cfg,
		Logger:    l,
		Container: c,
		Gin:       SetupGinServer(cfg, c, ":"+cfg.App.HTTPPort, l),
	}
	if cfg.App.GRPCEnabled {
		s.GRPC = SetupGRPC(c.HealthReporter, c.RateLimiter, l)
	}
	return s
}

// Start runs the Gin server and, when enabled, the gRPC health server.
// It blocks until one of them fails or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 2)

	if s.GRPC != nil {
		lc := net.ListenConfig{}
		lis, err := lc.Listen(ctx, "tcp", s.grpcAddress())
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", s.grpcAddress(), err)
		}

		go s.Container.HealthReporter.Run(ctx)
		go func() {
			s.Logger.Info("gRPC server running", zap.String("address", s.grpcAddress()))
			if err := s.GRPC.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC server: %w", err)
			}
		}()
	}

	go func() {
		s.Logger.Info("Gin REST API running", zap.String("address", s.Gin.Addr))
		if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("gin server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// grpcAddress returns the gRPC server address
func (s *Server) grpcAddress() string {
	return ":" + s.Config.App.GRPCPort
}
