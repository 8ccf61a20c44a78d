package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"users-api/cmd/api/infrastructure"
	"users-api/internal/adapter/cache"
	"users-api/internal/adapter/db/gormrepo"
	ginhandler "users-api/internal/adapter/gin/handler"
	grpcadapter "users-api/internal/adapter/grpc"
	"users-api/internal/adapter/ratelimit"
	"users-api/internal/adapter/repository/cached"
	"users-api/internal/config"
	"users-api/internal/usecase/user"
	"users-api/pkg/i18n"
	redisclient "users-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *gorm.DB
	RedisClient    *redisclient.Client
	UserUC         user.Usecase
	RateLimiter    *ratelimit.RateLimiter
	Translator     *i18n.Translator
	GinHandler     *ginhandler.UserHandler
	HealthHandler  *ginhandler.HealthHandler
	HealthReporter *grpcadapter.HealthReporter
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	dbRepo := gormrepo.NewUserRepo(db, l)
	var repo user.Repository = dbRepo

	// Redis backs both the read cache and the rate limiter
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		rdb = c.RedisClient.Client

		userCache := cache.NewRedisUserCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
		repo = cached.NewUserRepository(dbRepo, userCache, l)
	}

	c.UserUC = user.New(repo, l)

	c.RateLimiter = ratelimit.NewRateLimiter(
		rdb,
		ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	c.Translator = i18n.New(cfg.App.DefaultLocale)
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, c.Translator, l)
	c.HealthHandler = ginhandler.NewHealthHandler(dbRepo, cfg.Logger.ServiceName, l)
	if c.RedisClient != nil {
		c.HealthHandler.WithDependency("redis", c.RedisClient)
	}
	c.HealthReporter = grpcadapter.NewHealthReporter(
		dbRepo,
		time.Duration(cfg.App.HealthCheckInterval)*time.Second,
		l,
	)

	l.Info("dependencies initialized",
		zap.Bool("cache_enabled", cfg.Redis.Enabled),
		zap.Bool("rate_limit_enabled", c.RateLimiter.Enabled()),
		zap.String("default_locale", c.Translator.Default().String()),
	)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
