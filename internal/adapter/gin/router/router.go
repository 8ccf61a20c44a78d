package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"users-api/api"
	"users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/internal/adapter/ratelimit"
	pkgerrors "users-api/pkg/errors"
	"users-api/pkg/i18n"
)

const swaggerDocPath = "/users.swagger.json"

// Options toggles the ambient routes and cross-origin policy.
type Options struct {
	CORSOrigins   []string
	EnableMetrics bool
	EnableSwagger bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	rateLimiter *ratelimit.RateLimiter,
	tr *i18n.Translator,
	log *zap.Logger,
	opts Options,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log, tr))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Locale(tr))

	router.GET("/health", healthHandler.Check)

	if opts.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if opts.EnableSwagger {
		ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger" + swaggerDocPath)))
		router.GET("/swagger/*any", func(c *gin.Context) {
			if c.Param("any") == swaggerDocPath {
				c.Data(http.StatusOK, "application/json", api.SwaggerJSON)
				return
			}
			ui(c)
		})
		log.Info("Swagger UI enabled", zap.String("path", "/swagger/index.html"))
	}

	users := router.Group("/", middleware.RateLimiter(rateLimiter, tr))
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	router.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, tr, http.StatusNotFound, pkgerrors.CodeNotFound, i18n.MsgNotFoundGeneric)
	})

	return router
}
