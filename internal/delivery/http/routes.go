package http

import (
	"github.com/gin-gonic/gin"

	"github.com/veganlens/backend/config"
	"github.com/veganlens/backend/internal/infrastructure/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *logger.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.NewNop()
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		products := v1.Group("/products")
		products.Use(TimeoutMiddleware(cfg.Server.RequestTimeout))
		{
			products.GET("/search", handler.SearchProducts)
			products.GET("/:id", handler.GetProduct)
		}

		v1.GET("/locales/:locale", handler.GetLocaleStrings)

		// reindex runs without the request timeout
		admin := v1.Group("/admin")
		{
			admin.POST("/reindex", handler.Reindex)
		}
	}

	return router
}
