package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"settle-core/internal/handler"
	"settle-core/pkg/monitor"
)

// NewHTTPRouter builds the ops router: health, metrics and the operator API
// over withdraw records.
func NewHTTPRouter(withdrawHandler *handler.WithdrawHandler) *gin.Engine {
	// 0. Metrics registration
	monitor.Init()

	// 1. Engine with default middleware (Logger, Recovery)
	r := gin.Default()

	// 2. Common middleware
	r.Use(monitor.PrometheusMiddleware())

	// 3. Base routes
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. Operator API
	api := r.Group("/api/v1")
	{
		withdraws := api.Group("/withdraws")
		withdraws.GET("", withdrawHandler.List)
		withdraws.GET("/:id", withdrawHandler.Get)
		withdraws.POST("/:id/requeue", withdrawHandler.Requeue)
	}

	return r
}
