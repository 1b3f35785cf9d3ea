package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rewards/voucherhub/internal/config"
	"rewards/voucherhub/internal/handler/middleware"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	voucherHandler *VoucherHandler,
	adminHandler *AdminHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	vouchers := r.Group("/api/v1/vouchers")
	{
		vouchers.POST("", voucherHandler.Issue)
		vouchers.GET("/:code", voucherHandler.Get)
	}

	if adminHandler != nil {
		admin := r.Group("/api/v1/admin")
		{
			admin.GET("/offensive-words", adminHandler.GetOffensiveWords)
			admin.PUT("/offensive-words", adminHandler.SetOffensiveWords)
			admin.POST("/sweep", adminHandler.Sweep)
		}
	}

	return r
}
