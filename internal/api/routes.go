package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/registration-gin/internal/config"
	"gorm.io/gorm"
)

// Controllers 路由绑定的控制器集合
type Controllers struct {
	Submission *SubmissionController
	Validation *ValidationController
	Reference  *ReferenceController
}

// SetupRoutes 配置路由和中间件链
func SetupRoutes(db *gorm.DB, ctrls Controllers, cfg *config.Config) *gin.Engine {
	if config.IsProduction(cfg) {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(CORSMiddleware(cfg.CORS.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		router.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 注册提交路由
		registrations := v1.Group("/registrations")
		{
			registrations.POST("/submit", ctrls.Submission.Submit)
			registrations.GET("", ctrls.Submission.List)

			// 校验路由(必须在 /:id 之前注册)
			registrations.POST("/validate-field", ctrls.Validation.ValidateField)
			registrations.POST("/validate-batch", ctrls.Validation.ValidateBatch)

			registrations.GET("/:id", ctrls.Submission.Get)
			registrations.PUT("/:id/status", ctrls.Submission.UpdateStatus)
			registrations.DELETE("/:id", ctrls.Submission.Delete)
		}

		// 参考数据路由(表单下拉框选项)
		reference := v1.Group("/reference")
		{
			reference.GET("/business-types", ctrls.Reference.BusinessTypes)
			reference.GET("/states", ctrls.Reference.States)
		}
	}

	// 未匹配的路由返回 JSON 格式的 404
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found")
	})

	return router
}
