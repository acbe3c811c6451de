package app

import (
	"tutorpress_backend/docs"
	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/middleware"
	"tutorpress_backend/internal/model"
	"tutorpress_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 测验编辑接口，仅讲师和管理员可用
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Instructor))
	{
		a.registerQuizRoutes(authGroup, c)
		a.registerMediaRoutes(authGroup, c)
	}
}

func (a *App) registerQuizRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/question-types", c.questionTypes.List)

	quizzes := rg.Group("/quizzes")
	{
		quizzes.POST("/save", c.quiz.Save)
		quizzes.GET("/:id", c.quiz.Get)
		quizzes.DELETE("/:id", c.quiz.Delete)
		quizzes.PUT("/:id/questions/order", c.quiz.ReorderQuestions)
	}

	rg.PUT("/questions/:id/answers/order", c.quiz.ReorderAnswers)
}

func (a *App) registerMediaRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/media", c.media.Upload)
	rg.GET("/media/:id", c.media.Get)
}
