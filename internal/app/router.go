package app

import (
	"github.com/gin-gonic/gin"

	"survey_wizard/internal/middleware"
	"survey_wizard/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	router.Use(middleware.RequestID(), middleware.SessionMiddleware(), middleware.AccessLog())

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 问卷页面
	a.registerSurveyRoutes(router, c)

	// 2. JSON接口
	a.registerAPIRoutes(router, c)
}

func (a *App) registerSurveyRoutes(router *gin.Engine, c *controllers) {
	survey := router.Group(surveyBasePath)
	{
		survey.GET("", c.survey.Show)
		survey.POST("/next", c.survey.Next)
		survey.POST("/previous", c.survey.Previous)
		survey.POST("/submit", c.survey.Submit)
		survey.POST("/retry", c.survey.Retry)
		survey.POST("/reload", c.survey.Reload)
	}
}

func (a *App) registerAPIRoutes(router *gin.Engine, c *controllers) {
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		wizard := api.Group("/wizard/:session")
		wizard.Use(middleware.RequireSession())
		{
			wizard.GET("", c.wizard.Get)
			wizard.POST("/start", c.wizard.Start)
			wizard.POST("/answer", c.wizard.Answer)
			wizard.POST("/next", c.wizard.Next)
			wizard.POST("/previous", c.wizard.Previous)
			wizard.POST("/submit", c.wizard.Submit)
			wizard.POST("/retry", c.wizard.Retry)
			wizard.POST("/reload", c.wizard.Reload)
		}
	}
}
