package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"OnTrack/internal/handler"
	"OnTrack/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")
	v1.Use(middleware.AuthMiddleware())
	v1.Use(middleware.GeneralRateLimitMiddleware())

	// 日记录路由
	days := v1.Group("/days")
	{
		days.GET("/today", handler.GetToday)
		days.GET("/today/score", handler.GetTodayScore)
		days.GET("/:date", handler.GetDay)

		days.PUT("/today/nutrition", handler.UpdateNutrition)
		days.PUT("/today/water", handler.UpdateWater)
		days.PUT("/today/workout", handler.UpdateWorkout)
		days.PUT("/today/mile", handler.UpdateMile)
		days.PUT("/today/sleep", handler.UpdateSleep)

		// 清单任务状态迁移
		days.POST("/today/tasks/:task_id/complete", handler.CompleteTask)
		days.POST("/today/tasks/:task_id/skip", handler.SkipTask)
		days.POST("/today/tasks/:task_id/reopen", handler.ReopenTask)
	}

	// 健康数据同步路由，代价高，单独限流
	sync := v1.Group("/sync")
	sync.Use(middleware.SyncRateLimitMiddleware())
	{
		sync.POST("/full", handler.FullSync)
		sync.POST("/quick", handler.QuickSync)
	}

	// 自定义任务模板路由
	templates := v1.Group("/templates")
	{
		templates.GET("", handler.ListTemplates)
		templates.POST("", handler.CreateTemplate)
		templates.DELETE("/:id", handler.DeleteTemplate)
	}

	// 历史分数路由
	scores := v1.Group("/scores")
	{
		scores.GET("/history", handler.GetScoreHistory)
	}
}
