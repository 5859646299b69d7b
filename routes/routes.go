package routes

import (
	"EmotionTrackerGo/controllers"
	"EmotionTrackerGo/middleware"
	"EmotionTrackerGo/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the API. ratePerMinute limits frame submissions per user.
func RegisterRoutes(r *gin.Engine, emotionService *services.EmotionService, ratePerMinute int) {
	emotionController := controllers.NewEmotionController(emotionService)
	recordController := controllers.NewRecordController(emotionService)
	goalController := controllers.NewGoalController(emotionService)
	reportController := controllers.NewReportController(emotionService)
	detectLimiter := middleware.NewRateLimiter(ratePerMinute)

	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware())
	{
		private.POST("/detect", detectLimiter.Middleware(), emotionController.Detect)

		private.GET("/summary/recent", emotionController.RecentSummary)
		private.GET("/summary/weekly", emotionController.WeeklySummary)
		private.POST("/summary/snapshot", emotionController.SaveSnapshot)
		private.GET("/summary/snapshots", emotionController.ListSnapshots)

		private.GET("/recommendation", emotionController.GetRecommendation)
		private.POST("/recommendation", emotionController.PostRecommendation)

		private.GET("/records", recordController.ListRecords)

		private.PUT("/goals", goalController.SetGoal)
		private.GET("/goals/current", goalController.CurrentGoal)

		private.GET("/report/pdf", reportController.DownloadPDF)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
