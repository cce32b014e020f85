package routes

import (
	"layanan-publik-api/controllers"
	"layanan-publik-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Citizens create and track submissions without an account
			public.POST("/submissions", controllers.CreateSubmission)
			public.GET("/track/:tracking_code", controllers.TrackSubmission)

			// Admin authentication
			public.POST("/admin/login", controllers.AdminLogin)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Layanan Publik API is running",
				})
			})
		}

		// Protected admin routes (require a valid session token)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		{
			admin.GET("/profile", controllers.GetAdminProfile)

			submissions := admin.Group("/submissions")
			{
				submissions.GET("", controllers.ListSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.PATCH("/:id/status", controllers.UpdateSubmissionStatus)
				submissions.POST("/:id/notify-process", controllers.NotifySubmissionProcess)
			}

			admin.GET("/stats", controllers.GetSubmissionStats)
			admin.GET("/export", controllers.ExportSubmissionsCSV)
		}
	}
}
