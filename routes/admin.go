package routes

import (
	"github.com/gin-gonic/gin"

	"stageready/controllers"
	"stageready/middlewares"
	"stageready/websocket"
)

// SetupAdminRoutes registers the console API under /admin
func SetupAdminRoutes(
	router *gin.Engine,
	auth *controllers.AuthController,
	users *controllers.UserController,
	speeches *controllers.SpeechController,
	gamification *controllers.GamificationController,
	dashboard *controllers.DashboardController,
	dashboardWS *websocket.DashboardHandler,
	jwtSecret string,
) {
	// Public: login, plus first-admin setup (closed once an admin exists)
	adminPublic := router.Group("/admin")
	{
		adminPublic.POST("/login", auth.Login)
		adminPublic.POST("/setup", auth.Setup)
	}

	admin := router.Group("/admin")
	admin.Use(middlewares.AdminAuthMiddleware(jwtSecret))
	{
		admin.GET("/me", auth.Me)

		// Users
		admin.GET("/users", users.ListUsers)
		admin.GET("/users/export", users.ExportUsers)
		admin.GET("/users/:id", users.GetUser)
		admin.PUT("/users/:id", users.UpdateUser)
		admin.PUT("/users/:id/role", users.UpdateRole)
		admin.DELETE("/users/:id", users.DeleteUser)

		// Per-user speech history
		admin.GET("/users/:id/speeches", speeches.ListUserSpeeches)
		admin.GET("/users/:id/speeches/export", speeches.ExportUserSpeeches)
		admin.PUT("/users/:id/speeches/:speechId", speeches.UpdateSpeech)
		admin.DELETE("/users/:id/speeches/:speechId", speeches.DeleteSpeech)

		// Cross-user speech browsing
		admin.GET("/speeches", speeches.ListSpeeches)
		admin.GET("/speeches/export", speeches.ExportSpeeches)

		// Gamification and badges
		admin.GET("/users/:id/gamification", gamification.GetGamification)
		admin.PUT("/users/:id/gamification", gamification.UpdateGamification)
		admin.GET("/users/:id/badges", gamification.GetBadges)
		admin.PUT("/users/:id/badges", gamification.UpdateBadges)

		// Dashboard
		admin.GET("/dashboard/stats", dashboard.GetStats)
		admin.GET("/ws/dashboard", dashboardWS.Serve)
	}
}
