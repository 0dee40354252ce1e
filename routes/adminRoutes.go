package routes

import (
	"civic-issues-be/controllers"
	"civic-issues-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes mounts the admin surface; every route needs an admin account.
func AdminRoutes(r *gin.Engine, ctl *controllers.AdminController, requireAuth gin.HandlerFunc) {
	admin := r.Group("/api/admin", requireAuth, middlewares.AdminOnly())
	{
		admin.GET("/issues", ctl.GetIssues)
		admin.PUT("/issues/:id/assign", ctl.AssignIssue)
		admin.PUT("/issues/:id/status", ctl.UpdateIssueStatus)
		admin.GET("/analytics", ctl.GetAnalytics)
		admin.GET("/workers", ctl.GetWorkers)
		admin.GET("/assignments", ctl.GetAssignments)
	}
}
