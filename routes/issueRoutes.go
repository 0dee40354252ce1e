package routes

import (
	"civic-issues-be/controllers"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. /my-issues is registered before
// /:id so it is not taken for an id.
func IssueRoutes(r *gin.Engine, ctl *controllers.IssueController, requireAuth, optionalAuth, rateLimit gin.HandlerFunc) {
	issue := r.Group("/api/issues")
	{
		issue.GET("", optionalAuth, ctl.GetAllIssues)
		issue.GET("/my-issues", requireAuth, ctl.GetIssuesByUser)
		issue.GET("/:id", optionalAuth, ctl.GetIssue)
		issue.POST("", requireAuth, rateLimit, ctl.CreateIssue)
		issue.PUT("/:id", requireAuth, ctl.UpdateIssue)
		issue.DELETE("/:id", requireAuth, ctl.DeleteIssue)
		issue.POST("/:id/upvote", requireAuth, ctl.Upvote)
		issue.DELETE("/:id/upvote", requireAuth, ctl.RemoveUpvote)
		issue.POST("/:id/feedback", requireAuth, ctl.SubmitFeedback)
	}
}
