package routes

import (
	"civic-issues-be/controllers"
	"civic-issues-be/middlewares"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the route groups need.
type Handlers struct {
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Issues        *controllers.IssueController
	Admin         *controllers.AdminController
	Uploads       *controllers.UploadController
	Authenticator middlewares.Authenticator
	IssueLimiter  gin.HandlerFunc
}

func Register(r *gin.Engine, h Handlers) {
	requireAuth := middlewares.AuthMiddleware(h.Authenticator)
	optionalAuth := middlewares.OptionalAuth(h.Authenticator)

	AuthRoutes(r, h.Auth, requireAuth)
	UserRoutes(r, h.Users, requireAuth)
	IssueRoutes(r, h.Issues, requireAuth, optionalAuth, h.IssueLimiter)
	AdminRoutes(r, h.Admin, requireAuth)
	UploadRoutes(r, h.Uploads, requireAuth)
}
