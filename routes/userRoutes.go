package routes

import (
	"civic-issues-be/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.Engine, ctl *controllers.UserController, requireAuth gin.HandlerFunc) {
	users := r.Group("/api/users", requireAuth)
	{
		users.PUT("/me", ctl.UpdateMe)
	}
}

func UploadRoutes(r *gin.Engine, ctl *controllers.UploadController, requireAuth gin.HandlerFunc) {
	uploads := r.Group("/api/uploads", requireAuth)
	{
		uploads.POST("/photo", ctl.UploadPhoto)
	}
}
