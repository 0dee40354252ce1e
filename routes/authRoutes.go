package routes

import (
	"civic-issues-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ctl *controllers.AuthController, requireAuth gin.HandlerFunc) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ctl.Register)
		auth.POST("/login", ctl.Login)
		auth.POST("/logout", ctl.Logout)
		auth.POST("/verify-email", ctl.VerifyEmail)
		auth.POST("/resend-verification", ctl.ResendVerification)
		auth.POST("/send-otp", ctl.SendOTP)
		auth.POST("/verify-otp", ctl.VerifyOTP)
		auth.POST("/forgot-password", ctl.ForgotPassword)
		auth.POST("/reset-password", ctl.ResetPassword)
		auth.GET("/me", requireAuth, ctl.GetMe)
	}
}
