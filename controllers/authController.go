package controllers

import (
	"net/http"
	"time"

	"civic-issues-be/services"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth         *services.AuthService
	secureCookie bool
	cookieMaxAge time.Duration
}

func NewAuthController(auth *services.AuthService, secureCookie bool, cookieMaxAge time.Duration) *AuthController {
	return &AuthController{auth: auth, secureCookie: secureCookie, cookieMaxAge: cookieMaxAge}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,e164"`
}

// Register handles user registration
func (ctl *AuthController) Register(c *gin.Context) {
	var input registerRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	user, err := ctl.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
	})
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, "User registered successfully. Please check your email to verify your account.", gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login. The token is returned in the body and also set
// as an http-only cookie for browser clients.
func (ctl *AuthController) Login(c *gin.Context) {
	var input loginRequest
	if !utils.BindJSON(c, &input) {
		return
	}

	session, err := ctl.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.Error(c, err)
		return
	}

	ctl.setAuthCookie(c, session.Token, int(ctl.cookieMaxAge.Seconds()))
	utils.OK(c, "Login successful", session)
}

// Logout clears the auth cookie.
func (ctl *AuthController) Logout(c *gin.Context) {
	ctl.setAuthCookie(c, "", -1)
	utils.OK(c, "Logged out successfully", nil)
}

func (ctl *AuthController) setAuthCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "auth_token",
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   ctl.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (ctl *AuthController) VerifyEmail(c *gin.Context) {
	var input tokenRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	if err := ctl.auth.VerifyEmail(c.Request.Context(), input.Token); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Email verified successfully", nil)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (ctl *AuthController) ResendVerification(c *gin.Context) {
	var input emailRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	if err := ctl.auth.ResendVerification(c.Request.Context(), input.Email); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Verification email sent", nil)
}

type phoneRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

func (ctl *AuthController) SendOTP(c *gin.Context) {
	var input phoneRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	if err := ctl.auth.SendOTP(c.Request.Context(), input.Phone); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "OTP sent successfully", nil)
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

func (ctl *AuthController) VerifyOTP(c *gin.Context) {
	var input verifyOTPRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	session, err := ctl.auth.VerifyOTP(c.Request.Context(), input.Phone, input.OTP)
	if err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "OTP verified successfully", session)
}

// GetMe retrieves the authenticated user's information
func (ctl *AuthController) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.OK(c, "", gin.H{"user": user})
}

func (ctl *AuthController) ForgotPassword(c *gin.Context) {
	var input emailRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	if err := ctl.auth.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Password reset email sent", nil)
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (ctl *AuthController) ResetPassword(c *gin.Context) {
	var input resetPasswordRequest
	if !utils.BindJSON(c, &input) {
		return
	}
	if err := ctl.auth.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		utils.Error(c, err)
		return
	}
	utils.OK(c, "Password reset successful", nil)
}
