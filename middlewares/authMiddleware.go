package middlewares

import (
	"context"
	"strings"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
)

const (
	userKey    = "user"
	userIDKey  = "user_id"
	authCookie = "auth_token"
)

// Authenticator resolves a bearer token to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// auth cookie set by browser logins.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(authCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.Error(c, apperrors.Unauthorized("No authorization token provided"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.Error(c, err)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid token is sent and lets
// anonymous or badly authenticated requests through unchanged.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID.Hex())
}

// CurrentUser returns the authenticated account, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// RequireRole lets through accounts whose role passes allowed.
func RequireRole(allowed func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Error(c, apperrors.Unauthorized("User not authenticated"))
			return
		}
		if !allowed(user.Role) {
			utils.Error(c, apperrors.Forbidden("User role "+user.Role.String()+" is not authorized to access this route"))
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(models.Role.CanAdminister)
}
