package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"civic-issues-be/apperrors"
	"civic-issues-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth map[string]*models.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apperrors.Unauthorized("Invalid authorization token")
}

func testUsers() (fakeAuth, *models.User, *models.User) {
	citizen := &models.User{ID: primitive.NewObjectID(), Name: "c", Role: models.RoleCitizen}
	admin := &models.User{ID: primitive.NewObjectID(), Name: "a", Role: models.RoleAdmin}
	return fakeAuth{"citizen-token": citizen, "admin-token": admin}, citizen, admin
}

func echoUser(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Name, "user_id": c.GetString("user_id")})
}

func perform(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthMiddleware(t *testing.T) {
	auth, citizen, _ := testUsers()
	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), echoUser)

	w, body := perform(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No authorization token provided", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w, _ = perform(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w, body = perform(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c", body["user"])
	assert.Equal(t, citizen.ID.Hex(), body["user_id"])
}

func TestAuthMiddlewareCookie(t *testing.T) {
	auth, _, _ := testUsers()
	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), echoUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "admin-token"})
	w, body := perform(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a", body["user"])
}

func TestOptionalAuth(t *testing.T) {
	auth, _, _ := testUsers()
	r := gin.New()
	r.GET("/issues", OptionalAuth(auth), echoUser)

	w, body := perform(r, httptest.NewRequest(http.MethodGet, "/issues", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body["user"])

	req := httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer expired")
	w, body = perform(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body["user"])

	req = httptest.NewRequest(http.MethodGet, "/issues", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	_, body = perform(r, req)
	assert.Equal(t, "c", body["user"])
}

func TestAdminOnly(t *testing.T) {
	auth, _, _ := testUsers()
	r := gin.New()
	r.GET("/admin", AuthMiddleware(auth), AdminOnly(), echoUser)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w, body := perform(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "User role citizen is not authorized to access this route", body["message"])

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w, _ = perform(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleWithoutUser(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminOnly(), echoUser)

	w, _ := perform(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
