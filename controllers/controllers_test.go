package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"civic-issues-be/apperrors"
	"civic-issues-be/controllers"
	"civic-issues-be/models"
	"civic-issues-be/repository"
	"civic-issues-be/routes"
	"civic-issues-be/services"
	"civic-issues-be/storage"
	"civic-issues-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeAuth map[string]*models.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apperrors.Unauthorized("Invalid authorization token")
}

// newRouter wires the full route table over db. photos may be nil.
func newRouter(db *mongo.Database, auth fakeAuth, photos storage.PhotoStore) *gin.Engine {
	users := repository.NewUserRepository(db)
	issues := repository.NewIssueRepository(db)
	assignments := repository.NewAssignmentRepository(db)

	authService := services.NewAuthService(services.AuthDeps{
		Users:  users,
		Tokens: utils.NewTokenManager("test-secret", time.Hour),
	})
	issueService := services.NewIssueService(issues, users)

	r := gin.New()
	routes.Register(r, routes.Handlers{
		Auth:          controllers.NewAuthController(authService, false, time.Hour),
		Users:         controllers.NewUserController(authService),
		Issues:        controllers.NewIssueController(issueService, services.NewEngagementService(issues)),
		Admin:         controllers.NewAdminController(issueService, services.NewAssignmentService(issues, assignments, users), services.NewAnalyticsService(repository.NewAnalyticsRepository(db))),
		Uploads:       controllers.NewUploadController(photos),
		Authenticator: auth,
		IssueLimiter:  func(c *gin.Context) { c.Next() },
	})
	return r
}

type envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    json.RawMessage    `json:"data"`
	Errors  []utils.FieldError `json:"errors"`
}

func do(r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}
