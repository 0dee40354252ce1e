package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"civic-issues-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func citizenAuth() (fakeAuth, *models.User) {
	citizen := &models.User{ID: primitive.NewObjectID(), Name: "Cit", Email: "cit@example.com", Role: models.RoleCitizen, IsVerified: true}
	admin := &models.User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin, IsVerified: true}
	return fakeAuth{"citizen": citizen, "admin": admin}, citizen
}

func validIssue() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Broken streetlight",
		"description": "The light has been out for a week",
		"category":    "streetlight",
		"location":    map[string]interface{}{"latitude": 12.97, "longitude": 77.59, "address": "5th Main"},
	}
}

func userDoc(u *models.User) bson.D {
	return bson.D{
		{Key: "_id", Value: u.ID},
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "role", Value: u.Role.String()},
	}
}

func TestIssueRequestValidation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rejects bad input before touching the store", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		noLocation := validIssue()
		delete(noLocation, "location")
		badPhoto := validIssue()
		badPhoto["photos"] = []string{"ftp://example.com/a.exe"}
		badCategory := validIssue()
		badCategory["category"] = "graffiti"
		shortTitle := validIssue()
		shortTitle["title"] = "x"

		tests := []struct {
			name  string
			body  map[string]interface{}
			field string
		}{
			{"missing location", noLocation, "location"},
			{"photo link", badPhoto, "photos[0]"},
			{"category", badCategory, "category"},
			{"title length", shortTitle, "title"},
		}
		for _, tt := range tests {
			w, env := do(r, http.MethodPost, "/api/issues", "citizen", tt.body)
			assert.Equal(mt, http.StatusBadRequest, w.Code, tt.name)
			assert.False(mt, env.Success)
			require.NotEmpty(mt, env.Errors, tt.name)
			assert.Equal(mt, tt.field, env.Errors[0].Field, tt.name)
		}
	})

	mt.Run("listing filters", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		for path, msg := range map[string]string{
			"/api/issues?sortBy=password":               "Invalid sortBy field",
			"/api/issues?status=closed":                 "Invalid status",
			"/api/issues?location=north":                "Invalid location, expected lat,lng",
			"/api/issues?location=95,10":                "Invalid location, expected lat,lng",
			"/api/issues?location=NaN,77.5":             "Invalid location, expected lat,lng",
			"/api/issues?location=12.9,77.5&radius=NaN": "Invalid radius, expected a positive number of km",
			"/api/issues?location=12.9,77.5&radius=Inf": "Invalid radius, expected a positive number of km",
			"/api/issues?location=12.9,77.5&radius=0":   "Invalid radius, expected a positive number of km",
			"/api/issues/not-an-id":                     "Invalid issue ID",
			"/api/issues/my-issues?status=bad":          "Invalid status",
		} {
			w, env := do(r, http.MethodGet, path, "citizen", nil)
			assert.Equal(mt, http.StatusBadRequest, w.Code, path)
			assert.Equal(mt, msg, env.Message, path)
		}
	})

	mt.Run("my-issues is not an id", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		w, env := do(r, http.MethodGet, "/api/issues/my-issues", "", nil)
		assert.Equal(mt, http.StatusUnauthorized, w.Code)
		assert.Equal(mt, "No authorization token provided", env.Message)
	})

	mt.Run("feedback requires rating", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		w, env := do(r, http.MethodPost, "/api/issues/"+primitive.NewObjectID().Hex()+"/feedback", "citizen", map[string]string{"comment": "great"})
		assert.Equal(mt, http.StatusBadRequest, w.Code)
		require.NotEmpty(mt, env.Errors)
		assert.Equal(mt, "rating is required", env.Errors[0].Message)
	})
}

func TestCreateIssue(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created envelope", func(mt *mtest.T) {
		auth, citizen := citizenAuth()
		r := newRouter(mt.DB, auth, nil)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, "civic.users", mtest.FirstBatch, userDoc(citizen)),
		)

		w, env := do(r, http.MethodPost, "/api/issues", "citizen", validIssue())
		require.Equal(mt, http.StatusCreated, w.Code, w.Body.String())
		assert.True(mt, env.Success)
		assert.Equal(mt, "Issue created successfully", env.Message)

		var data struct {
			Issue struct {
				ID        string             `json:"id"`
				Status    string             `json:"status"`
				Priority  string             `json:"priority"`
				Location  models.GeoPoint    `json:"location"`
				CreatedBy models.UserSummary `json:"createdBy"`
				Upvotes   []interface{}      `json:"upvotes"`
			} `json:"issue"`
		}
		require.NoError(mt, json.Unmarshal(env.Data, &data))
		assert.True(mt, primitive.IsValidObjectID(data.Issue.ID))
		assert.Equal(mt, "pending", data.Issue.Status)
		assert.Equal(mt, "medium", data.Issue.Priority)
		assert.Equal(mt, []float64{77.59, 12.97}, data.Issue.Location.Coordinates)
		assert.Equal(mt, "Cit", data.Issue.CreatedBy.Name)
		assert.NotNil(mt, data.Issue.Upvotes)
	})
}

func TestListIssues(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("paginated envelope", func(mt *mtest.T) {
		auth, citizen := citizenAuth()
		r := newRouter(mt.DB, auth, nil)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "civic.issues", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(11)}}),
			mtest.CreateCursorResponse(0, "civic.issues", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "title", Value: "Overflowing bin"},
				{Key: "status", Value: "pending"},
				{Key: "createdBy", Value: citizen.ID},
				{Key: "upvotes", Value: bson.A{bson.D{{Key: "user", Value: citizen.ID}}}},
				{Key: "feedback", Value: bson.A{}},
			}),
			mtest.CreateCursorResponse(0, "civic.users", mtest.FirstBatch, userDoc(citizen)),
		)

		w, env := do(r, http.MethodGet, "/api/issues?page=2&limit=10&category=waste", "citizen", nil)
		require.Equal(mt, http.StatusOK, w.Code, w.Body.String())

		var data struct {
			Issues []struct {
				Title        string `json:"title"`
				UpvoteCount  int    `json:"upvoteCount"`
				UserHasVoted bool   `json:"userHasVoted"`
			} `json:"issues"`
			Pagination map[string]interface{} `json:"pagination"`
		}
		require.NoError(mt, json.Unmarshal(env.Data, &data))
		require.Len(mt, data.Issues, 1)
		assert.Equal(mt, "Overflowing bin", data.Issues[0].Title)
		assert.Equal(mt, 1, data.Issues[0].UpvoteCount)
		assert.True(mt, data.Issues[0].UserHasVoted)

		assert.EqualValues(mt, 2, data.Pagination["currentPage"])
		assert.EqualValues(mt, 2, data.Pagination["totalPages"])
		assert.EqualValues(mt, 11, data.Pagination["totalIssues"])
		assert.Equal(mt, false, data.Pagination["hasNext"])
		assert.Equal(mt, true, data.Pagination["hasPrev"])
	})
}
