package controllers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"civic-issues-be/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestAdminRoutes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("citizens are turned away", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		for _, path := range []string{"/api/admin/issues", "/api/admin/analytics", "/api/admin/workers", "/api/admin/assignments"} {
			w, env := do(r, http.MethodGet, path, "citizen", nil)
			assert.Equal(mt, http.StatusForbidden, w.Code, path)
			assert.Equal(mt, "User role citizen is not authorized to access this route", env.Message)
		}
	})

	mt.Run("assign validates worker id", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		path := "/api/admin/issues/" + primitive.NewObjectID().Hex() + "/assign"
		w, env := do(r, http.MethodPut, path, "admin", map[string]string{"assignedTo": "bob"})
		assert.Equal(mt, http.StatusBadRequest, w.Code)
		require.NotEmpty(mt, env.Errors)
		assert.Equal(mt, "assignedTo must be a valid id", env.Errors[0].Message)
	})

	mt.Run("status must be known", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		path := "/api/admin/issues/" + primitive.NewObjectID().Hex() + "/status"
		w, env := do(r, http.MethodPut, path, "admin", map[string]string{"status": "closed"})
		assert.Equal(mt, http.StatusBadRequest, w.Code)
		require.NotEmpty(mt, env.Errors)
		assert.Equal(mt, "status", env.Errors[0].Field)
	})

	mt.Run("assignment filters", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		w, env := do(r, http.MethodGet, "/api/admin/assignments?status=done", "admin", nil)
		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "Invalid status", env.Message)

		w, env = do(r, http.MethodGet, "/api/admin/issues?assignedTo=bob", "admin", nil)
		assert.Equal(mt, http.StatusBadRequest, w.Code)
		assert.Equal(mt, "Invalid assignedTo", env.Message)
	})
}

type fakePhotos struct {
	got []byte
	url string
	err error
}

func (f *fakePhotos) Upload(_ context.Context, r io.Reader) (string, error) {
	f.got, _ = io.ReadAll(r)
	return f.url, f.err
}

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "pic.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer citizen")
	return req
}

func TestUploadPhoto(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stores the file", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		photos := &fakePhotos{url: "https://cdn.example/issues/2024/03/a.png"}
		r := newRouter(mt.DB, auth, photos)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "photo", []byte("png-bytes")))
		assert.Equal(mt, http.StatusCreated, w.Code)
		assert.Contains(mt, w.Body.String(), `"url":"https://cdn.example/issues/2024/03/a.png"`)
		assert.Equal(mt, []byte("png-bytes"), photos.got)
	})

	mt.Run("maps content errors to 400", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, &fakePhotos{err: storage.ErrUnsupportedType})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "photo", []byte("hello")))
		assert.Equal(mt, http.StatusBadRequest, w.Code)
	})

	mt.Run("requires the photo field", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, &fakePhotos{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "file", []byte("x")))
		assert.Equal(mt, http.StatusBadRequest, w.Code)
	})

	mt.Run("unconfigured storage", func(mt *mtest.T) {
		auth, _ := citizenAuth()
		r := newRouter(mt.DB, auth, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, uploadRequest(t, "photo", []byte("x")))
		assert.Equal(mt, http.StatusServiceUnavailable, w.Code)
	})
}
