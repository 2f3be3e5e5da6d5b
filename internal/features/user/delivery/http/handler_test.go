package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/miniapp-backend/internal/auth"
	"github.com/your-org/miniapp-backend/internal/features/user/models"
	"github.com/your-org/miniapp-backend/internal/features/user/service"
	"github.com/your-org/miniapp-backend/internal/http/middleware"
)

type fakeService struct {
	users map[int64]*models.UserResponse
	err   error
}

func newFakeService(users ...*models.UserResponse) *fakeService {
	s := &fakeService{users: map[int64]*models.UserResponse{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeService) GetUser(_ context.Context, id int64) (*models.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeService) GetOrCreateUser(_ context.Context, identity *auth.User) (*models.UserResponse, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if user, ok := s.users[identity.ID]; ok {
		return user, false, nil
	}
	user := &models.UserResponse{ID: identity.ID, Username: identity.Username, CreatedAt: time.Now()}
	s.users[identity.ID] = user
	return user, true, nil
}

func (s *fakeService) ListUsers(_ context.Context, _, _ int) ([]*models.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*models.UserResponse, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func setupRouter(svc service.UserService, identity *auth.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.DrainErrors())
	if identity != nil {
		router.Use(func(c *gin.Context) { middleware.SetAuthUser(c, identity) })
	}
	NewUserHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func renderedError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code, body.Error.Message
}

func TestGetMe_ReturnsUser(t *testing.T) {
	svc := newFakeService(&models.UserResponse{ID: 42, Username: "johndoe"})
	router := setupRouter(svc, &auth.User{ID: 42})

	rec := doRequest(router, "/api/v1/users/me")
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "johndoe", user.Username)
}

func TestGetMe_MissingIdentityRendersUnauthorized(t *testing.T) {
	router := setupRouter(newFakeService(), nil)

	rec := doRequest(router, "/api/v1/users/me")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	code, _ := renderedError(t, rec)
	assert.Equal(t, "UNAUTHORIZED", code)
}

func TestGetUser_NotFoundRendersTypedError(t *testing.T) {
	router := setupRouter(newFakeService(), &auth.User{ID: 1})

	rec := doRequest(router, "/api/v1/users/404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	code, message := renderedError(t, rec)
	assert.Equal(t, "USER_NOT_FOUND", code)
	assert.Contains(t, message, "404")
}

func TestGetUser_InvalidIDRendersBadRequest(t *testing.T) {
	router := setupRouter(newFakeService(), &auth.User{ID: 1})

	rec := doRequest(router, "/api/v1/users/not-a-number")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := renderedError(t, rec)
	assert.Equal(t, "BAD_REQUEST", code)
}

func TestGetUser_ServiceFailureIsScrubbed(t *testing.T) {
	svc := newFakeService()
	svc.err = errors.New("pq: connection reset by peer")
	router := setupRouter(svc, &auth.User{ID: 1})

	rec := doRequest(router, "/api/v1/users/42")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	code, message := renderedError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.Equal(t, "Internal server error", message)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestListUsers_ReturnsUsers(t *testing.T) {
	svc := newFakeService(&models.UserResponse{ID: 1}, &models.UserResponse{ID: 2})
	router := setupRouter(svc, &auth.User{ID: 1})

	rec := doRequest(router, "/api/v1/users?limit=10&offset=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []*models.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestListUsers_InvalidLimitRendersBadRequest(t *testing.T) {
	router := setupRouter(newFakeService(), &auth.User{ID: 1})

	for _, path := range []string{"/api/v1/users?limit=0", "/api/v1/users?limit=1000", "/api/v1/users?limit=ten"} {
		rec := doRequest(router, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
		code, _ := renderedError(t, rec)
		assert.Equal(t, "BAD_REQUEST", code)
	}
}
