package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfoliocms/internal/middleware"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, jwtService := newTestService(t)
	_, err := svc.EnsureDefaultAdmin(context.Background(), "admin", "changeme")
	require.NoError(t, err)

	h := NewHandler(svc, false, 3600)
	r := gin.New()
	api := r.Group("/api")
	h.RegisterPublicRoutes(api)
	protected := api.Group("")
	protected.Use(middleware.SessionGate(jwtService))
	h.RegisterProtectedRoutes(protected)
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestLoginSetsCookieAndMe(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/login", map[string]any{"username": "admin", "password": "changeme"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "password_hash")

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	rr = doJSONRequest(r, http.MethodGet, "/api/me", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"admin"`)

	rr = doJSONRequest(r, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	cleared := sessionCookie(rr)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/login", map[string]any{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, sessionCookie(rr))

	rr = doJSONRequest(r, http.MethodPost, "/api/login", map[string]any{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/change-password", map[string]any{"current_password": "changeme", "new_password": "new-password-1"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/login", map[string]any{"username": "admin", "password": "changeme"})
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)

	rr = doJSONRequest(r, http.MethodPost, "/api/change-password", map[string]any{"current_password": "wrong", "new_password": "new-password-1"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "WRONG_PASSWORD")

	rr = doJSONRequest(r, http.MethodPost, "/api/change-password", map[string]any{"current_password": "changeme", "new_password": "new-password-1"}, cookie)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPost, "/api/login", map[string]any{"username": "admin", "password": "new-password-1"})
	assert.Equal(t, http.StatusOK, rr.Code)
}
