package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
)

func newRouter(tokens *auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c)})
	})
	r.POST("/jobs", AuthMiddleware(tokens), RequirePermission(auth.PermJobsWrite), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	r := newRouter(tokens)

	w := serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodGet, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := auth.NewTokenManager("different-secret", time.Hour)
	forged, _, err := other.Generate(1, auth.RoleAdmin)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := tokens.Generate(12, auth.RoleArtist)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":12,"role":"artist"}`, w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	r := newRouter(tokens)

	artist, _, err := tokens.Generate(1, auth.RoleArtist)
	require.NoError(t, err)
	employer, _, err := tokens.Generate(2, auth.RoleEmployer)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/jobs", artist).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/jobs", employer).Code)
}
