package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocycle/backend/auth"
	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/middleware"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())

	r.GET("/private", middleware.RequireAuth(), func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	r.GET("/session", middleware.OptionalAuth(), middleware.Session(), func(c *gin.Context) {
		id, _ := middleware.GetShopperID(c)
		signal := middleware.Signal(c)
		c.JSON(http.StatusOK, gin.H{
			"shopper_id":    id,
			"authenticated": signal.Authenticated,
		})
	})

	return r
}

func get(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	token, err := auth.GenerateToken("shopper-1", time.Hour)
	require.NoError(t, err)

	w := get(r, "/private", map[string]string{"Authorization": "Bearer " + token})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopper-1")
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	w := get(r, "/private", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	w := get(r, "/private", map[string]string{"Authorization": "Bearer not-a-token"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken("shopper-1", time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "rotated-secret")
	r := newAuthRouter()

	w := get(r, "/private", map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_TokenWinsOverHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := newAuthRouter()

	token, err := auth.GenerateToken("shopper-1", time.Hour)
	require.NoError(t, err)

	w := get(r, "/session", map[string]string{
		"Authorization": "Bearer " + token,
		"X-Session-ID":  "anon-42",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopper-1")
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestSession_AnonymousHeader(t *testing.T) {
	r := newAuthRouter()

	w := get(r, "/session", map[string]string{"X-Session-ID": "anon-42"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anon-42")
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestSession_MissingEntirely(t *testing.T) {
	r := newAuthRouter()

	w := get(r, "/session", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing session")
}
