package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "form-action 'self' https://example.com")
}

func TestCSRF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("0123456789abcdef0123456789abcdef")

	reached := false
	router := gin.New()
	router.Use(CSRF(secret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		reached = true
		c.String(http.StatusOK, "saved")
	})

	t.Run("post without token is rejected", func(t *testing.T) {
		reached = false
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader("name=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, reached)
	})

	t.Run("post with token from get succeeds", func(t *testing.T) {
		reached = false
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
		require.Equal(t, http.StatusOK, w.Code)
		token := w.Body.String()
		require.NotEmpty(t, token)

		form := url.Values{CSRFFieldName: {token}, "name": {"x"}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, cookie := range w.Result().Cookies() {
			req.AddCookie(cookie)
		}
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, reached)
	})
}

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSessionManager(sqlDB, time.Hour, false)
	require.NoError(t, err)
	return sm
}

func TestNewSessionManager(t *testing.T) {
	sm := setupSessionManager(t)

	assert.Equal(t, "session", sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.False(t, sm.Cookie.Secure)
	assert.Equal(t, time.Hour, sm.Lifetime)
}

func TestFlashSurvivesRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sm := setupSessionManager(t)

	router := gin.New()
	router.Use(sm.LoadAndSave())
	router.POST("/save", func(c *gin.Context) {
		sm.SetFlash(c.Request.Context(), "Genre saved")
		c.Redirect(http.StatusFound, "/show")
	})
	router.GET("/show", func(c *gin.Context) {
		c.String(http.StatusOK, sm.PopFlash(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/save", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	show := func() string {
		req := httptest.NewRequest(http.MethodGet, "/show", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "Genre saved", show())
	assert.Equal(t, "", show(), "flash is shown once")
}

func TestSessionSavedWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sm := setupSessionManager(t)

	router := gin.New()
	router.Use(sm.LoadAndSave())
	router.POST("/silent", func(c *gin.Context) {
		sm.SetFlash(c.Request.Context(), "Copy deleted")
	})
	router.POST("/status", func(c *gin.Context) {
		sm.SetFlash(c.Request.Context(), "Copy deleted")
		c.Status(http.StatusNoContent)
	})
	router.GET("/show", func(c *gin.Context) {
		c.String(http.StatusOK, sm.PopFlash(c.Request.Context()))
	})

	for _, path := range []string{"/silent", "/status"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, "session", cookies[0].Name)
			assert.Contains(t, w.Header().Values("Vary"), "Cookie")

			req := httptest.NewRequest(http.MethodGet, "/show", nil)
			req.AddCookie(cookies[0])
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, "Copy deleted", w.Body.String())
		})
	}
}
