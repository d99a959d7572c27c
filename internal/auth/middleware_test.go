package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylib/internal/session"
)

func setupProtectedRouter(local *SessionManager) *gin.Engine {
	router := gin.New()
	router.Use(local.SessionLoadSave())
	router.GET("/login-as", func(c *gin.Context) {
		session.New(local.Storage(c.Request)).Login("alice", "token")
		c.Status(http.StatusNoContent)
	})
	router.GET("/library", RequireLogin(local), func(c *gin.Context) {
		c.String(http.StatusOK, "library")
	})
	return router
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	router := setupProtectedRouter(NewMemorySessionManager(LocalCookieName, true))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/library?page=2", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?next=%2Flibrary%3Fpage%3D2", rr.Header().Get("Location"))
}

func TestRequireLogin_AllowsAuthenticated(t *testing.T) {
	router := setupProtectedRouter(NewMemorySessionManager(LocalCookieName, true))

	login := httptest.NewRecorder()
	router.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login-as", nil))
	cookie := findCookie(login, LocalCookieName)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "library", rr.Body.String())
}

func TestSanitizeRedirectPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty path", "", "/"},
		{"root path", "/", "/"},
		{"local path", "/library", "/library"},
		{"local path with query", "/search?keywords=go", "/search?keywords=go"},
		{"protocol-relative URL", "//evil.com", "/"},
		{"full URL with scheme", "https://evil.com", "/"},
		{"URL with scheme in path", "/https://evil.com", "/"},
		{"backslash escape attempt", "/foo\\bar", "/"},
		{"backslash at start", "\\evil.com", "/"},
		{"javascript URL", "javascript:alert(1)", "/"},
		{"no leading slash", "evil.com", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeRedirectPath(tt.input))
		})
	}
}
