package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/session"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// RequireLogin redirects to the login page unless the durable browser storage
// says the visitor is signed in. The original path is kept in ?next=.
//
// Must run after local.SessionLoadSave.
func RequireLogin(local *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(local, c.Request) {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// IsAuthenticated reports the persisted authentication flag of the request's
// durable storage.
func IsAuthenticated(local *SessionManager, r *http.Request) bool {
	return session.New(local.Storage(r)).Persisted().IsAuthenticated
}

// isLocalPath checks if a path is a safe local redirect target.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}

	// Must start with /
	if !strings.HasPrefix(path, "/") {
		return false
	}

	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}

	// Reject URLs with schemes
	if strings.Contains(path, "://") {
		return false
	}

	// Reject paths with backslashes (potential bypass attempts)
	if strings.Contains(path, "\\") {
		return false
	}

	return true
}

// SanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func SanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}
