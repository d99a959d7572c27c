package http

import (
	"gorm.io/gorm"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/auth"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Backend client, initialised once the runtime config is loaded
	Registry *api.Registry

	// Browser storages
	LocalSessions *auth.SessionManager
	TabSessions   *auth.SessionManager

	// CSRF protection is disabled when the secret is empty
	CSRFSecret    []byte
	SecureCookies bool

	// Failed-login limiter; defaults apply when nil
	LoginThrottle *auth.LoginThrottle

	// Database behind the session managers, checked by /healthz
	Database *gorm.DB

	// Application info
	Version string
}
