package auth

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/storage"
)

// Cookie names of the two per-browser stores.
const (
	LocalCookieName = "mylib_local"
	TabCookieName   = "mylib_tab"
)

// SessionManager wraps scs.SessionManager and hands out storage views of the
// session carried by a request.
type SessionManager struct {
	*scs.SessionManager
}

// EnsureSessionsTable creates the table sqlite3store expects.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func EnsureSessionsTable(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// NewLocalSessionManager backs the browser's durable storage: the cookie
// outlives the browser session and the data lives for PersistLifetime.
func NewLocalSessionManager(sqlDB *sql.DB, cfg config.Sessions) (*SessionManager, error) {
	return newSessionManager(sqlDB, LocalCookieName, cfg.PersistLifetime, true, cfg.SecureCookies)
}

// NewTabSessionManager backs the tab-scoped storage: the cookie is dropped
// when the browser session ends.
func NewTabSessionManager(sqlDB *sql.DB, cfg config.Sessions) (*SessionManager, error) {
	return newSessionManager(sqlDB, TabCookieName, cfg.TabLifetime, false, cfg.SecureCookies)
}

func newSessionManager(sqlDB *sql.DB, name string, lifetime time.Duration, persist, secure bool) (*SessionManager, error) {
	if err := EnsureSessionsTable(sqlDB); err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = lifetime

	sm.Cookie.Name = name
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = persist
	sm.Cookie.Secure = secure
	// Lax, so that following a link into the app still carries the login
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// NewMemorySessionManager keeps sessions in process memory. Used in tests.
func NewMemorySessionManager(name string, persist bool) *SessionManager {
	sm := scs.New()
	sm.Cookie.Name = name
	sm.Cookie.Persist = persist
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return &SessionManager{SessionManager: sm}
}

// Storage returns the session of r as a key/value store. r must have passed
// through SessionLoadSave.
func (sm *SessionManager) Storage(r *http.Request) *storage.SessionStore {
	return storage.NewSessionStore(r.Context(), sm.SessionManager)
}

// Renew issues a new session token keeping the data, to prevent session
// fixation across a login.
func (sm *SessionManager) Renew(r *http.Request) error {
	return sm.RenewToken(r.Context())
}
