package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "HOST", "RUNTIME_CONFIG_SOURCE", "DATABASE_PATH", "REQUEST_TIMEOUT",
		"PROFILE_PATH", "PROFILE_SESSION_IDLE", "SESSION_PERSIST_LIFETIME",
		"SESSION_TAB_LIFETIME", "SECURE_COOKIES", "LOGIN_MAX_ATTEMPTS", "LOGIN_LOCKOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()

	assert.Equal(t, int32(8190), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultRuntimeConfigSource, cfg.Runtime.ConfigSource)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 15*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, 12*time.Hour, cfg.Profile.SessionIdle)
	assert.Equal(t, 720*time.Hour, cfg.Sessions.PersistLifetime)
	assert.Equal(t, 12*time.Hour, cfg.Sessions.TabLifetime)
	assert.True(t, cfg.Sessions.SecureCookies)
	assert.Equal(t, 5, cfg.Sessions.LoginMaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.LoginLockout)
	assert.True(t, strings.HasSuffix(cfg.Profile.Path, filepath.Join(DefaultProfileDir, DefaultProfileFileName)))
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RUNTIME_CONFIG_SOURCE", "https://books.example.com/config.json")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("PROFILE_PATH", "/tmp/mylib/profile.db")
	t.Setenv("SECURE_COOKIES", "false")
	t.Setenv("TOKEN_ENCRYPTION_KEY", "a2V5")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "https://books.example.com/config.json", cfg.Runtime.ConfigSource)
	assert.Equal(t, 3*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, "/tmp/mylib/profile.db", cfg.Profile.Path)
	assert.False(t, cfg.Sessions.SecureCookies)
	assert.Equal(t, "a2V5", cfg.Profile.EncryptionKey)
}
