package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/mylib/internal/crypto"
)

type (
	Config struct {
		HTTP
		Global
		Runtime
		Database
		Profile
		Client
		Sessions
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Runtime struct {
		ConfigSource string // URL or file path of the backend config JSON
	}

	Database struct {
		Path string // scs session store for the web frontend
	}

	Profile struct {
		Path          string        // CLI profile database
		SessionIdle   time.Duration // idle expiry of the profile's session scope
		EncryptionKey string        // base64 key for the stored bearer token
		KeyFile       string
	}

	Client struct {
		RequestTimeout time.Duration
	}

	Sessions struct {
		PersistLifetime time.Duration
		TabLifetime     time.Duration
		Secret          string // CSRF key material, auto-generated if empty
		SecureCookies   bool   // Set to false for local dev without HTTPS

		LoginMaxAttempts int
		LoginWindow      time.Duration
		LoginLockout     time.Duration
	}
)

func defaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("WARNING: cannot determine home directory, using current directory for profile: %v", err)
		return DefaultProfileDir
	}
	return filepath.Join(home, DefaultProfileDir)
}

func NewConfig() *Config {
	profileDir := defaultProfileDir()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("runtime_config_source", DefaultRuntimeConfigSource)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("request_timeout", "15s")

	// Profile defaults
	v.SetDefault("profile_path", filepath.Join(profileDir, DefaultProfileFileName))
	v.SetDefault("profile_session_idle", "12h")
	v.SetDefault(crypto.EnvEncryptionKey, "")
	v.SetDefault("token_key_file", filepath.Join(profileDir, crypto.DefaultKeyFileName))

	// Browser session defaults
	v.SetDefault("session_persist_lifetime", "720h") // 30 days
	v.SetDefault("session_tab_lifetime", "12h")
	v.SetDefault("session_secret", "")   // Auto-generated if empty
	v.SetDefault("secure_cookies", true) // HTTPS-only cookies
	v.SetDefault("login_max_attempts", 5)
	v.SetDefault("login_window", "15m")
	v.SetDefault("login_lockout", "30m")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Runtime: Runtime{
			ConfigSource: v.GetString("RUNTIME_CONFIG_SOURCE"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Profile: Profile{
			Path:          v.GetString("PROFILE_PATH"),
			SessionIdle:   v.GetDuration("PROFILE_SESSION_IDLE"),
			EncryptionKey: v.GetString(crypto.EnvEncryptionKey),
			KeyFile:       v.GetString("TOKEN_KEY_FILE"),
		},
		Client: Client{
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Sessions: Sessions{
			PersistLifetime: v.GetDuration("SESSION_PERSIST_LIFETIME"),
			TabLifetime:     v.GetDuration("SESSION_TAB_LIFETIME"),
			Secret:          v.GetString("SESSION_SECRET"),
			SecureCookies:   v.GetBool("SECURE_COOKIES"),

			LoginMaxAttempts: v.GetInt("LOGIN_MAX_ATTEMPTS"),
			LoginWindow:      v.GetDuration("LOGIN_WINDOW"),
			LoginLockout:     v.GetDuration("LOGIN_LOCKOUT"),
		},
	}
}
