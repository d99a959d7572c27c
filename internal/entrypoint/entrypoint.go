package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/auth"
	"github.com/mrlokans/mylib/internal/backendconfig"
	"github.com/mrlokans/mylib/internal/config"
	http_controllers "github.com/mrlokans/mylib/internal/http"
	"github.com/mrlokans/mylib/internal/storage"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill is SIGTERM; SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// Run starts the web frontend. The backend config is loaded and the API
// client initialised before the first request can be served.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting MyLib v%s", version)

	db, err := storage.OpenDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	localSessions, err := auth.NewLocalSessionManager(sqlDB, cfg.Sessions)
	if err != nil {
		log.Fatalf("Failed to initialize browser storage: %v", err)
	}
	tabSessions, err := auth.NewTabSessionManager(sqlDB, cfg.Sessions)
	if err != nil {
		log.Fatalf("Failed to initialize tab storage: %v", err)
	}

	csrfSecret, generated, err := auth.ResolveCSRFSecret(cfg.Sessions.Secret)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if generated {
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}
	if !cfg.Sessions.SecureCookies {
		log.Printf("WARNING: SECURE_COOKIES is disabled, cookies will be sent over plain HTTP")
	}

	backend := backendconfig.NewLoader(cfg.Runtime.ConfigSource).Load(context.Background())
	registry := api.NewRegistry()
	// Requests run on per-browser copies of this client; see RequestContextMiddleware.
	if _, err := registry.Init(backend, nil, api.WithTimeout(cfg.Client.RequestTimeout)); err != nil {
		log.Fatalf("Failed to initialize API client: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Registry:      registry,
		LocalSessions: localSessions,
		TabSessions:   tabSessions,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Sessions.SecureCookies,
		LoginThrottle: auth.NewLoginThrottle(auth.ThrottleConfig{
			MaxAttempts: cfg.Sessions.LoginMaxAttempts,
			Window:      cfg.Sessions.LoginWindow,
			Lockout:     cfg.Sessions.LoginLockout,
		}),
		Database: db,
		Version:  version,
	})

	onShutdown := func(ctx context.Context) {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	Serve(router, cfg, onShutdown)
}
