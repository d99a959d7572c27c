package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/auth"
	"github.com/mrlokans/mylib/internal/views"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	router.SetHTMLTemplate(loadTemplates())

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Registry, cfg.Version)
	router.GET("/healthz", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	pages := router.Group("/")

	// CSRF must run before the sessions so that the session context is
	// added on top of the request CSRF hands on
	if len(cfg.CSRFSecret) > 0 {
		pages.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	pages.Use(cfg.LocalSessions.SessionLoadSave())
	pages.Use(cfg.TabSessions.SessionLoadSave())
	pages.Use(RequestContextMiddleware(cfg.Registry, cfg.LocalSessions, cfg.TabSessions))

	requireLogin := auth.RequireLogin(cfg.LocalSessions)

	lists := NewListController()
	for _, view := range views.Lists {
		handlers := []gin.HandlerFunc{}
		if view.RequireLogin {
			handlers = append(handlers, requireLogin)
		}
		pages.GET(view.Path, append(handlers, lists.Show(view))...)
	}

	books := NewBookController()
	pages.GET("/book", books.Show)

	throttle := cfg.LoginThrottle
	if throttle == nil {
		throttle = auth.NewLoginThrottle(auth.DefaultThrottleConfig())
	}
	login := NewLoginController(cfg.LocalSessions, throttle)
	pages.GET("/login", login.LoginPage)
	pages.POST("/login", login.Login)
	pages.POST("/signup", login.SignUp)
	pages.POST("/logout", login.Logout)

	actionsController := NewActionsController()
	shelf := pages.Group("/books/:id", requireLogin)
	shelf.POST("/library", actionsController.AddToLibrary)
	shelf.POST("/wishlist", actionsController.AddToWishlist)
	shelf.POST("/library/delete", actionsController.DeleteFromLibrary)
	shelf.POST("/wishlist/delete", actionsController.DeleteFromWishlist)
	shelf.POST("/rating", actionsController.Rate)
	shelf.POST("/status", actionsController.SetStatus)

	return router
}
