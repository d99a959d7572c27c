// Package auth provides the browser-side plumbing of the web frontend.
//
// The web frontend keeps no server-side user table: the backend issues the
// token, and the frontend keeps it the way a browser client would. Two scs
// session managers over one SQLite table stand in for the browser's storages:
//
//   - local: persistent cookie, holds the credentials
//   - tab: non-persistent cookie, holds the current view, pagination
//     positions, the last search and flash errors
//
// # Configuration
//
//	SESSION_PERSIST_LIFETIME=720h  # lifetime of the durable storage
//	SESSION_TAB_LIFETIME=12h       # lifetime of the tab storage
//	SESSION_SECRET=<32+ bytes>     # CSRF key, generated at startup when empty
//	SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
//	local, _ := auth.NewLocalSessionManager(sqlDB, cfg.Sessions)
//	router.Use(local.SessionLoadSave())
//	router.GET("/library", auth.RequireLogin(local), handler)
package auth
