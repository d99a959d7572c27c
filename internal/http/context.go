package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/auth"
	"github.com/mrlokans/mylib/internal/pagestate"
	"github.com/mrlokans/mylib/internal/session"
	"github.com/mrlokans/mylib/internal/storage"
	"github.com/mrlokans/mylib/internal/views"
)

const requestStateKey = "mylib_request"

// flashErrorKey is the tab storage key of the pending action error.
const flashErrorKey = "flash_error"

// requestState is what a handler sees of the visitor's browser: the two
// storages, the session over the durable one and a client bound to it.
type requestState struct {
	local   storage.Store
	tab     storage.Store
	session *session.Store
	client  *api.Client
	nav     *pagestate.Navigator
}

// RequestContextMiddleware builds the per-request state. The session
// middlewares must have run.
func RequestContextMiddleware(registry *api.Registry, local, tab *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := registry.Client()
		if err != nil {
			log.Printf("Internal error (request context): %v", err)
			c.String(http.StatusInternalServerError, "Backend client unavailable")
			c.Abort()
			return
		}

		localStore := local.Storage(c.Request)
		tabStore := tab.Storage(c.Request)
		sess := session.New(localStore)

		c.Set(requestStateKey, &requestState{
			local:   localStore,
			tab:     tabStore,
			session: sess,
			client:  client.WithSession(sess),
			nav:     pagestate.NewNavigator(tabStore, views.NavigatorOptions()),
		})
		c.Next()
	}
}

func getRequestState(c *gin.Context) *requestState {
	if v, ok := c.Get(requestStateKey); ok {
		if st, ok := v.(*requestState); ok {
			return st
		}
	}
	panic("request state missing: RequestContextMiddleware not installed")
}

// flash is the error sink of the action dispatcher. The message survives the
// redirect in tab storage and is shown once.
type flash struct {
	store storage.Store
}

func (f flash) SetError(msg string) {
	if msg == "" {
		f.store.Remove(flashErrorKey)
		return
	}
	f.store.Set(flashErrorKey, msg)
}

func (f flash) ClearError() {
	f.store.Remove(flashErrorKey)
}

// take returns and forgets the pending message.
func (f flash) take() string {
	msg, ok := f.store.Get(flashErrorKey)
	if !ok {
		return ""
	}
	f.store.Remove(flashErrorKey)
	return msg
}
