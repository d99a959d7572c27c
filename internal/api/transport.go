package api

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/mrlokans/mylib/internal/session"
)

type sessionKey struct{}

func withSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// authTransport adds the bearer token of the session bound to the request
// context. The session is read from storage on every request, so a login in
// another process or tab is picked up without rebuilding the client.
type authTransport struct {
	base http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if s, ok := req.Context().Value(sessionKey{}).(Session); ok {
		state := s.Persisted()
		if hasToken(state) {
			req = req.Clone(req.Context())
			AttachAuthToken(req, state)
		}
	}
	return t.base.RoundTrip(req)
}

// AttachAuthToken sets "Authorization: Bearer <token>" when state is
// authenticated and carries a token. Otherwise req is left untouched.
func AttachAuthToken(req *http.Request, state session.State) {
	if !hasToken(state) {
		return
	}
	token := &oauth2.Token{AccessToken: state.AuthToken, TokenType: "Bearer"}
	token.SetAuthHeader(req)
}

func hasToken(state session.State) bool {
	return state.IsAuthenticated && state.AuthToken != ""
}
