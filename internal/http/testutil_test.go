package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/auth"
	"github.com/mrlokans/mylib/internal/backendconfig"
	"github.com/mrlokans/mylib/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testUser     = "alice"
	testPassword = "secret"
	testToken    = "jwt-token"
)

type backendCall struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakeBackend serves the book API with a catalog of 25 books.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu    sync.Mutex
	calls []backendCall
	fail  map[string]int // path -> status to answer with
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{t: t, fail: make(map[string]int)}
	fb.server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) backend() backendconfig.Backend {
	u, err := url.Parse(fb.server.URL)
	require.NoError(fb.t, err)
	return backendconfig.Backend{Host: u.Hostname(), Port: u.Port(), Protocol: u.Scheme}
}

func (fb *fakeBackend) failWith(path string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fail[path] = status
}

func (fb *fakeBackend) callsTo(path string) []backendCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []backendCall
	for _, c := range fb.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (fb *fakeBackend) lastCallTo(path string) backendCall {
	calls := fb.callsTo(path)
	require.NotEmpty(fb.t, calls, "no call to %s", path)
	return calls[len(calls)-1]
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fb.mu.Lock()
	fb.calls = append(fb.calls, backendCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	status, failing := fb.fail[r.URL.Path]
	fb.mu.Unlock()

	if failing {
		writeJSON(w, status, entities.APIError{Status: "ERROR", Message: "Backend refused"})
		return
	}

	authorized := r.Header.Get("Authorization") == "Bearer "+testToken

	switch {
	case r.URL.Path == "/api/v1/auth/authenticate":
		var req entities.AuthRequest
		_ = json.Unmarshal(body, &req)
		if req.Username != testUser || req.Password != testPassword {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(testToken))

	case r.URL.Path == "/api/v1/auth/add-user":
		var req entities.AuthRequest
		_ = json.Unmarshal(body, &req)
		if req.Username == "taken" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)

	case r.URL.Path == "/api/v1/books/get/all",
		r.URL.Path == "/api/v1/search/external/keyword":
		writeJSON(w, http.StatusOK, catalogPage(r))

	case r.URL.Path == "/api/v1/books/get/library",
		r.URL.Path == "/api/v1/books/get/wishlist":
		if !authorized {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		list := catalogPage(r)
		for i := range list.Books {
			list.Books[i].InLibrary = true
			list.Books[i].IndividualRating = 4
			list.Books[i].ReadingStatus = entities.ReadingStatusReading
		}
		writeJSON(w, http.StatusOK, list)

	case strings.HasPrefix(r.URL.Path, "/api/v1/books/get/byID/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/v1/books/get/byID/")
		if id == "missing" {
			writeJSON(w, http.StatusNotFound, entities.APIError{Status: "NOT_FOUND", Message: "Book not found"})
			return
		}
		writeJSON(w, http.StatusOK, testBook(id))

	default:
		// mutations
		if !authorized {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func testBook(id string) entities.Book {
	return entities.Book{
		BookID:  id,
		Title:   "Title " + id,
		Authors: []string{"Author " + id},
	}
}

func catalogPage(r *http.Request) entities.BookList {
	const total = 25
	var start, size int
	_, _ = fmt.Sscan(r.URL.Query().Get("startIndex"), &start)
	_, _ = fmt.Sscan(r.URL.Query().Get("numResultsToGet"), &size)

	list := entities.BookList{NumResults: total, StartIndex: start, Books: []entities.Book{}}
	for i := start; i < start+size && i < total; i++ {
		list.Books = append(list.Books, testBook(fmt.Sprintf("OL%dM", i)))
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	router   *gin.Engine
	backend  *fakeBackend
	registry *api.Registry
}

func setupTestRouter(t *testing.T, csrfSecret []byte) *testEnv {
	t.Helper()
	return setupTestRouterWith(t, RouterConfig{CSRFSecret: csrfSecret})
}

func setupTestRouterWith(t *testing.T, cfg RouterConfig) *testEnv {
	t.Helper()

	fb := newFakeBackend(t)
	registry := api.NewRegistry()
	_, err := registry.Init(fb.backend(), nil)
	require.NoError(t, err)

	cfg.Registry = registry
	cfg.LocalSessions = auth.NewMemorySessionManager(auth.LocalCookieName, true)
	cfg.TabSessions = auth.NewMemorySessionManager(auth.TabCookieName, false)
	cfg.Version = "test"

	router := NewRouter(cfg)
	return &testEnv{router: router, backend: fb, registry: registry}
}

// browser replays cookies between requests the way a browser tab would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (env *testEnv) newBrowser(t *testing.T) *browser {
	return &browser{t: t, handler: env.router, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rr
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// newTab keeps the durable cookie and drops the tab one.
func (b *browser) newTab() *browser {
	tab := &browser{t: b.t, handler: b.handler, cookies: make(map[string]*http.Cookie)}
	if c, ok := b.cookies[auth.LocalCookieName]; ok {
		tab.cookies[c.Name] = c
	}
	return tab
}

func (b *browser) login() {
	b.t.Helper()
	rr := b.post("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	require.Equal(b.t, http.StatusSeeOther, rr.Code, rr.Body.String())
}
