package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/auth"
)

const (
	pathAllBooks = "/api/v1/books/get/all"
	pathLibrary  = "/api/v1/books/get/library"
	pathSearch   = "/api/v1/search/external/keyword"
)

func TestListPage_AllBooks(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	rr := b.get("/")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "All Books")
	assert.Contains(t, body, "Title OL0M")
	assert.Contains(t, body, "Page 1 of 3")
	assert.Contains(t, body, "/?page=2")
	assert.NotContains(t, body, "Previous")
	assert.Equal(t, "startIndex=0&numResultsToGet=10", env.backend.lastCallTo(pathAllBooks).Query)
}

func TestListPage_QueryPosition(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	rr := b.get("/?page=3")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "startIndex=20&numResultsToGet=10", env.backend.lastCallTo(pathAllBooks).Query)
	assert.Contains(t, rr.Body.String(), "Page 3 of 3")
	assert.NotContains(t, rr.Body.String(), "Next")

	t.Run("new page size starts over", func(t *testing.T) {
		b.get("/?size=25")
		assert.Equal(t, "startIndex=0&numResultsToGet=25", env.backend.lastCallTo(pathAllBooks).Query)
	})

	t.Run("unknown page size is ignored", func(t *testing.T) {
		b.get("/?page=1&size=7")
		assert.Equal(t, "startIndex=0&numResultsToGet=25", env.backend.lastCallTo(pathAllBooks).Query)
	})
}

func TestListPage_PageBeyondEnd(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	rr := b.get("/?page=999")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Page 3 of 3")
	assert.Contains(t, body, "/?page=2")
	assert.NotContains(t, body, "page=998")
	assert.Equal(t, "startIndex=20&numResultsToGet=10", env.backend.lastCallTo(pathAllBooks).Query)

	// the corrected position is the one remembered
	rr = b.get("/")
	assert.Contains(t, rr.Body.String(), "Page 3 of 3")
}

func TestListPage_PositionSurvivesBookPage(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	b.get("/?page=2&size=5")
	rr := b.get("/book?id=OL6M")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Title OL6M")
	assert.Contains(t, rr.Body.String(), "Back to All Books")

	b.get("/")
	assert.Equal(t, "startIndex=5&numResultsToGet=5", env.backend.lastCallTo(pathAllBooks).Query)
}

func TestListPage_PositionClearedByOtherView(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	b.get("/?page=2")
	b.get("/search")
	b.get("/")

	assert.Equal(t, "startIndex=0&numResultsToGet=10", env.backend.lastCallTo(pathAllBooks).Query)
}

func TestListPage_PositionIsPerTab(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	b.get("/?page=2")
	b.newTab().get("/")

	assert.Equal(t, "startIndex=0&numResultsToGet=10", env.backend.lastCallTo(pathAllBooks).Query)
}

func TestSearchPage(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	t.Run("no keywords does not call the backend", func(t *testing.T) {
		rr := b.get("/search")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "0 results")
		assert.Empty(t, env.backend.callsTo(pathSearch))
	})

	t.Run("keywords are sent and remembered", func(t *testing.T) {
		rr := b.get("/search?keywords=" + url.QueryEscape("  dune   messiah "))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "keywords=dune+messiah&startIndex=0&numResultsToGet=10", env.backend.lastCallTo(pathSearch).Query)

		b.get("/search?page=2")
		assert.Equal(t, "keywords=dune+messiah&startIndex=10&numResultsToGet=10", env.backend.lastCallTo(pathSearch).Query)
	})

	t.Run("new keywords start at page one", func(t *testing.T) {
		b.get("/search?keywords=hyperion")
		assert.Equal(t, "keywords=hyperion&startIndex=0&numResultsToGet=10", env.backend.lastCallTo(pathSearch).Query)
	})

	t.Run("blank keywords clear the search", func(t *testing.T) {
		before := len(env.backend.callsTo(pathSearch))
		rr := b.get("/search?keywords=+")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, env.backend.callsTo(pathSearch), before)
	})
}

func TestProtectedViews_RedirectToLogin(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	for _, path := range []string{"/library", "/wishlist"} {
		rr := b.get(path)
		assert.Equal(t, http.StatusFound, rr.Code, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), rr.Header().Get("Location"))
	}

	rr := b.post("/books/OL1M/library", url.Values{"return": {"/"}})
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Empty(t, env.backend.callsTo("/api/v1/books/add/library"))
}

func TestLogin(t *testing.T) {
	env := setupTestRouter(t, nil)

	t.Run("success stores the token and redirects", func(t *testing.T) {
		b := env.newBrowser(t)
		rr := b.post("/login", url.Values{
			"username": {testUser},
			"password": {testPassword},
			"next":     {"/library"},
		})
		require.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/library", rr.Header().Get("Location"))

		rr = b.get("/library")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), testUser)
		assert.Contains(t, rr.Body.String(), "4 / 5")
		assert.Equal(t, "Bearer "+testToken, env.backend.lastCallTo(pathLibrary).Auth)

		// already signed in
		rr = b.get("/login")
		assert.Equal(t, http.StatusFound, rr.Code)
	})

	t.Run("credentials survive a new tab", func(t *testing.T) {
		b := env.newBrowser(t)
		b.login()
		rr := b.newTab().get("/library")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		b := env.newBrowser(t)
		rr := b.post("/login", url.Values{"username": {testUser}, "password": {"nope"}})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error: Username or password incorrect")

		rr = b.get("/library")
		assert.Equal(t, http.StatusFound, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		b := env.newBrowser(t)
		rr := b.post("/login", url.Values{"username": {testUser}})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("next cannot leave the site", func(t *testing.T) {
		b := env.newBrowser(t)
		rr := b.post("/login", url.Values{
			"username": {testUser},
			"password": {testPassword},
			"next":     {"//evil.com"},
		})
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})

	t.Run("backend failure", func(t *testing.T) {
		env := setupTestRouter(t, nil)
		env.backend.failWith("/api/v1/auth/authenticate", http.StatusInternalServerError)
		rr := env.newBrowser(t).post("/login", url.Values{"username": {testUser}, "password": {testPassword}})
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error: Backend refused")
	})
}

func TestLogin_Throttled(t *testing.T) {
	env := setupTestRouterWith(t, RouterConfig{
		LoginThrottle: auth.NewLoginThrottle(auth.ThrottleConfig{MaxAttempts: 2}),
	})
	b := env.newBrowser(t)

	for i := 0; i < 2; i++ {
		rr := b.post("/login", url.Values{"username": {testUser}, "password": {"nope"}})
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := b.post("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "Too many failed attempts")
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Len(t, env.backend.callsTo("/api/v1/auth/authenticate"), 2)

	// another account from the same client is not locked
	rr = b.post("/login", url.Values{"username": {"bob"}, "password": {testPassword}})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSignUp(t *testing.T) {
	env := setupTestRouter(t, nil)

	t.Run("taken username", func(t *testing.T) {
		rr := env.newBrowser(t).post("/signup", url.Values{"username": {"taken"}, "password": {"pw"}})
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "Error: Username already exists!")
	})

	t.Run("success signs in", func(t *testing.T) {
		b := env.newBrowser(t)
		rr := b.post("/signup", url.Values{"username": {testUser}, "password": {testPassword}})
		require.Equal(t, http.StatusSeeOther, rr.Code)

		assert.NotEmpty(t, env.backend.callsTo("/api/v1/auth/add-user"))
		assert.NotEmpty(t, env.backend.callsTo("/api/v1/auth/authenticate"))
		assert.Equal(t, http.StatusOK, b.get("/library").Code)
	})
}

func TestLogout(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)
	b.login()

	rr := b.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	assert.Equal(t, http.StatusFound, b.get("/library").Code)

	b.get("/")
	assert.Empty(t, env.backend.lastCallTo(pathAllBooks).Auth)
}

func TestActions(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)
	b.login()

	tests := []struct {
		name     string
		target   string
		form     url.Values
		method   string
		path     string
		wantBody string
	}{
		{"add to library", "/books/OL1M/library", nil, http.MethodPost, "/api/v1/books/add/library", `{"bookID":"OL1M"}`},
		{"add to wishlist", "/books/OL1M/wishlist", nil, http.MethodPost, "/api/v1/books/add/wishlist", `{"bookID":"OL1M"}`},
		{"delete from library", "/books/OL1M/library/delete", nil, http.MethodDelete, "/api/v1/books/delete/library/OL1M", ""},
		{"delete from wishlist", "/books/OL1M/wishlist/delete", nil, http.MethodDelete, "/api/v1/books/delete/wishlist/OL1M", ""},
		{"rate", "/books/OL1M/rating", url.Values{"rating": {"5"}}, http.MethodPut, "/api/v1/books/update/rating", `{"bookID":"OL1M","rating":5}`},
		{"set status", "/books/OL1M/status", url.Values{"status": {"read"}}, http.MethodPut, "/api/v1/books/update/status", `{"bookID":"OL1M","status":"READ"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"return": {"/library?page=1"}}
			for k, v := range tt.form {
				form[k] = v
			}

			rr := b.post(tt.target, form)
			require.Equal(t, http.StatusSeeOther, rr.Code)
			assert.Equal(t, "/library?page=1", rr.Header().Get("Location"))

			call := env.backend.lastCallTo(tt.path)
			assert.Equal(t, tt.method, call.Method)
			assert.Equal(t, "Bearer "+testToken, call.Auth)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, call.Body)
			}
		})
	}
}

func TestActions_FailureIsShownOnce(t *testing.T) {
	env := setupTestRouter(t, nil)
	env.backend.failWith("/api/v1/books/add/wishlist", http.StatusBadRequest)
	b := env.newBrowser(t)
	b.login()

	rr := b.post("/books/OL1M/wishlist", url.Values{"return": {"/"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = b.get("/")
	assert.Contains(t, rr.Body.String(), "Backend refused")

	rr = b.get("/")
	assert.NotContains(t, rr.Body.String(), "Backend refused")
}

func TestActions_InvalidInput(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)
	b.login()

	b.post("/books/OL1M/rating", url.Values{"rating": {"9"}, "return": {"/book?id=OL1M"}})
	assert.Empty(t, env.backend.callsTo("/api/v1/books/update/rating"))
	assert.Contains(t, b.get("/book?id=OL1M").Body.String(), "Rating must be a number from 1 to 5")

	b.post("/books/OL1M/status", url.Values{"status": {"SKIMMED"}, "return": {"/"}})
	assert.Empty(t, env.backend.callsTo("/api/v1/books/update/status"))
	assert.Contains(t, b.get("/").Body.String(), "Invalid reading status")
}

func TestActions_KeepSearchKeywords(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)
	b.login()

	b.get("/search?keywords=dune")
	b.get("/book?id=OL1M")
	b.post("/books/OL1M/library", url.Values{"return": {"/search"}, "keywords": {"dune"}})

	b.get("/search")
	assert.Equal(t, "keywords=dune&startIndex=0&numResultsToGet=10", env.backend.lastCallTo(pathSearch).Query)
}

func TestBookPage(t *testing.T) {
	env := setupTestRouter(t, nil)
	b := env.newBrowser(t)

	t.Run("missing id", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, b.get("/book").Code)
	})

	t.Run("unknown book", func(t *testing.T) {
		rr := b.get("/book?id=missing")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Book not found")
	})

	t.Run("back link follows the last list", func(t *testing.T) {
		b.get("/search?keywords=dune")
		rr := b.get("/book?id=OL1M")
		assert.Contains(t, rr.Body.String(), "Back to Search")
	})

	t.Run("anonymous visitors get no shelf buttons", func(t *testing.T) {
		rr := b.get("/book?id=OL1M")
		assert.NotContains(t, rr.Body.String(), "Add to Library")
	})

	t.Run("signed in visitors do", func(t *testing.T) {
		b.login()
		rr := b.get("/book?id=OL1M")
		assert.Contains(t, rr.Body.String(), "Add to Library")
		assert.Contains(t, rr.Body.String(), "Add to Wishlist")
	})
}

func TestRouter_ClientNotInitialized(t *testing.T) {
	router := NewRouter(RouterConfig{
		Registry:      api.NewRegistry(),
		LocalSessions: auth.NewMemorySessionManager(auth.LocalCookieName, true),
		TabSessions:   auth.NewMemorySessionManager(auth.TabCookieName, false),
	})

	b := &browser{t: t, handler: router, cookies: map[string]*http.Cookie{}}
	assert.Equal(t, http.StatusInternalServerError, b.get("/").Code)
}

func TestRouter_CSRF(t *testing.T) {
	env := setupTestRouter(t, []byte("test-secret-key-32-bytes-long!!!"))
	b := env.newBrowser(t)

	rr := b.post("/login", url.Values{"username": {testUser}, "password": {testPassword}})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, env.backend.callsTo("/api/v1/auth/authenticate"))

	rr = b.get("/login")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="gorilla.csrf.Token"`)
}

func TestSecurityHeadersApplied(t *testing.T) {
	env := setupTestRouter(t, nil)
	rr := env.newBrowser(t).get("/")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}
