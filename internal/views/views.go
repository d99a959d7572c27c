// Package views names the book lists every frontend offers and wires each to
// its fetcher and its pagination storage key.
package views

import (
	"context"
	"strings"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/pagestate"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/storage"
)

// View names, also used as navigator names.
const (
	All      = "all"
	Library  = "library"
	Wishlist = "wishlist"
	Search   = "search"
	Book     = pagestate.DefaultDetailRoute
)

// SearchKeywordsKey holds the last search of the session.
const SearchKeywordsKey = "search_keywords"

type (
	Fetch    = pagination.Fetch[*entities.BookList, string]
	BookList = pagination.List[*entities.BookList, string]
)

// View describes one paged book list.
type View struct {
	Name         string
	Path         string
	Title        string
	RequireLogin bool
	fetch        func(*api.Client) Fetch
}

var Lists = []View{
	{
		Name:  All,
		Path:  "/",
		Title: "All Books",
		fetch: func(c *api.Client) Fetch { return c.AllBooksPage },
	},
	{
		Name:         Library,
		Path:         "/library",
		Title:        "My Library",
		RequireLogin: true,
		fetch:        func(c *api.Client) Fetch { return c.LibraryPage },
	},
	{
		Name:         Wishlist,
		Path:         "/wishlist",
		Title:        "My Wishlist",
		RequireLogin: true,
		fetch:        func(c *api.Client) Fetch { return c.WishlistPage },
	},
	{
		Name:  Search,
		Path:  "/search",
		Title: "Search",
		fetch: func(c *api.Client) Fetch { return c.SearchPage },
	},
}

func Find(name string) (View, bool) {
	for _, v := range Lists {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

func Names() []string {
	names := make([]string, len(Lists))
	for i, v := range Lists {
		names[i] = v.Name
	}
	return names
}

func PaginationKey(view string) string {
	return "pagination_" + view
}

func (v View) PaginationKey() string {
	return PaginationKey(v.Name)
}

func (v View) IsSearch() bool {
	return v.Name == Search
}

// NewList builds an empty list over the view's fetcher.
func (v View) NewList(c *api.Client, opts ...pagination.Option) *BookList {
	opts = append([]pagination.Option{pagination.WithPlaceholder(entities.EmptyBookList)}, opts...)
	return pagination.New(v.fetch(c), opts...)
}

// Load fetches the list's current page. A search without keywords shows the
// empty placeholder instead of asking the backend. A page past the end, e.g.
// from a stale link or a stored position, is moved back to the last page.
func (v View) Load(ctx context.Context, list *BookList, keywords string) {
	switch {
	case !v.IsSearch():
		list.Load(ctx)
	case strings.TrimSpace(keywords) == "":
		list.ResetEmpty()
		return
	default:
		list.Load(ctx, keywords)
	}

	if list.Error() != "" {
		return
	}
	if last := list.TotalPages(); list.CurrentPage() > last {
		list.SetPagination(last, list.PageSize())
		list.Load(ctx)
	}
}

// ResolveKeywords applies the keywords a user gave, if any, and falls back to
// the last search kept in store. changed reports a new search, which should
// start at page 1.
func ResolveKeywords(store storage.Store, given string, isGiven bool) (keywords string, changed bool) {
	previous, _ := store.Get(SearchKeywordsKey)
	if !isGiven {
		return previous, false
	}

	keywords = strings.TrimSpace(given)
	if keywords == "" {
		store.Remove(SearchKeywordsKey)
	} else {
		store.Set(SearchKeywordsKey, keywords)
	}
	return keywords, keywords != previous
}

// NavigatorOptions gives every list its own key. Leaving any list for
// anything but the book view forgets all list positions.
func NavigatorOptions() map[string]pagestate.Options {
	keys := make([]string, 0, len(Lists))
	for _, v := range Lists {
		keys = append(keys, v.PaginationKey())
	}

	opts := make(map[string]pagestate.Options, len(Lists))
	for _, v := range Lists {
		opts[v.Name] = pagestate.Options{
			Key:         v.PaginationKey(),
			CleanupKeys: keys,
		}
	}
	return opts
}
