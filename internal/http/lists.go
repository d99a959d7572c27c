package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/pagestate"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/views"
)

// lastListViewKey remembers the list the book page links back to.
const lastListViewKey = "last_list_view"

// ListController renders the paged book lists. Each request builds a fresh
// list, restores its position from tab storage, applies ?page= and ?size=
// and loads once.
type ListController struct{}

func NewListController() *ListController {
	return &ListController{}
}

func (controller *ListController) Show(view views.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := getRequestState(c)
		ctx := c.Request.Context()

		st.nav.Enter(view.Name)
		st.tab.Set(lastListViewKey, view.Name)
		opts, _ := st.nav.Options(view.Name)

		list := view.NewList(st.client)
		binding := pagestate.Bind(list, st.tab, opts)
		defer binding.Close()

		var keywords string
		var keywordsChanged bool
		if view.IsSearch() {
			given, isGiven := c.GetQuery("keywords")
			keywords, keywordsChanged = views.ResolveKeywords(st.tab, given, isGiven)
		}

		binding.Mount(func() {
			applyQueryPosition(c, list, keywordsChanged)
			view.Load(ctx, list, keywords)
		})

		if msg := (flash{store: st.tab}).take(); msg != "" {
			list.SetError(msg)
		}

		render(c, http.StatusOK, "list", listPageData(c, view, list, keywords))
	}
}

// applyQueryPosition moves the restored list to the requested position.
// A new page size or a new search starts over at page 1; an explicit ?page=
// wins over both.
func applyQueryPosition(c *gin.Context, list *views.BookList, restart bool) {
	page := list.CurrentPage()
	size := list.PageSize()
	if restart {
		page = 1
	}

	if s, err := strconv.Atoi(c.Query("size")); err == nil && pagination.ValidPageSize(s) && s != size {
		size = s
		page = 1
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		page = p
	}

	list.SetPagination(page, size)
}

func listPageData(c *gin.Context, view views.View, list *views.BookList, keywords string) gin.H {
	snap := list.Snapshot()

	books := []entities.Book{}
	var numResults, skipped int
	if snap.HasItems && snap.Items != nil {
		books = snap.Items.Books
		numResults = snap.Items.NumResults
		skipped = snap.Items.SkippedBooks
	}

	data := gin.H{
		"Title":        view.Title,
		"View":         view,
		"Books":        books,
		"NumResults":   numResults,
		"SkippedBooks": skipped,
		"CurrentPage":  snap.CurrentPage,
		"TotalPages":   snap.TotalPages,
		"PageSize":     snap.PageSize,
		"PageSizes":    pagination.PageSizes,
		"Error":        snap.Error,
		"Keywords":     keywords,
		"ReturnURL":    c.Request.URL.RequestURI(),
	}
	if snap.CurrentPage > 1 {
		data["PrevURL"] = pageURL(view.Path, snap.CurrentPage-1, keywords)
	}
	if snap.CurrentPage < snap.TotalPages {
		data["NextURL"] = pageURL(view.Path, snap.CurrentPage+1, keywords)
	}
	return data
}

func pageURL(path string, page int, keywords string) string {
	q := url.Values{}
	if keywords != "" {
		q.Set("keywords", keywords)
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}
