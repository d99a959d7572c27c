package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/views"
)

type BookController struct{}

func NewBookController() *BookController {
	return &BookController{}
}

// Show renders /book?id=. Entering the book page keeps the list positions, so
// the back link returns to the same page of the list the visitor came from.
func (controller *BookController) Show(c *gin.Context) {
	st := getRequestState(c)
	st.nav.Enter(views.Book)

	back := views.Lists[0]
	if name, ok := st.tab.Get(lastListViewKey); ok {
		if v, found := views.Find(name); found {
			back = v
		}
	}

	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.String(http.StatusBadRequest, "Missing book ID")
		return
	}

	data := gin.H{
		"Title":     "Book",
		"Back":      back,
		"ReturnURL": c.Request.URL.RequestURI(),
	}
	if msg := (flash{store: st.tab}).take(); msg != "" {
		data["Error"] = msg
	}

	book, err := st.client.GetBookByID(c.Request.Context(), id)
	if err != nil {
		data["Error"] = pagination.ErrorMessage(err)
		status := http.StatusBadGateway
		if api.StatusCode(err) == http.StatusNotFound {
			status = http.StatusNotFound
		}
		render(c, status, "book", data)
		return
	}

	data["Book"] = *book
	data["Title"] = book.Title
	render(c, http.StatusOK, "book", data)
}
