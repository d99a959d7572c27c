package http

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/auth"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

var ratings = []int{1, 2, 3, 4, 5}

func loadTemplates() *template.Template {
	funcMap := template.FuncMap{
		"ratings":     func() []int { return ratings },
		"statuses":    func() []entities.ReadingStatus { return entities.ReadingStatuses },
		"bookActions": newBookActions,
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))
}

// bookActions is the input of the "book-actions" template.
type bookActions struct {
	Book      entities.Book
	Auth      bool
	CSRFField template.HTML
	ReturnURL string
	Keywords  string
}

func newBookActions(book entities.Book, page gin.H) bookActions {
	a := bookActions{Book: book}
	a.Auth, _ = page["IsAuthenticated"].(bool)
	a.CSRFField, _ = page["CSRFField"].(template.HTML)
	a.ReturnURL, _ = page["ReturnURL"].(string)
	a.Keywords, _ = page["Keywords"].(string)
	return a
}

// render adds what every page needs (navigation, signed-in user, CSRF
// field) to data.
func render(c *gin.Context, status int, name string, data gin.H) {
	st := getRequestState(c)
	state := st.session.State()

	data["Nav"] = views.Lists
	data["IsAuthenticated"] = state.IsAuthenticated
	data["Username"] = state.Username
	data["CSRFField"] = auth.CSRFTokenField(c)

	c.HTML(status, name, data)
}
