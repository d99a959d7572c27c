package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylib/internal/actions"
	"github.com/mrlokans/mylib/internal/auth"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/views"
)

// ActionsController handles the book mutation forms. Every form posts a
// return path and, from the search page, the keywords; the response is a
// redirect back, with any failure carried over as a flash message.
type ActionsController struct{}

func NewActionsController() *ActionsController {
	return &ActionsController{}
}

func (controller *ActionsController) AddToLibrary(c *gin.Context) {
	controller.dispatch(c, func(ctx context.Context, d *actions.Dispatcher, bookID string) {
		d.OnAddToLibrary(ctx, bookID)
	})
}

func (controller *ActionsController) AddToWishlist(c *gin.Context) {
	controller.dispatch(c, func(ctx context.Context, d *actions.Dispatcher, bookID string) {
		d.OnAddToWishlist(ctx, bookID)
	})
}

func (controller *ActionsController) DeleteFromLibrary(c *gin.Context) {
	controller.dispatch(c, func(ctx context.Context, d *actions.Dispatcher, bookID string) {
		d.OnDeleteFromLibrary(ctx, bookID)
	})
}

func (controller *ActionsController) DeleteFromWishlist(c *gin.Context) {
	controller.dispatch(c, func(ctx context.Context, d *actions.Dispatcher, bookID string) {
		d.OnDeleteFromWishlist(ctx, bookID)
	})
}

func (controller *ActionsController) Rate(c *gin.Context) {
	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < 1 || rating > 5 {
		controller.reject(c, "Rating must be a number from 1 to 5")
		return
	}
	controller.dispatch(c, func(ctx context.Context, d *actions.Dispatcher, bookID string) {
		d.OnRate(ctx, bookID, rating)
	})
}

func (controller *ActionsController) SetStatus(c *gin.Context) {
	status, err := entities.ParseReadingStatus(c.PostForm("status"))
	if err != nil {
		controller.reject(c, "Invalid reading status")
		return
	}
	controller.dispatch(c, func(ctx context.Context, d *actions.Dispatcher, bookID string) {
		d.OnSetStatus(ctx, bookID, status)
	})
}

func (controller *ActionsController) dispatch(c *gin.Context, act func(context.Context, *actions.Dispatcher, string)) {
	st := getRequestState(c)

	var keywords func() string
	if kw := strings.TrimSpace(c.PostForm("keywords")); kw != "" {
		keywords = func() string { return kw }
	}

	// The redirect is the reload. Keep the keywords so the search page
	// shows the same results.
	reload := func(_ context.Context, args ...string) error {
		if len(args) > 0 && args[0] != "" {
			st.tab.Set(views.SearchKeywordsKey, args[0])
		}
		return nil
	}

	d := actions.New(st.client, flash{store: st.tab}, reload, keywords)
	act(c.Request.Context(), d, c.Param("id"))

	c.Redirect(http.StatusSeeOther, auth.SanitizeRedirectPath(c.PostForm("return")))
}

func (controller *ActionsController) reject(c *gin.Context, msg string) {
	st := getRequestState(c)
	flash{store: st.tab}.SetError(msg)
	c.Redirect(http.StatusSeeOther, auth.SanitizeRedirectPath(c.PostForm("return")))
}
