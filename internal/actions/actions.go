// Package actions runs the book mutations a list or detail view offers and
// refreshes the view afterwards. Failures end up in the view's error field
// instead of being returned.
package actions

import (
	"context"

	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/pagination"
)

// Mutations is the subset of the API client the dispatcher calls.
type Mutations interface {
	AddBookToLibrary(ctx context.Context, bookID string) error
	AddBookToWishlist(ctx context.Context, bookID string) error
	DeleteBookFromLibrary(ctx context.Context, bookID string) error
	DeleteBookFromWishlist(ctx context.Context, bookID string) error
	UpdateRating(ctx context.Context, bookID string, rating int) error
	UpdateStatus(ctx context.Context, bookID string, status entities.ReadingStatus) error
}

// ErrorTarget receives the outcome of each action.
type ErrorTarget interface {
	SetError(msg string)
	ClearError()
}

// ReloadFunc refreshes the view. args holds the keywords when a keyword
// provider is configured and is empty otherwise.
type ReloadFunc func(ctx context.Context, args ...string) error

type Dispatcher struct {
	mutations Mutations
	target    ErrorTarget
	reload    ReloadFunc
	keywords  func() string
}

// New builds a dispatcher. keywords may be nil.
func New(m Mutations, target ErrorTarget, reload ReloadFunc, keywords func() string) *Dispatcher {
	return &Dispatcher{mutations: m, target: target, reload: reload, keywords: keywords}
}

func (d *Dispatcher) OnAddToLibrary(ctx context.Context, bookID string) {
	d.run(ctx, func() error { return d.mutations.AddBookToLibrary(ctx, bookID) })
}

func (d *Dispatcher) OnAddToWishlist(ctx context.Context, bookID string) {
	d.run(ctx, func() error { return d.mutations.AddBookToWishlist(ctx, bookID) })
}

func (d *Dispatcher) OnDeleteFromLibrary(ctx context.Context, bookID string) {
	d.run(ctx, func() error { return d.mutations.DeleteBookFromLibrary(ctx, bookID) })
}

func (d *Dispatcher) OnDeleteFromWishlist(ctx context.Context, bookID string) {
	d.run(ctx, func() error { return d.mutations.DeleteBookFromWishlist(ctx, bookID) })
}

func (d *Dispatcher) OnRate(ctx context.Context, bookID string, rating int) {
	d.run(ctx, func() error { return d.mutations.UpdateRating(ctx, bookID, rating) })
}

func (d *Dispatcher) OnSetStatus(ctx context.Context, bookID string, status entities.ReadingStatus) {
	d.run(ctx, func() error { return d.mutations.UpdateStatus(ctx, bookID, status) })
}

// run clears the error, performs the mutation and reloads. A failed reload is
// reported the same way as a failed mutation.
func (d *Dispatcher) run(ctx context.Context, mutate func() error) {
	d.target.ClearError()

	if err := mutate(); err != nil {
		d.target.SetError(pagination.ErrorMessage(err))
		return
	}

	var args []string
	if d.keywords != nil {
		args = append(args, d.keywords())
	}
	if d.reload == nil {
		return
	}
	if err := d.reload(ctx, args...); err != nil {
		d.target.SetError(pagination.ErrorMessage(err))
	}
}

// ReloadList reloads l in place; load errors land in l itself.
func ReloadList[R pagination.Counted](l *pagination.List[R, string]) ReloadFunc {
	return func(ctx context.Context, args ...string) error {
		l.Load(ctx, args...)
		return nil
	}
}
