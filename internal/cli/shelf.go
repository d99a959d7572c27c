package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/mrlokans/mylib/internal/actions"
	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/views"
)

// errorSink collects the dispatcher's outcome for a one-shot command.
type errorSink struct {
	msg string
}

func (s *errorSink) SetError(msg string) { s.msg = msg }
func (s *errorSink) ClearError()         { s.msg = "" }

func (s *errorSink) err() error {
	if s.msg == "" {
		return nil
	}
	return errors.New(s.msg)
}

// runAction performs one mutation through the dispatcher and prints the
// refreshed book on success.
func (b *base) runAction(bookID string, act func(ctx context.Context, d *actions.Dispatcher)) error {
	return b.withProfile(func(ctx context.Context, p *Profile) error {
		if err := p.requireLogin(); err != nil {
			return err
		}
		p.Nav.Enter(views.Book)

		sink := &errorSink{}
		reload := func(ctx context.Context, _ ...string) error {
			return showBook(ctx, p, b.Out, bookID)
		}
		act(ctx, actions.New(p.Client, sink, reload, nil))
		return sink.err()
	})
}

// ShelfCommand adds a book to or removes it from the library or the wishlist.
type ShelfCommand struct {
	base
	Op     string
	Shelf  string
	BookID string
}

func NewShelfCommand(cfg *config.Config) *ShelfCommand {
	return &ShelfCommand{base: newBase(cfg)}
}

func (cmd *ShelfCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("shelf", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s shelf <add|remove> <library|wishlist> <book-id>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a book to a shelf or remove it from one.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return errors.New("expected an operation, a shelf and a book id")
	}
	cmd.Op, cmd.Shelf, cmd.BookID = fs.Arg(0), fs.Arg(1), fs.Arg(2)

	if cmd.Op != "add" && cmd.Op != "remove" {
		return fmt.Errorf("unknown operation %q, expected add or remove", cmd.Op)
	}
	if cmd.Shelf != views.Library && cmd.Shelf != views.Wishlist {
		return fmt.Errorf("unknown shelf %q, expected library or wishlist", cmd.Shelf)
	}
	return nil
}

func (cmd *ShelfCommand) Run() error {
	return cmd.runAction(cmd.BookID, func(ctx context.Context, d *actions.Dispatcher) {
		switch {
		case cmd.Op == "add" && cmd.Shelf == views.Library:
			d.OnAddToLibrary(ctx, cmd.BookID)
		case cmd.Op == "add":
			d.OnAddToWishlist(ctx, cmd.BookID)
		case cmd.Shelf == views.Library:
			d.OnDeleteFromLibrary(ctx, cmd.BookID)
		default:
			d.OnDeleteFromWishlist(ctx, cmd.BookID)
		}
	})
}

// RateCommand sets the user's rating of a library book.
type RateCommand struct {
	base
	BookID string
	Rating int
}

func NewRateCommand(cfg *config.Config) *RateCommand {
	return &RateCommand{base: newBase(cfg)}
}

func (cmd *RateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s rate <book-id> <1-5>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rate a book in your library.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("expected a book id and a rating")
	}

	rating, err := strconv.Atoi(fs.Arg(1))
	if err != nil || rating < 1 || rating > 5 {
		return errors.New("rating must be a number from 1 to 5")
	}
	cmd.BookID, cmd.Rating = fs.Arg(0), rating
	return nil
}

func (cmd *RateCommand) Run() error {
	return cmd.runAction(cmd.BookID, func(ctx context.Context, d *actions.Dispatcher) {
		d.OnRate(ctx, cmd.BookID, cmd.Rating)
	})
}

// StatusCommand sets the reading status of a library book.
type StatusCommand struct {
	base
	BookID string
	Status entities.ReadingStatus
}

func NewStatusCommand(cfg *config.Config) *StatusCommand {
	return &StatusCommand{base: newBase(cfg)}
}

func (cmd *StatusCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s status <book-id> <unread|reading|read>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Set the reading status of a book in your library.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("expected a book id and a status")
	}

	status, err := entities.ParseReadingStatus(fs.Arg(1))
	if err != nil {
		return err
	}
	cmd.BookID, cmd.Status = fs.Arg(0), status
	return nil
}

func (cmd *StatusCommand) Run() error {
	return cmd.runAction(cmd.BookID, func(ctx context.Context, d *actions.Dispatcher) {
		d.OnSetStatus(ctx, cmd.BookID, cmd.Status)
	})
}
