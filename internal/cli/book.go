package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mrlokans/mylib/internal/api"
	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/views"
)

// BookCommand shows one book. Entering the book view keeps the list
// positions, so the next "list" continues where it was.
type BookCommand struct {
	base
	BookID string
}

func NewBookCommand(cfg *config.Config) *BookCommand {
	return &BookCommand{base: newBase(cfg)}
}

func (cmd *BookCommand) ParseFlags(args []string) error {
	id, rest := splitPositional(args)

	fs := flag.NewFlagSet("book", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s book <book-id>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the details of one book.\n")
	}
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return errors.New("book id is required")
	}
	cmd.BookID = id
	return nil
}

func (cmd *BookCommand) Run() error {
	return cmd.withProfile(func(ctx context.Context, p *Profile) error {
		p.Nav.Enter(views.Book)
		return showBook(ctx, p, cmd.Out, cmd.BookID)
	})
}

func showBook(ctx context.Context, p *Profile, out io.Writer, bookID string) error {
	book, err := p.Client.GetBookByID(ctx, bookID)
	if err != nil {
		if api.StatusCode(err) == http.StatusNotFound {
			return fmt.Errorf("book %s not found", bookID)
		}
		return errors.New(pagination.ErrorMessage(err))
	}
	printBook(out, book)
	return nil
}
