package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/pagestate"
	"github.com/mrlokans/mylib/internal/pagination"
	"github.com/mrlokans/mylib/internal/views"
)

// ListCommand prints one page of a book list. The position is kept in the
// profile's session scope, so "list library -next" continues from the last
// page shown.
type ListCommand struct {
	base
	View     string
	Keywords string
	Page     int
	Size     int
	Next     bool
	Prev     bool

	keywordsGiven bool
}

func NewListCommand(cfg *config.Config) *ListCommand {
	return &ListCommand{base: newBase(cfg), View: views.All}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	view, rest := splitPositional(args)

	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.StringVar(&cmd.Keywords, "keywords", "", "Search keywords (search view only, defaults to the last search)")
	fs.IntVar(&cmd.Page, "page", 0, "Page to show")
	fs.IntVar(&cmd.Size, "size", 0, fmt.Sprintf("Page size, one of %v", pagination.PageSizes))
	fs.BoolVar(&cmd.Next, "next", false, "Show the page after the last one shown")
	fs.BoolVar(&cmd.Prev, "prev", false, "Show the page before the last one shown")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list <%s> [options]\n\n", os.Args[0], strings.Join(views.Names(), "|"))
		fmt.Fprintf(os.Stderr, "Print one page of a book list.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list search -keywords \"dune messiah\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list library -size 25\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list library -next\n", os.Args[0])
	}

	if err := fs.Parse(rest); err != nil {
		return err
	}
	if view == "" && fs.NArg() > 0 {
		view = fs.Arg(0)
	}
	if view != "" {
		cmd.View = view
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "keywords" {
			cmd.keywordsGiven = true
		}
	})

	if cmd.Next && cmd.Prev {
		return errors.New("-next and -prev are mutually exclusive")
	}
	if cmd.Size != 0 && !pagination.ValidPageSize(cmd.Size) {
		return fmt.Errorf("%w: %d", pagination.ErrInvalidPageSize, cmd.Size)
	}
	return nil
}

func (cmd *ListCommand) Run() error {
	view, ok := views.Find(cmd.View)
	if !ok {
		return fmt.Errorf("unknown list %q, expected one of %s", cmd.View, strings.Join(views.Names(), ", "))
	}

	return cmd.withProfile(func(ctx context.Context, p *Profile) error {
		if view.RequireLogin {
			if err := p.requireLogin(); err != nil {
				return err
			}
		}

		p.Nav.Enter(view.Name)
		opts, _ := p.Nav.Options(view.Name)

		list := view.NewList(p.Client)
		binding := pagestate.Bind(list, p.Session, opts)
		defer binding.Close()

		var keywords string
		var restart bool
		if view.IsSearch() {
			keywords, restart = views.ResolveKeywords(p.Session, cmd.Keywords, cmd.keywordsGiven)
		}

		binding.Mount(func() {
			cmd.applyPosition(list, restart)
			view.Load(ctx, list, keywords)
		})

		if msg := list.Error(); msg != "" {
			return errors.New(msg)
		}

		switch {
		case cmd.Next:
			list.NextPage(ctx)
		case cmd.Prev:
			list.PrevPage(ctx)
		}

		snap := list.Snapshot()
		if snap.Error != "" {
			return errors.New(snap.Error)
		}
		printBookList(cmd.Out, view, snap, keywords)
		return nil
	})
}

func (cmd *ListCommand) applyPosition(list *views.BookList, restart bool) {
	page := list.CurrentPage()
	size := list.PageSize()
	if restart {
		page = 1
	}
	if cmd.Size != 0 && cmd.Size != size {
		size = cmd.Size
		page = 1
	}
	if cmd.Page != 0 {
		page = cmd.Page
	}
	list.SetPagination(page, size)
}
