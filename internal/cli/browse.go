package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/tui"
	"github.com/mrlokans/mylib/internal/views"
)

// BrowseCommand opens the interactive terminal browser.
type BrowseCommand struct {
	base
	View string
}

func NewBrowseCommand(cfg *config.Config) *BrowseCommand {
	return &BrowseCommand{base: newBase(cfg), View: views.All}
}

func (cmd *BrowseCommand) ParseFlags(args []string) error {
	view, rest := splitPositional(args)

	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s browse [%s]\n\n", os.Args[0], strings.Join(views.Names(), "|"))
		fmt.Fprintf(os.Stderr, "Browse the book lists interactively.\n\n")
		fmt.Fprintf(os.Stderr, "Keys:\n")
		fmt.Fprintf(os.Stderr, "  n/p      next/previous page\n")
		fmt.Fprintf(os.Stderr, "  +/-      larger/smaller pages\n")
		fmt.Fprintf(os.Stderr, "  enter    book details (esc to go back)\n")
		fmt.Fprintf(os.Stderr, "  a/w      add to library/wishlist\n")
		fmt.Fprintf(os.Stderr, "  d        remove from the shelf\n")
		fmt.Fprintf(os.Stderr, "  /        search\n")
		fmt.Fprintf(os.Stderr, "  tab      switch list\n")
		fmt.Fprintf(os.Stderr, "  q        quit\n")
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
	if _, ok := views.Find(cmd.View); !ok {
		return fmt.Errorf("unknown list %q, expected one of %s", cmd.View, strings.Join(views.Names(), ", "))
	}
	return nil
}

func (cmd *BrowseCommand) Run() error {
	return cmd.withProfile(func(ctx context.Context, p *Profile) error {
		deps := tui.Deps{
			Client:  p.Client,
			Session: p.Session,
			User:    p.User,
			Nav:     p.Nav,
		}
		return tui.Run(ctx, deps, cmd.View)
	})
}
