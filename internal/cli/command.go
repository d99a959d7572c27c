package cli

import (
	"context"
	"io"
	"os"

	"github.com/mrlokans/mylib/internal/config"
)

// base is embedded by every command that works on the local profile.
type base struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer
}

func newBase(cfg *config.Config) base {
	return base{Config: cfg, In: os.Stdin, Out: os.Stdout}
}

func (b *base) withProfile(fn func(ctx context.Context, p *Profile) error) error {
	ctx := context.Background()
	p, err := OpenProfile(ctx, b.Config)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(ctx, p)
}

// splitPositional lets a leading positional argument come before the flags,
// e.g. "list library -page 2".
func splitPositional(args []string) (string, []string) {
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		return args[0], args[1:]
	}
	return "", args
}
