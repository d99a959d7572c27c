package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mrlokans/mylib/internal/config"
)

// LoginCommand exchanges credentials for a token kept in the profile.
type LoginCommand struct {
	base
	Username string
}

func NewLoginCommand(cfg *config.Config) *LoginCommand {
	return &LoginCommand{base: newBase(cfg)}
}

func (cmd *LoginCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	fs.StringVar(&cmd.Username, "username", "", "Username (prompted if not specified)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s login [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Log in and keep the token in the local profile.\n")
		fmt.Fprintf(os.Stderr, "The password is read from the terminal without echo, or from stdin when piped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *LoginCommand) Run() error {
	return cmd.withProfile(func(ctx context.Context, p *Profile) error {
		username, password, err := readCredentials(NewPrompter(cmd.In, cmd.Out), cmd.Username)
		if err != nil {
			return err
		}
		return authenticate(ctx, p, cmd.Out, username, password)
	})
}

// SignUpCommand creates an account and logs in with it.
type SignUpCommand struct {
	base
	Username string
}

func NewSignUpCommand(cfg *config.Config) *SignUpCommand {
	return &SignUpCommand{base: newBase(cfg)}
}

func (cmd *SignUpCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	fs.StringVar(&cmd.Username, "username", "", "Username (prompted if not specified)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s signup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account and log in with it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (cmd *SignUpCommand) Run() error {
	return cmd.withProfile(func(ctx context.Context, p *Profile) error {
		username, password, err := readCredentials(NewPrompter(cmd.In, cmd.Out), cmd.Username)
		if err != nil {
			return err
		}

		status, err := p.Client.SignUp(ctx, username, password)
		if err != nil {
			return fmt.Errorf("sign up failed: %w", err)
		}
		if status == http.StatusConflict {
			return ErrUsernameTaken
		}
		fmt.Fprintf(cmd.Out, "Account %s created\n", username)

		return authenticate(ctx, p, cmd.Out, username, password)
	})
}

// LogoutCommand forgets the token and the list positions.
type LogoutCommand struct {
	base
}

func NewLogoutCommand(cfg *config.Config) *LogoutCommand {
	return &LogoutCommand{base: newBase(cfg)}
}

func (cmd *LogoutCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	return fs.Parse(args)
}

func (cmd *LogoutCommand) Run() error {
	return cmd.withProfile(func(_ context.Context, p *Profile) error {
		state := p.User.Logout()
		if err := p.Session.Clear(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		if state.IsAuthenticated {
			return fmt.Errorf("logout failed: credentials are still stored")
		}
		fmt.Fprintln(cmd.Out, "Logged out")
		return nil
	})
}

func readCredentials(prompt *Prompter, username string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = prompt.Line("Username: "); err != nil {
			return "", "", err
		}
	}
	password, err := prompt.Password("Password: ")
	if err != nil {
		return "", "", err
	}
	if username == "" || password == "" {
		return "", "", ErrMissingCredentials
	}
	return username, password, nil
}

func authenticate(ctx context.Context, p *Profile, out io.Writer, username, password string) error {
	status, err := p.Client.Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if status == http.StatusForbidden {
		return ErrBadCredentials
	}
	fmt.Fprintf(out, "Logged in as %s\n", p.User.State().Username)
	return nil
}
