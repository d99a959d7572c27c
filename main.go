package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/mylib/internal/cli"
	"github.com/mrlokans/mylib/internal/config"
	"github.com/mrlokans/mylib/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "login":
		cmd = cli.NewLoginCommand(config.NewConfig())
	case "signup":
		cmd = cli.NewSignUpCommand(config.NewConfig())
	case "logout":
		cmd = cli.NewLogoutCommand(config.NewConfig())
	case "list":
		cmd = cli.NewListCommand(config.NewConfig())
	case "book":
		cmd = cli.NewBookCommand(config.NewConfig())
	case "shelf":
		cmd = cli.NewShelfCommand(config.NewConfig())
	case "rate":
		cmd = cli.NewRateCommand(config.NewConfig())
	case "status":
		cmd = cli.NewStatusCommand(config.NewConfig())
	case "browse":
		cmd = cli.NewBrowseCommand(config.NewConfig())

	case "version":
		fmt.Printf("mylib %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve     Start the web frontend (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  login     Log in and keep the token in the local profile\n")
	fmt.Fprintf(os.Stderr, "  signup    Create an account and log in\n")
	fmt.Fprintf(os.Stderr, "  logout    Forget the token and the list positions\n")
	fmt.Fprintf(os.Stderr, "  list      Print one page of all|library|wishlist|search\n")
	fmt.Fprintf(os.Stderr, "  book      Show the details of one book\n")
	fmt.Fprintf(os.Stderr, "  shelf     Add a book to or remove it from the library or wishlist\n")
	fmt.Fprintf(os.Stderr, "  rate      Rate a book in your library\n")
	fmt.Fprintf(os.Stderr, "  status    Set the reading status of a book in your library\n")
	fmt.Fprintf(os.Stderr, "  browse    Browse the lists interactively\n")
	fmt.Fprintf(os.Stderr, "  version   Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
