package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the catalog UI
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		entrypoint.RunUI(config.NewConfig(), Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "backend":
		entrypoint.RunBackend(config.NewConfig(), Version)
		return

	case "list":
		cmd = cli.NewListCommand()

	case "add":
		cmd = cli.NewAddCommand()

	case "-h", "--help", "help":
		printUsage()
		return

	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)
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
	fmt.Fprintf(os.Stderr, "  serve     Start the catalog UI (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  backend   Start the REST book service\n")
	fmt.Fprintf(os.Stderr, "  list      Print a page of the catalog\n")
	fmt.Fprintf(os.Stderr, "  add       Add a book\n")
	fmt.Fprintf(os.Stderr, "  version   Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
