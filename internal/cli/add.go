package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
)

// AddCommand validates, normalizes and creates a single book.
type AddCommand struct {
	APIURL  string
	Title   string
	Author  string
	Timeout int

	Out io.Writer
}

func NewAddCommand() *AddCommand {
	return &AddCommand{Out: os.Stdout}
}

func (cmd *AddCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	fs.StringVar(&cmd.APIURL, "api", cfg.BooksAPI.URL, "Base URL of the book service")
	fs.StringVar(&cmd.Title, "title", "", "Book title (required)")
	fs.StringVar(&cmd.Author, "author", "", "Author name (required)")
	fs.IntVar(&cmd.Timeout, "timeout", 10, "Request timeout in seconds")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add -title <title> -author <author> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a book. Title and author are title-cased before saving.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s add -title \"the left hand of darkness\" -author \"ursula k. le guin\"\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *AddCommand) Run() error {
	book, err := catalog.NewBook(cmd.Title, cmd.Author)
	if err != nil {
		var verrs catalog.ValidationErrors
		if errors.As(err, &verrs) {
			for _, field := range []string{catalog.FieldTitle, catalog.FieldAuthor} {
				if msg := verrs.Message(field); msg != "" {
					fmt.Fprintln(cmd.Out, msg)
				}
			}
		}
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutSeconds(cmd.Timeout))
	defer cancel()

	store := bookstore.New(booksapi.NewClient(cmd.APIURL, timeoutSeconds(cmd.Timeout)), 0)
	store.AddLocal(book)
	if err := store.AddRemote(ctx, book); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Added \"%s\" by %s [%s]\n", book.Title, book.Author, book.ID)
	return nil
}

func timeoutSeconds(seconds int) time.Duration {
	if seconds <= 0 {
		return booksapi.DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
