package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/bookstore"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
	"github.com/mrlokans/bookshelf/internal/search"
)

// ListCommand prints one page of the catalog, optionally filtered.
type ListCommand struct {
	APIURL   string
	Query    string
	Page     int
	PageSize int
	Timeout  int

	Out io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{Out: os.Stdout}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	fs.StringVar(&cmd.APIURL, "api", cfg.BooksAPI.URL, "Base URL of the book service")
	fs.StringVar(&cmd.Query, "q", "", "Only show books whose title or author contains this text")
	fs.IntVar(&cmd.Page, "page", 1, "Page to show")
	fs.IntVar(&cmd.PageSize, "page-size", cfg.Catalog.PageSize, "Books per page")
	fs.IntVar(&cmd.Timeout, "timeout", 10, "Request timeout in seconds")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a page of the book catalog.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list -q dune\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list -page 2 -page-size 10\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Page < 1 {
		return fmt.Errorf("-page must be at least 1")
	}
	return nil
}

func (cmd *ListCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutSeconds(cmd.Timeout))
	defer cancel()

	store := bookstore.New(booksapi.NewClient(cmd.APIURL, timeoutSeconds(cmd.Timeout)), 0)
	books, err := store.FetchAll(ctx)
	if err != nil {
		return err
	}

	p := pagination.New[entities.Book](cmd.PageSize)
	p.SetData(search.Filter(cmd.Query, books))
	p.SetPage(cmd.Page)

	items := p.Items()
	if len(items) == 0 {
		fmt.Fprintln(cmd.Out, "No books found")
	}
	first := (p.CurrentPage()-1)*p.PageSize() + 1
	for i, book := range items {
		fmt.Fprintf(cmd.Out, "%d. \"%s\" by %s [%s]\n", first+i, book.Title, book.Author, book.ID)
	}
	fmt.Fprintf(cmd.Out, "\nPAGE %d OF %d\n", p.CurrentPage(), p.DisplayTotalPages())
	return nil
}
