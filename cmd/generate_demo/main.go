// Command generate_demo creates a demo book service database with enough
// public domain books to page through.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// Raw input on purpose: every entry goes through the same normalization as the UI form.
var publicDomainBooks = [][2]string{
	{"pride and prejudice", "jane austen"},
	{"emma", "jane austen"},
	{"moby dick", "herman melville"},
	{"bartleby, the scrivener", "herman melville"},
	{"frankenstein", "mary shelley"},
	{"dracula", "bram stoker"},
	{"the picture of dorian gray", "oscar wilde"},
	{"the importance of being earnest", "oscar wilde"},
	{"great expectations", "charles dickens"},
	{"a tale of two cities", "charles dickens"},
	{"the adventures of sherlock holmes", "arthur conan doyle"},
	{"the hound of the baskervilles", "arthur conan doyle"},
	{"war and peace", "leo tolstoy"},
	{"anna karenina", "leo tolstoy"},
	{"crime and punishment", "fyodor dostoevsky"},
	{"the brothers karamazov", "fyodor dostoevsky"},
	{"meditations", "marcus aurelius"},
	{"the odyssey", "homer"},
	{"don quixote", "miguel de cervantes"},
	{"the time machine", "h. g. wells"},
	{"the war of the worlds", "h. g. wells"},
	{"walden", "henry david thoreau"},
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	books := make([]entities.Book, 0, len(publicDomainBooks))
	for _, raw := range publicDomainBooks {
		book, err := catalog.NewBook(raw[0], raw[1])
		if err != nil {
			log.Printf("Skipping %q: %v", raw[0], err)
			continue
		}
		books = append(books, book)
	}

	if err := db.ReplaceAll(books); err != nil {
		log.Fatalf("Failed to save books: %v", err)
	}
	for _, book := range books {
		log.Printf("Saved: %s by %s", book.Title, book.Author)
	}

	log.Println("Demo database generated successfully!")
}
