package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"puzdesk/internal/app"
	"puzdesk/internal/db"
	"puzdesk/internal/puz"
	"puzdesk/sql/schema"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// seed imports the built-in sample puzzle plus any .puz files named on the
// command line.
func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "puzdesk.db"
	}

	dbConn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		log.Fatal(err)
	}
	defer dbConn.Close()

	goose.SetBaseFS(schema.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal(err)
	}
	if err := goose.Up(dbConn, "."); err != nil {
		log.Fatal(err)
	}

	queries := db.New(dbConn)
	service := app.NewService(queries, dbConn, zap.NewNop())
	defer service.Shutdown()
	ctx := context.Background()

	sample, err := puz.Build(puz.Sample())
	if err != nil {
		log.Fatal(err)
	}
	data, err := sample.MarshalBinary()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Seeding puzzles...")
	importOne(ctx, service, "sample.puz", data)

	for _, path := range os.Args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", path, err)
			continue
		}
		importOne(ctx, service, filepath.Base(path), data)
	}

	fmt.Println("\nSeeding complete!")
	fmt.Println("Use this link to browse once the server is running:")
	fmt.Println("- http://localhost:8080/puzzles")
}

func importOne(ctx context.Context, service *app.Service, name string, data []byte) {
	created, err := service.ImportPuzzle(ctx, name, bytes.NewReader(data))
	var dup *app.DuplicateError
	switch {
	case errors.As(err, &dup):
		fmt.Printf("Puzzle %s already exists (ID: %s)\n", name, dup.ID)
	case err != nil:
		fmt.Printf("Error importing %s: %v\n", name, err)
	default:
		fmt.Printf("Imported puzzle: %s (ID: %s)\n", created.Title, created.ID)
	}
}
