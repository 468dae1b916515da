package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bookhub/internal/catalog"
	"bookhub/internal/config"
	"bookhub/internal/logging"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func main() {
	var (
		in         = flag.String("in", "data/books.json", "input path (.json or .csv)")
		format     = flag.String("format", "", "json or csv (default: from the file extension)")
		configPath = flag.String("config", "", "path to config.yaml")
	)
	flag.Parse()

	if err := run(*configPath, *in, *format); err != nil {
		logging.Fatal().Err(err).Str("path", *in).Msg("import books")
	}
}

func run(configPath, in, format string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	read, written, err := importBooks(ctx, cfg.Database.Path, in, format)
	if err != nil {
		return err
	}
	logging.Info().
		Int("read", read).
		Int("written", written).
		Str("path", in).
		Str("db", cfg.Database.Path).
		Msg("books imported")
	return nil
}

// importBooks upserts the books in path into the database at dbPath.
func importBooks(ctx context.Context, dbPath, path, format string) (read, written int, err error) {
	books, err := readBooks(path, format)
	if err != nil {
		return 0, 0, fmt.Errorf("read books: %w", err)
	}

	db, err := database.OpenAndMigrate(database.Config{Path: dbPath})
	if err != nil {
		return 0, 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	written, err = catalog.NewRepo(db).Upsert(ctx, books)
	if err != nil {
		return len(books), 0, fmt.Errorf("upsert books: %w", err)
	}
	return len(books), written, nil
}

func readBooks(path, format string) ([]models.Book, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "json":
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return catalog.LoadJSON(path)
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return catalog.ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
