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
		out        = flag.String("out", "data/books.csv", "output path (.csv or .json)")
		format     = flag.String("format", "", "csv or json (default: from the file extension)")
		configPath = flag.String("config", "", "path to config.yaml")
	)
	flag.Parse()

	if err := run(*configPath, *out, *format); err != nil {
		logging.Fatal().Err(err).Str("path", *out).Msg("export books")
	}
}

func run(configPath, out, format string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := exportBooks(ctx, cfg.Database.Path, out, format)
	if err != nil {
		return err
	}
	logging.Info().Int("books", n).Str("path", out).Msg("books exported")
	return nil
}

// exportBooks writes every book in the database at dbPath to path.
func exportBooks(ctx context.Context, dbPath, path, format string) (int, error) {
	db, err := database.OpenAndMigrate(database.Config{Path: dbPath})
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	books, err := catalog.NewRepo(db).All(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	if err := writeBooks(path, format, books); err != nil {
		return 0, fmt.Errorf("write books: %w", err)
	}
	return len(books), nil
}

func writeBooks(path, format string, books []models.Book) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if format != "csv" && format != "json" {
		return fmt.Errorf("unsupported format %q", format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == "json" {
		err = catalog.EncodeJSON(f, books)
	} else {
		err = catalog.WriteCSV(f, books)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
