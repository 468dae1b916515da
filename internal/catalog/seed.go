package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goccy/go-json"

	"bookhub/pkg/models"
)

type seedDocument struct {
	Books []models.Book `json:"books"`
}

// LoadJSON reads a {"books": [...]} document. A missing file is an empty
// catalog.
func LoadJSON(path string) ([]models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Book{}, nil
		}
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return DecodeJSON(f)
}

func DecodeJSON(r io.Reader) ([]models.Book, error) {
	var doc seedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if doc.Books == nil {
		doc.Books = []models.Book{}
	}
	return doc.Books, nil
}

func EncodeJSON(w io.Writer, books []models.Book) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(seedDocument{Books: books}); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	return nil
}
