package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bookhub/pkg/models"
)

var csvHeader = []string{"id", "title", "author", "genre", "year", "bestseller", "description", "rating"}

// ReadCSV parses books from a CSV with a header row. Columns are matched by
// name in any order; rows without id or title are skipped.
func ReadCSV(in io.Reader) ([]models.Book, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var out []models.Book
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(row) == 0 {
			continue
		}

		idRaw := valueAt(header, row, "id")
		title := valueAt(header, row, "title")
		if idRaw == "" || title == "" {
			continue
		}
		id, err := strconv.Atoi(idRaw)
		if err != nil {
			return nil, fmt.Errorf("parse id on line %d: %w", line, err)
		}
		year, err := parseInt(valueAt(header, row, "year"))
		if err != nil {
			return nil, fmt.Errorf("parse year for %d: %w", id, err)
		}
		rating, err := parseFloat(valueAt(header, row, "rating"))
		if err != nil {
			return nil, fmt.Errorf("parse rating for %d: %w", id, err)
		}
		bestseller, err := parseBool(valueAt(header, row, "bestseller"))
		if err != nil {
			return nil, fmt.Errorf("parse bestseller for %d: %w", id, err)
		}

		out = append(out, models.Book{
			ID:          id,
			Title:       title,
			Author:      valueAt(header, row, "author"),
			Genre:       valueAt(header, row, "genre"),
			Year:        year,
			Bestseller:  bestseller,
			Description: valueAt(header, row, "description"),
			Rating:      rating,
		})
	}
	return out, nil
}

func WriteCSV(out io.Writer, books []models.Book) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range books {
		if err := w.Write([]string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			b.Genre,
			strconv.Itoa(b.Year),
			strconv.FormatBool(b.Bestseller),
			b.Description,
			strconv.FormatFloat(b.Rating, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "0", "false", "não", "nao", "no":
		return false, nil
	case "1", "true", "sim", "yes":
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}
