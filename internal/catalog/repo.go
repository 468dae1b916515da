package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bookhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q          string // keyword search in title/author
	Genre      string
	Author     string
	Year       int
	Bestseller *bool
	Limit      int
	Offset     int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const bookColumns = `id, title, author, genre, year, bestseller, description, rating`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(s rowScanner) (models.Book, error) {
	var (
		b           models.Book
		bestseller  int
		description sql.NullString
	)
	if err := s.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year, &bestseller, &description, &b.Rating); err != nil {
		return models.Book{}, err
	}
	b.Bestseller = bestseller != 0
	b.Description = description.String
	return b, nil
}

func (r *Repo) GetByID(ctx context.Context, id int) (*models.Book, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return &b, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Book, error) {
	sqlStr, args := buildListSQL(q, false)
	return r.query(ctx, sqlStr, args...)
}

// All returns every book in id order. This is the order the in-memory
// snapshot treats as catalog order.
func (r *Repo) All(ctx context.Context) ([]models.Book, error) {
	return r.query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id ASC`)
}

func (r *Repo) query(ctx context.Context, sqlStr string, args ...any) ([]models.Book, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Upsert inserts or updates books by id in a single transaction and returns
// how many rows were written.
func (r *Repo) Upsert(ctx context.Context, books []models.Book) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, author, genre, year, bestseller, description, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  author = excluded.author,
		  genre = excluded.genre,
		  year = excluded.year,
		  bestseller = excluded.bestseller,
		  description = excluded.description,
		  rating = excluded.rating,
		  updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, b := range books {
		if b.ID <= 0 || strings.TrimSpace(b.Title) == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			b.ID, b.Title, b.Author, b.Genre, b.Year, boolInt(b.Bestseller), b.Description, b.Rating,
		); err != nil {
			return 0, fmt.Errorf("upsert book %d: %w", b.ID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return n, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + bookColumns + ` FROM books`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM books`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)")
		like := "%" + strings.ToLower(kw) + "%"
		args = append(args, like, like)
	}
	if g := strings.TrimSpace(q.Genre); g != "" {
		where = append(where, "genre = ? COLLATE NOCASE")
		args = append(args, g)
	}
	if a := strings.TrimSpace(q.Author); a != "" {
		where = append(where, "LOWER(author) LIKE ?")
		args = append(args, "%"+strings.ToLower(a)+"%")
	}
	if q.Year != 0 {
		where = append(where, "year = ?")
		args = append(args, q.Year)
	}
	if q.Bestseller != nil {
		where = append(where, "bestseller = ?")
		args = append(args, boolInt(*q.Bestseller))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY rating DESC, title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, clampLimit(q.Limit), max(q.Offset, 0))
	}

	return sqlStr, args
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
