// Package catalog stores books in SQLite and serves them to the
// recommendation engine from an immutable in-memory snapshot.
package catalog

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"bookhub/internal/metrics"
	"bookhub/internal/recommend"
	"bookhub/pkg/models"
)

var (
	_ recommend.Catalog = (*Snapshot)(nil)
	_ recommend.Catalog = (*Live)(nil)
)

// Snapshot is an immutable, ordered set of books. Lookups return fresh
// slices the caller may modify.
type Snapshot struct {
	books []models.Book
	byID  map[int]int
}

func NewSnapshot(books []models.Book) *Snapshot {
	s := &Snapshot{
		books: slices.Clone(books),
		byID:  make(map[int]int, len(books)),
	}
	for i, b := range s.books {
		if _, dup := s.byID[b.ID]; !dup {
			s.byID[b.ID] = i
		}
	}
	return s
}

func (s *Snapshot) Len() int {
	return len(s.books)
}

func (s *Snapshot) All() []models.Book {
	return slices.Clone(s.books)
}

func (s *Snapshot) ByID(id int) (models.Book, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Book{}, false
	}
	return s.books[i], true
}

func (s *Snapshot) where(keep func(models.Book) bool) []models.Book {
	out := []models.Book{}
	for _, b := range s.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Snapshot) ByGenre(genre string) []models.Book {
	return s.where(func(b models.Book) bool { return strings.EqualFold(b.Genre, genre) })
}

func (s *Snapshot) ByAuthor(fragment string) []models.Book {
	f := strings.ToLower(fragment)
	return s.where(func(b models.Book) bool { return strings.Contains(strings.ToLower(b.Author), f) })
}

func (s *Snapshot) ByYear(year int) []models.Book {
	return s.where(func(b models.Book) bool { return b.Year == year })
}

func (s *Snapshot) ByBestseller(flag bool) []models.Book {
	return s.where(func(b models.Book) bool { return b.Bestseller == flag })
}

func (s *Snapshot) FindByTitle(fragment string) (models.Book, bool) {
	f := strings.ToLower(fragment)
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(b.Title), f) {
			return b, true
		}
	}
	return models.Book{}, false
}

// Genres lists the distinct genres in catalog order.
func (s *Snapshot) Genres() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range s.books {
		if !seen[b.Genre] {
			seen[b.Genre] = true
			out = append(out, b.Genre)
		}
	}
	return out
}

// Source provides the books a Live catalog reloads from.
type Source interface {
	All(ctx context.Context) ([]models.Book, error)
}

// Live serves the current snapshot and swaps in a new one on reload.
// Readers never block and always see a complete snapshot.
type Live struct {
	current atomic.Pointer[Snapshot]
	source  Source
}

func NewLive(initial *Snapshot, source Source) *Live {
	if initial == nil {
		initial = NewSnapshot(nil)
	}
	l := &Live{source: source}
	l.Store(initial)
	return l
}

func (l *Live) Snapshot() *Snapshot {
	return l.current.Load()
}

func (l *Live) Store(s *Snapshot) {
	l.current.Store(s)
	metrics.SetCatalogSize(s.Len())
}

// Reload replaces the snapshot with the source's current books and returns
// the new size. On error the old snapshot stays in place.
func (l *Live) Reload(ctx context.Context) (int, error) {
	if l.source == nil {
		return l.Snapshot().Len(), nil
	}
	books, err := l.source.All(ctx)
	if err != nil {
		return 0, err
	}
	s := NewSnapshot(books)
	l.Store(s)
	return s.Len(), nil
}

func (l *Live) ByGenre(genre string) []models.Book { return l.Snapshot().ByGenre(genre) }

func (l *Live) ByAuthor(fragment string) []models.Book { return l.Snapshot().ByAuthor(fragment) }

func (l *Live) ByYear(year int) []models.Book { return l.Snapshot().ByYear(year) }

func (l *Live) ByBestseller(flag bool) []models.Book { return l.Snapshot().ByBestseller(flag) }

func (l *Live) FindByTitle(fragment string) (models.Book, bool) {
	return l.Snapshot().FindByTitle(fragment)
}
