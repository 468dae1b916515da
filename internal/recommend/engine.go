// Package recommend ranks catalog books for a classified request.
//
// Every operation filters the catalog, orders the result by rating
// (highest first, stable for equal ratings) and truncates it to the
// requested limit. The engine holds no mutable state and is safe for
// concurrent use.
package recommend

import (
	"cmp"
	"slices"
	"strings"

	"bookhub/pkg/models"
)

const (
	DefaultLimit = 5
	DefaultGenre = "Romance"
)

// Rating floors applied to sensitive moods and relaxing occasions.
const (
	NegativeMoodMinRating     = 4.0
	RelaxingOccasionMinRating = 3.5
)

var negativeMoods = map[string]bool{
	"triste":     true,
	"deprimido":  true,
	"estressado": true,
	"ansioso":    true,
	"mal":        true,
}

var relaxingOccasions = map[string]bool{
	"praia":   true,
	"férias":  true,
	"viagem":  true,
	"relaxar": true,
}

// Catalog is the read-only book source the engine ranks.
type Catalog interface {
	// ByGenre matches the genre exactly, ignoring case.
	ByGenre(genre string) []models.Book
	// ByAuthor matches a case-insensitive substring of the author.
	ByAuthor(fragment string) []models.Book
	ByYear(year int) []models.Book
	ByBestseller(flag bool) []models.Book
	// FindByTitle returns the first book, in catalog order, whose title
	// contains fragment ignoring case.
	FindByTitle(fragment string) (models.Book, bool)
}

// Recommender is the full set of recommendation operations.
type Recommender interface {
	RecommendByGenre(genre string, limit int) []models.Book
	RecommendByAuthor(author string, limit int) []models.Book
	RecommendByYear(year int, limit int) []models.Book
	RecommendBestsellers(bestseller bool, limit int) []models.Book
	RecommendSimilarBooks(title string, limit int) []models.Book
	RecommendByMood(mood, genre string, limit int) []models.Book
	RecommendByOccasion(occasion, genre string, limit int) []models.Book
	RecommendByCriteria(c Criteria, limit int) []models.Book
}

var _ Recommender = (*Engine)(nil)

// Criteria combines optional filters; a zero field is ignored.
type Criteria struct {
	Genre      string
	Author     string
	Year       int
	Bestseller *bool
}

func (c Criteria) Empty() bool {
	return c.Genre == "" && c.Author == "" && c.Year == 0 && c.Bestseller == nil
}

type Engine struct {
	catalog    Catalog
	moodGenres map[string]string
}

type Option func(*Engine)

// WithMoodGenres sets the table used to pick a genre for a mood when the
// caller does not supply one.
func WithMoodGenres(m map[string]string) Option {
	return func(e *Engine) {
		e.moodGenres = m
	}
}

func NewEngine(c Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: c}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) RecommendByGenre(genre string, limit int) []models.Book {
	return rank(e.catalog.ByGenre(genre), limit)
}

func (e *Engine) RecommendByAuthor(author string, limit int) []models.Book {
	return rank(e.catalog.ByAuthor(author), limit)
}

func (e *Engine) RecommendByYear(year int, limit int) []models.Book {
	return rank(e.catalog.ByYear(year), limit)
}

func (e *Engine) RecommendBestsellers(bestseller bool, limit int) []models.Book {
	return rank(e.catalog.ByBestseller(bestseller), limit)
}

// RecommendSimilarBooks finds the reference book by title and returns other
// books of its genre. Books by the same author always come first; each
// group is ordered by rating.
func (e *Engine) RecommendSimilarBooks(title string, limit int) []models.Book {
	ref, ok := e.catalog.FindByTitle(title)
	if !ok {
		return []models.Book{}
	}
	var sameAuthor, others []models.Book
	for _, b := range e.catalog.ByGenre(ref.Genre) {
		if b.ID == ref.ID {
			continue
		}
		if b.Author == ref.Author {
			sameAuthor = append(sameAuthor, b)
		} else {
			others = append(others, b)
		}
	}
	sortByRating(sameAuthor)
	sortByRating(others)
	return truncate(append(sameAuthor, others...), limit)
}

// RecommendByMood ranks books of genre, or of the genre mapped to mood when
// genre is empty. Negative moods only get books rated 4.0 or more.
func (e *Engine) RecommendByMood(mood, genre string, limit int) []models.Book {
	mood = strings.ToLower(strings.TrimSpace(mood))
	if genre == "" {
		genre = e.moodGenres[mood]
	}
	if genre == "" {
		genre = DefaultGenre
	}
	books := e.catalog.ByGenre(genre)
	if negativeMoods[mood] {
		books = filter(books, func(b models.Book) bool { return b.Rating >= NegativeMoodMinRating })
	}
	return rank(books, limit)
}

// RecommendByOccasion ranks books of genre (Romance when empty). Relaxing
// occasions only get books rated 3.5 or more.
func (e *Engine) RecommendByOccasion(occasion, genre string, limit int) []models.Book {
	occasion = strings.ToLower(strings.TrimSpace(occasion))
	if genre == "" {
		genre = DefaultGenre
	}
	books := e.catalog.ByGenre(genre)
	if relaxingOccasions[occasion] {
		books = filter(books, func(b models.Book) bool { return b.Rating >= RelaxingOccasionMinRating })
	}
	return rank(books, limit)
}

// RecommendByCriteria applies every non-zero criterion. Empty criteria
// select nothing.
func (e *Engine) RecommendByCriteria(c Criteria, limit int) []models.Book {
	var books []models.Book
	switch {
	case c.Genre != "":
		books = e.catalog.ByGenre(c.Genre)
	case c.Author != "":
		books = e.catalog.ByAuthor(c.Author)
	case c.Year != 0:
		books = e.catalog.ByYear(c.Year)
	case c.Bestseller != nil:
		books = e.catalog.ByBestseller(*c.Bestseller)
	default:
		return []models.Book{}
	}
	author := strings.ToLower(c.Author)
	books = filter(books, func(b models.Book) bool {
		if c.Genre != "" && !strings.EqualFold(b.Genre, c.Genre) {
			return false
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			return false
		}
		if c.Year != 0 && b.Year != c.Year {
			return false
		}
		if c.Bestseller != nil && b.Bestseller != *c.Bestseller {
			return false
		}
		return true
	})
	return rank(books, limit)
}

func rank(books []models.Book, limit int) []models.Book {
	out := slices.Clone(books)
	if out == nil {
		out = []models.Book{}
	}
	sortByRating(out)
	return truncate(out, limit)
}

func sortByRating(books []models.Book) {
	slices.SortStableFunc(books, func(a, b models.Book) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
}

func truncate(books []models.Book, limit int) []models.Book {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if books == nil {
		return []models.Book{}
	}
	if len(books) > limit {
		return books[:limit]
	}
	return books
}

func filter(books []models.Book, keep func(models.Book) bool) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
