package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/pkg/models"
)

// sliceCatalog implements Catalog over an ordered slice.
type sliceCatalog []models.Book

func (c sliceCatalog) where(keep func(models.Book) bool) []models.Book {
	var out []models.Book
	for _, b := range c {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (c sliceCatalog) ByGenre(genre string) []models.Book {
	return c.where(func(b models.Book) bool { return strings.EqualFold(b.Genre, genre) })
}

func (c sliceCatalog) ByAuthor(fragment string) []models.Book {
	f := strings.ToLower(fragment)
	return c.where(func(b models.Book) bool { return strings.Contains(strings.ToLower(b.Author), f) })
}

func (c sliceCatalog) ByYear(year int) []models.Book {
	return c.where(func(b models.Book) bool { return b.Year == year })
}

func (c sliceCatalog) ByBestseller(flag bool) []models.Book {
	return c.where(func(b models.Book) bool { return b.Bestseller == flag })
}

func (c sliceCatalog) FindByTitle(fragment string) (models.Book, bool) {
	f := strings.ToLower(fragment)
	for _, b := range c {
		if strings.Contains(strings.ToLower(b.Title), f) {
			return b, true
		}
	}
	return models.Book{}, false
}

func ids(books []models.Book) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func assertSortedByRating(t *testing.T, books []models.Book) {
	t.Helper()
	for i := 1; i < len(books); i++ {
		assert.GreaterOrEqual(t, books[i-1].Rating, books[i].Rating)
	}
}

func testCatalog() sliceCatalog {
	return sliceCatalog{
		{ID: 1, Title: "It: A Coisa", Author: "Stephen King", Genre: "Terror", Year: 1986, Bestseller: true, Rating: 4.2},
		{ID: 2, Title: "O Iluminado", Author: "Stephen King", Genre: "Terror", Year: 1977, Bestseller: true, Rating: 4.8},
		{ID: 3, Title: "Drácula", Author: "Bram Stoker", Genre: "Terror", Year: 1897, Bestseller: false, Rating: 4.0},
		{ID: 4, Title: "Orgulho e Preconceito", Author: "Jane Austen", Genre: "Romance", Year: 1813, Bestseller: true, Rating: 4.7},
		{ID: 5, Title: "Romance Mediano", Author: "Autor Local", Genre: "Romance", Year: 2020, Bestseller: false, Rating: 3.2},
		{ID: 6, Title: "Amor de Verão", Author: "Autora Nova", Genre: "romance", Year: 2020, Bestseller: false, Rating: 3.8},
		{ID: 7, Title: "O Poder do Hábito", Author: "Charles Duhigg", Genre: "Autoajuda", Year: 2012, Bestseller: true, Rating: 4.1},
		{ID: 8, Title: "Autoajuda Fraca", Author: "Fulano", Genre: "Autoajuda", Year: 2019, Bestseller: false, Rating: 2.9},
	}
}

func TestRecommendByGenre_SortedAndTruncated(t *testing.T) {
	e := NewEngine(sliceCatalog{
		{ID: 1, Genre: "Terror", Rating: 4.2},
		{ID: 2, Genre: "Terror", Rating: 4.8},
		{ID: 3, Genre: "Terror", Rating: 4.0},
	})

	got := e.RecommendByGenre("Terror", 2)

	assert.Equal(t, []int{2, 1}, ids(got))
}

func TestRecommendByGenre_CaseInsensitive(t *testing.T) {
	e := NewEngine(testCatalog())

	got := e.RecommendByGenre("ROMANCE", 10)

	assert.Equal(t, []int{4, 6, 5}, ids(got))
}

func TestRecommend_DefaultLimit(t *testing.T) {
	var books sliceCatalog
	for i := 0; i < 12; i++ {
		books = append(books, models.Book{ID: i, Genre: "Fantasia", Rating: float64(i % 5)})
	}
	e := NewEngine(books)

	got := e.RecommendByGenre("Fantasia", 0)

	assert.Len(t, got, DefaultLimit)
	assertSortedByRating(t, got)
}

func TestRecommend_StableForEqualRatings(t *testing.T) {
	e := NewEngine(sliceCatalog{
		{ID: 10, Genre: "História", Rating: 4.0},
		{ID: 11, Genre: "História", Rating: 4.5},
		{ID: 12, Genre: "História", Rating: 4.0},
		{ID: 13, Genre: "História", Rating: 4.0},
	})

	assert.Equal(t, []int{11, 10, 12, 13}, ids(e.RecommendByGenre("história", 5)))
}

func TestRecommendByAuthorYearBestsellers(t *testing.T) {
	e := NewEngine(testCatalog())

	assert.Equal(t, []int{2, 1}, ids(e.RecommendByAuthor("king", 5)))
	assert.Equal(t, []int{6, 5}, ids(e.RecommendByYear(2020, 5)))
	assert.Equal(t, []int{2, 4, 1}, ids(e.RecommendBestsellers(true, 3)))
	assert.Equal(t, []int{3, 6, 5}, ids(e.RecommendBestsellers(false, 3)))
}

func TestRecommend_EmptyResultIsNotNil(t *testing.T) {
	e := NewEngine(testCatalog())

	got := e.RecommendByGenre("Culinária", 5)

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.NotNil(t, e.RecommendSimilarBooks("inexistente", 5))
	assert.NotNil(t, NewEngine(sliceCatalog{}).RecommendByYear(1999, 5))
}

func TestRecommendSimilarBooks_AuthorGroupFirst(t *testing.T) {
	e := NewEngine(sliceCatalog{
		{ID: 1, Title: "Referência", Author: "A", Genre: "Mistério", Rating: 4.0},
		{ID: 2, Title: "Outro do Mesmo", Author: "A", Genre: "Mistério", Rating: 3.0},
		{ID: 3, Title: "De Outro Autor", Author: "B", Genre: "Mistério", Rating: 4.9},
		{ID: 4, Title: "Outro Gênero", Author: "A", Genre: "Terror", Rating: 5.0},
	})

	got := e.RecommendSimilarBooks("referência", 5)

	assert.Equal(t, []int{2, 3}, ids(got))
}

func TestRecommendSimilarBooks_GroupsSortedAndTruncated(t *testing.T) {
	e := NewEngine(testCatalog())

	got := e.RecommendSimilarBooks("iluminado", 5)
	assert.Equal(t, []int{1, 3}, ids(got))

	got = e.RecommendSimilarBooks("iluminado", 1)
	assert.Equal(t, []int{1}, ids(got))
}

func TestRecommendByMood(t *testing.T) {
	e := NewEngine(testCatalog(), WithMoodGenres(map[string]string{
		"deprimido": "Autoajuda",
		"feliz":     "Terror",
	}))

	// Negative moods drop books rated below 4.0.
	assert.Equal(t, []int{4}, ids(e.RecommendByMood("triste", "", 5)))
	assert.Equal(t, []int{7}, ids(e.RecommendByMood("deprimido", "", 5)))
	assert.Equal(t, []int{2, 1, 3}, ids(e.RecommendByMood("feliz", "", 5)))
	assert.Equal(t, []int{4, 6, 5}, ids(e.RecommendByMood("entediado", "", 5)))
	assert.Equal(t, []int{7, 8}, ids(e.RecommendByMood("animado", "Autoajuda", 5)))
}

func TestRecommendByOccasion(t *testing.T) {
	e := NewEngine(testCatalog())

	assert.Equal(t, []int{4, 6}, ids(e.RecommendByOccasion("praia", "", 5)))
	assert.Equal(t, []int{4, 6, 5}, ids(e.RecommendByOccasion("metrô", "Romance", 5)))
	assert.Equal(t, []int{7}, ids(e.RecommendByOccasion("férias", "Autoajuda", 5)))
}

func TestRecommendByCriteria(t *testing.T) {
	e := NewEngine(testCatalog())
	yes, no := true, false

	tests := []struct {
		name string
		c    Criteria
		want []int
	}{
		{"empty", Criteria{}, []int{}},
		{"genre", Criteria{Genre: "terror"}, []int{2, 1, 3}},
		{"genre and bestseller", Criteria{Genre: "Terror", Bestseller: &no}, []int{3}},
		{"author and year", Criteria{Author: "king", Year: 1977}, []int{2}},
		{"year only", Criteria{Year: 2020}, []int{6, 5}},
		{"bestseller only", Criteria{Bestseller: &yes}, []int{2, 4, 1, 7}},
		{"no match", Criteria{Genre: "Romance", Author: "king"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(e.RecommendByCriteria(tt.c, 5)))
		})
	}
}

func TestRecommend_NeverExceedsLimit(t *testing.T) {
	e := NewEngine(testCatalog())

	for limit := 1; limit <= 4; limit++ {
		for _, got := range [][]models.Book{
			e.RecommendByGenre("Terror", limit),
			e.RecommendBestsellers(true, limit),
			e.RecommendByYear(2020, limit),
			e.RecommendByOccasion("trem", "Romance", limit),
		} {
			assert.LessOrEqual(t, len(got), limit)
			assertSortedByRating(t, got)
		}
	}
}

func TestCalculateSimilarity(t *testing.T) {
	a := models.Book{Genre: "Terror", Author: "Stephen King", Rating: 4.0, Year: 1980}

	assert.InDelta(t, 1.0, CalculateSimilarity(a, a), 1e-9)

	b := models.Book{Genre: "Romance", Author: "Outro", Rating: 1.5, Year: 2005}
	// rating: 0.2 * (1 - 2.5/5) = 0.1; year: 0.1 * (1 - 25/50) = 0.05
	assert.InDelta(t, 0.15, CalculateSimilarity(a, b), 1e-9)

	c := models.Book{Genre: "Terror", Author: "Outro", Rating: 0, Year: 1800}
	assert.InDelta(t, 0.4+0.2*0.2, CalculateSimilarity(a, c), 1e-9)
	assert.InDelta(t, CalculateSimilarity(a, b), CalculateSimilarity(b, a), 1e-9)
}
