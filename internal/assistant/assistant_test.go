package assistant

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/catalog"
	"bookhub/internal/nlp"
	"bookhub/internal/recommend"
	"bookhub/pkg/models"
)

func testBooks() []models.Book {
	return []models.Book{
		{ID: 1, Title: "It: A Coisa", Author: "Stephen King", Genre: "Terror", Year: 1986, Bestseller: true, Rating: 4.5},
		{ID: 2, Title: "O Iluminado", Author: "Stephen King", Genre: "Terror", Year: 1977, Bestseller: true, Rating: 4.7},
		{ID: 3, Title: "Orgulho e Preconceito", Author: "Jane Austen", Genre: "Romance", Year: 1813, Bestseller: true, Rating: 4.5},
		{ID: 4, Title: "Amor de Verão", Author: "Autora Nova", Genre: "Romance", Year: 2020, Rating: 3.0},
		{ID: 5, Title: "Duna", Author: "Frank Herbert", Genre: "Ficção Científica", Year: 1965, Bestseller: true, Rating: 4.6},
	}
}

type memoryHistory struct {
	mu    sync.Mutex
	turns []models.ChatTurn
}

func (m *memoryHistory) Append(_ context.Context, t models.ChatTurn) (*models.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, t)
	return &t, nil
}

func newTestAssistant(t *testing.T, books []models.Book, opts ...Option) *Assistant {
	t.Helper()
	p, err := nlp.NewDefaultPipeline()
	require.NoError(t, err)
	engine := recommend.NewEngine(catalog.NewSnapshot(books), recommend.WithMoodGenres(p.Lexicon().Moods))
	return New(p, engine, opts...)
}

func ask(a *Assistant, msg string) models.ChatResponse {
	return a.Respond(context.Background(), models.ChatRequest{Message: msg})
}

func bookIDs(books []models.Book) []int {
	out := make([]int, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestRespond_Genre(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "Gosto de livros de terror")

	assert.Equal(t, nlp.IntentGenre, resp.Intent)
	assert.Equal(t, nlp.ModeSimple, resp.ProcessingUsed)
	assert.Equal(t, "Aqui estão algumas recomendações de livros de terror:", resp.Response)
	assert.Equal(t, []int{2, 1}, bookIDs(resp.RecommendedBooks))
	assert.Equal(t, "terror", resp.Entities[nlp.EntityTarget])
}

func TestRespond_GenreNotFound(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "livros de fantasia")

	assert.Equal(t, nlp.IntentGenre, resp.Intent)
	assert.Empty(t, resp.RecommendedBooks)
	assert.NotNil(t, resp.RecommendedBooks)
	assert.Equal(t, "Desculpe, não encontrei livros do gênero fantasia em nossa base de dados.", resp.Response)
}

func TestRespond_AuthorUsesCatalogSpelling(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "Me mostre livros do Stephen King")

	assert.Equal(t, nlp.IntentAuthor, resp.Intent)
	assert.Equal(t, "Aqui estão os livros de Stephen King que temos:", resp.Response)
	assert.Equal(t, []int{2, 1}, bookIDs(resp.RecommendedBooks))
}

func TestRespond_MoodFiltersLowRatings(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "estou triste")

	assert.Equal(t, nlp.IntentMood, resp.Intent)
	assert.Equal(t, moodReplies["triste"], resp.Response)
	assert.Equal(t, []int{3}, bookIDs(resp.RecommendedBooks))
}

func TestRespond_Occasion(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "Vou viajar, o que levo?")

	assert.Equal(t, nlp.IntentOccasion, resp.Intent)
	assert.Equal(t, occasionReplies["viajar"], resp.Response)
	assert.Equal(t, []int{3, 4}, bookIDs(resp.RecommendedBooks))
}

func TestRespond_UnknownNotUnderstood(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "bom dia")

	assert.Equal(t, nlp.IntentUnknown, resp.Intent)
	assert.Equal(t, 0.0, resp.Confidence)
	assert.Equal(t, nlp.ModeAdvanced, resp.ProcessingUsed)
	assert.Equal(t, replyNotUnderstood, resp.Response)
	assert.Empty(t, resp.RecommendedBooks)
	assert.Empty(t, resp.Suggestions)
}

func TestRespond_AdvancedFallbackUsesCriteria(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	resp := ask(a, "terrorr")

	assert.Equal(t, nlp.IntentUnknown, resp.Intent)
	assert.Equal(t, []int{2, 1}, bookIDs(resp.RecommendedBooks))
	assert.Contains(t, resp.Suggestions, "Você quis dizer 'terror'?")
	assert.Equal(t, replyAdvanced+"\n"+strings.Join(resp.Suggestions, " "), resp.Response)
}

func TestRespond_AdvancedFallbackPartial(t *testing.T) {
	a := newTestAssistant(t, testBooks()[2:])

	resp := ask(a, "terrorr")

	assert.Empty(t, resp.RecommendedBooks)
	assert.Contains(t, resp.Response, replyPartial)
}

func TestRespond_AdvancedDisabled(t *testing.T) {
	a := newTestAssistant(t, testBooks())
	off := false
	a.Configure(nil, &off)

	resp := ask(a, "terrorr")

	assert.Equal(t, replyNotUnderstood, resp.Response)
	assert.Empty(t, resp.RecommendedBooks)
	assert.Nil(t, resp.Suggestions)
}

func TestRespond_RecordsHistory(t *testing.T) {
	h := &memoryHistory{}
	a := newTestAssistant(t, testBooks(), WithHistory(h), WithLimit(1))

	a.Respond(context.Background(), models.ChatRequest{Message: "Gosto de livros de terror", UserID: "ana"})
	a.Respond(context.Background(), models.ChatRequest{Message: "bom dia"})

	require.Len(t, h.turns, 1)
	assert.Equal(t, "ana", h.turns[0].UserID)
	assert.Equal(t, nlp.IntentGenre, h.turns[0].Intent)
	assert.Equal(t, []int{2}, h.turns[0].BookIDs)
}

func TestStats(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	empty := a.Stats()
	assert.Zero(t, empty.TotalRequests)
	assert.Equal(t, 100.0, empty.SuccessRate)

	ask(a, "Gosto de livros de terror")
	ask(a, "bom dia")
	ask(a, "terrorr")

	s := a.Stats()
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 1, s.SimpleProcessing)
	assert.Equal(t, 2, s.AdvancedProcessing)
	assert.Equal(t, 2, s.UnknownIntents)
	assert.Equal(t, 33.33, s.SimplePercentage)
	assert.Equal(t, 66.67, s.AdvancedPercentage)
	assert.Equal(t, 66.67, s.UnknownPercentage)
	assert.Equal(t, 33.33, s.SuccessRate)
	assert.Equal(t, nlp.DefaultConfidenceThreshold, s.Settings.ConfidenceThreshold)

	assert.Equal(t, msgStatsReset, a.ResetStats())
	assert.Zero(t, a.Stats().TotalRequests)
}

func TestConfigure(t *testing.T) {
	a := newTestAssistant(t, testBooks())
	high := 5.0

	got := a.Configure(&high, nil)

	assert.Equal(t, nlp.MaxConfidenceThreshold, got.ConfidenceThreshold)
	assert.True(t, got.AdvancedProcessing)
	assert.Equal(t, got, a.Stats().Settings)
}

func TestTestProcessing(t *testing.T) {
	a := newTestAssistant(t, testBooks())

	r := a.TestProcessing("Gosto de livros de terror")

	assert.Equal(t, nlp.IntentGenre, r.Hybrid.Name)
	assert.Equal(t, "terror", r.Advanced.Criteria.Genre)
	assert.Equal(t, nlp.ModeSimple, r.ProcessingUsed)
	assert.Zero(t, a.Stats().TotalRequests)
}
