// Package assistant turns a chat message into a reply: it classifies the
// message, routes the intent to the recommendation engine, writes the
// Portuguese answer and keeps usage statistics.
package assistant

import (
	"context"
	"strings"
	"time"

	"bookhub/internal/logging"
	"bookhub/internal/metrics"
	"bookhub/internal/nlp"
	"bookhub/internal/recommend"
	"bookhub/pkg/models"
)

// HistoryStore persists chat turns. *history.Repo implements it.
type HistoryStore interface {
	Append(ctx context.Context, turn models.ChatTurn) (*models.ChatTurn, error)
}

type Assistant struct {
	pipeline *nlp.Pipeline
	engine   recommend.Recommender
	history  HistoryStore
	limit    int
	stats    *Stats
}

type Option func(*Assistant)

func WithHistory(h HistoryStore) Option {
	return func(a *Assistant) { a.history = h }
}

// WithLimit sets how many books a reply carries.
func WithLimit(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.limit = n
		}
	}
}

func New(p *nlp.Pipeline, engine recommend.Recommender, opts ...Option) *Assistant {
	a := &Assistant{
		pipeline: p,
		engine:   engine,
		limit:    recommend.DefaultLimit,
		stats:    &Stats{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assistant) Pipeline() *nlp.Pipeline { return a.pipeline }

// Respond answers one chat message. It never fails; history write errors
// are logged and dropped.
func (a *Assistant) Respond(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	message := strings.TrimSpace(req.Message)
	if req.UserID != "" {
		ctx = logging.ContextWithUserID(ctx, req.UserID)
	}

	start := time.Now()
	intent := a.pipeline.Process(message)
	mode := a.pipeline.Settings().Mode(intent.Confidence)
	metrics.RecordClassification(intent.Name, mode, time.Since(start))
	a.stats.record(mode, intent.Unknown())

	var (
		books       []models.Book
		text        string
		suggestions []string
	)
	if intent.Unknown() {
		books, text, suggestions = a.fallback(message, mode)
	} else {
		books, text = a.route(intent)
	}
	metrics.RecordRecommendations(intent.Name, len(books))

	resp := models.ChatResponse{
		Response:         text,
		RecommendedBooks: books,
		Intent:           intent.Name,
		Confidence:       intent.Confidence,
		Entities:         intent.Entities,
		ProcessingUsed:   mode,
		Suggestions:      suggestions,
	}

	logging.Ctx(ctx).Debug().
		Str("intent", intent.Name).
		Float64("confidence", intent.Confidence).
		Str("mode", mode).
		Int("books", len(books)).
		Msg("chat message answered")

	a.remember(ctx, req.UserID, message, resp)
	return resp
}

// route answers a recognised intent.
func (a *Assistant) route(in nlp.Intent) ([]models.Book, string) {
	switch in.Name {
	case nlp.IntentGenre:
		genre := in.Entity(nlp.EntityTarget)
		books := a.engine.RecommendByGenre(genre, a.limit)
		return books, genreReply(genre, len(books) > 0)
	case nlp.IntentAuthor:
		author := in.Entity(nlp.EntityAuthor)
		books := a.engine.RecommendByAuthor(author, a.limit)
		if len(books) > 0 {
			author = books[0].Author
		}
		return books, authorReply(author, len(books) > 0)
	case nlp.IntentSimilar:
		title := in.Entity(nlp.EntityTarget)
		books := a.engine.RecommendSimilarBooks(title, a.limit)
		return books, similarReply(title, len(books) > 0)
	case nlp.IntentYear:
		year, _ := in.Year()
		books := a.engine.RecommendByYear(year, a.limit)
		return books, yearReply(year, len(books) > 0)
	case nlp.IntentBestsellers:
		return a.engine.RecommendBestsellers(true, a.limit), replyBestsellers
	case nlp.IntentNonBestsellers:
		return a.engine.RecommendBestsellers(false, a.limit), replyNonBestsellers
	case nlp.IntentMood:
		mood := in.Entity(nlp.EntityMood)
		books := a.engine.RecommendByMood(mood, in.Entity(nlp.EntityTarget), a.limit)
		return books, moodReply(mood, len(books) > 0)
	case nlp.IntentOccasion:
		occasion := in.Entity(nlp.EntityOccasion)
		books := a.engine.RecommendByOccasion(occasion, in.Entity(nlp.EntityTarget), a.limit)
		return books, occasionReply(occasion, len(books) > 0)
	default:
		return []models.Book{}, unknownReply(false)
	}
}

// fallback handles unknown messages. With advanced processing on, the
// message is analysed for loose criteria, mentioned titles and context
// words before giving up.
func (a *Assistant) fallback(message, mode string) ([]models.Book, string, []string) {
	if mode != nlp.ModeAdvanced || !a.pipeline.Settings().AdvancedProcessing() {
		return []models.Book{}, unknownReply(false), nil
	}

	res := a.pipeline.ProcessComplex(message)
	criteria := recommend.Criteria{
		Genre:      a.pipeline.ValidateGenre(res.Criteria.Genre),
		Author:     res.Criteria.Author,
		Year:       res.Criteria.Year,
		Bestseller: res.Criteria.Bestseller,
	}

	var books []models.Book
	switch {
	case !criteria.Empty():
		books = a.engine.RecommendByCriteria(criteria, a.limit)
	case len(res.Titles) > 0:
		books = a.engine.RecommendSimilarBooks(res.Titles[0], a.limit)
	case res.ContextGenre != "":
		books = a.engine.RecommendByGenre(res.ContextGenre, a.limit)
	default:
		books = []models.Book{}
	}

	partial := !criteria.Empty() || len(res.Titles) > 0 || res.ContextGenre != ""
	text := unknownReply(partial)
	if len(books) > 0 {
		text = replyAdvanced
	}
	if len(res.Suggestions) > 0 {
		text += "\n" + strings.Join(res.Suggestions, " ")
	}
	return books, text, res.Suggestions
}

func (a *Assistant) remember(ctx context.Context, userID, message string, resp models.ChatResponse) {
	if a.history == nil || userID == "" {
		return
	}
	ids := make([]int, 0, len(resp.RecommendedBooks))
	for _, b := range resp.RecommendedBooks {
		ids = append(ids, b.ID)
	}
	_, err := a.history.Append(ctx, models.ChatTurn{
		UserID:     userID,
		Message:    message,
		Intent:     resp.Intent,
		Confidence: resp.Confidence,
		Response:   resp.Response,
		BookIDs:    ids,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("save chat turn")
	}
}
