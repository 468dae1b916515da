// Package app assembles the service from its configuration: storage, the
// in-memory catalog, the NLP pipeline, the assistant and both transports.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"bookhub/internal/assistant"
	"bookhub/internal/auth"
	"bookhub/internal/catalog"
	"bookhub/internal/config"
	"bookhub/internal/history"
	"bookhub/internal/logging"
	"bookhub/internal/middleware"
	"bookhub/internal/nlp"
	"bookhub/internal/recommend"
	"bookhub/pkg/database"
)

type App struct {
	Config    *config.Config
	DB        *sql.DB
	Books     *catalog.Repo
	Catalog   *catalog.Live
	Pipeline  *nlp.Pipeline
	Engine    *recommend.Engine
	History   *history.Repo
	Users     *auth.Repo
	Tokens    auth.TokenService
	Assistant *assistant.Assistant
	Hub       *assistant.Hub
	Limiter   *middleware.RateLimiter
}

// New opens the database, seeds an empty catalog and builds every
// component. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.OpenAndMigrate(database.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{Config: cfg, DB: db}
	if err := a.build(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	a.Books = catalog.NewRepo(a.DB)
	if err := seedCatalog(ctx, a.Books, cfg.Catalog.SeedPath); err != nil {
		return err
	}
	a.Catalog = catalog.NewLive(nil, a.Books)
	n, err := a.Catalog.Reload(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logging.Info().Int("books", n).Msg("catalog loaded")

	p, err := NewPipeline(cfg.NLP)
	if err != nil {
		return err
	}
	a.Pipeline = p
	a.Engine = recommend.NewEngine(a.Catalog, recommend.WithMoodGenres(p.Lexicon().Moods))

	a.History = history.NewRepo(a.DB)
	a.Assistant = assistant.New(p, a.Engine,
		assistant.WithHistory(a.History),
		assistant.WithLimit(cfg.NLP.DefaultLimit),
	)
	a.Hub = assistant.NewHub()

	a.Users = auth.NewRepo(a.DB)
	a.Tokens = auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: cfg.Auth.JWTTTL,
	}
	if err := auth.EnsureAdmin(ctx, a.Users, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	if cfg.RateLimit.Enabled {
		a.Limiter = middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	return nil
}

// NewPipeline builds the classifier from the embedded lexicon or the file
// named in cfg.
func NewPipeline(cfg config.NLPConfig) (*nlp.Pipeline, error) {
	var (
		lex *nlp.Lexicon
		err error
	)
	if cfg.LexiconPath != "" {
		lex, err = nlp.LoadLexicon(cfg.LexiconPath)
	} else {
		lex, err = nlp.DefaultLexicon()
	}
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	p, err := nlp.NewPipeline(lex, nlp.NewSettings(cfg.ConfidenceThreshold, cfg.AdvancedProcessing))
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return p, nil
}

// seedCatalog imports the seed document when the books table is empty.
func seedCatalog(ctx context.Context, repo *catalog.Repo, path string) error {
	if path == "" {
		return nil
	}
	total, err := repo.Count(ctx, catalog.ListQuery{})
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if total > 0 {
		return nil
	}
	books, err := catalog.LoadJSON(path)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		logging.Warn().Str("path", path).Msg("seed catalog is empty or missing")
		return nil
	}
	n, err := repo.Upsert(ctx, books)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logging.Info().Int("books", n).Str("path", path).Msg("catalog seeded")
	return nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
