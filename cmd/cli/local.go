package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bookhub/internal/app"
	"bookhub/internal/assistant"
	"bookhub/internal/catalog"
	"bookhub/internal/config"
	"bookhub/internal/recommend"
	"bookhub/pkg/database"
	"bookhub/pkg/models"
)

func newClassifyCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Classify a message with the local pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			p, err := app.NewPipeline(cfg.NLP)
			if err != nil {
				return err
			}
			msg := strings.Join(args, " ")
			if full {
				return printJSON(cmd, p.ProcessComplex(msg))
			}
			intent := p.Process(msg)
			return printJSON(cmd, map[string]any{
				"intent":          intent.Name,
				"confidence":      intent.Confidence,
				"entities":        intent.Entities,
				"processing_used": p.Settings().Mode(intent.Confidence),
			})
		},
	}
	cmd.Flags().BoolVar(&full, "complex", false, "print the full advanced analysis")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	var (
		seed  string
		useDB bool
	)
	cmd := &cobra.Command{
		Use:   "recommend <message>",
		Short: "Answer a message locally over a JSON seed or the SQLite catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			books, err := localBooks(cmd.Context(), cfg, seed, useDB)
			if err != nil {
				return err
			}
			p, err := app.NewPipeline(cfg.NLP)
			if err != nil {
				return err
			}
			engine := recommend.NewEngine(catalog.NewSnapshot(books), recommend.WithMoodGenres(p.Lexicon().Moods))
			a := assistant.New(p, engine, assistant.WithLimit(cfg.NLP.DefaultLimit))
			resp := a.Respond(cmd.Context(), models.ChatRequest{Message: strings.Join(args, " ")})
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "JSON seed file (default: catalog.seed_path)")
	cmd.Flags().BoolVar(&useDB, "db", false, "read the catalog from the configured database")
	return cmd
}

func localBooks(ctx context.Context, cfg *config.Config, seed string, useDB bool) ([]models.Book, error) {
	if useDB {
		db, err := database.OpenAndMigrate(database.Config{Path: cfg.Database.Path})
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return catalog.NewRepo(db).All(ctx)
	}
	if seed == "" {
		seed = cfg.Catalog.SeedPath
	}
	books, err := catalog.LoadJSON(seed)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("no books in %s", seed)
	}
	return books, nil
}
