package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/chunker"
	"github.com/ziadkadry99/careerctx/internal/config"
	"github.com/ziadkadry99/careerctx/internal/db"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/embeddings"
	"github.com/ziadkadry99/careerctx/internal/facts"
	"github.com/ziadkadry99/careerctx/internal/retrieval"
	"github.com/ziadkadry99/careerctx/internal/scoring"
	"github.com/ziadkadry99/careerctx/internal/weighting"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `careerctx init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// app holds every component a command may need, built from one config.
type app struct {
	cfg       *config.Config
	db        *db.DB
	docs      *documents.Store
	facts     *facts.Store
	audit     *audit.Store
	weights   *weighting.Calculator
	cache     *embeddings.Cache
	assembler *retrieval.Assembler
}

// openApp loads the config, opens the database and wires the retrieval
// pipeline. An embedder that cannot be built is logged, not fatal:
// retrieval then returns no context.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	database, err := db.OpenDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	cache, err := embeddings.NewCacheFromConfig(cfg)
	if err != nil {
		log.Printf("embeddings: %v", err)
	}

	a := &app{
		cfg:     cfg,
		db:      database,
		docs:    documents.NewStore(database),
		facts:   facts.NewStore(database),
		audit:   audit.NewStore(database),
		weights: weighting.New(cfg.Weighting, nil, nil),
		cache:   cache,
	}
	scorer := scoring.New(cfg.Scoring.Weights, cfg.Scoring.Quality, a.weights)
	a.assembler = retrieval.New(a.docs, a.facts, cache,
		chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap), scorer, cfg.Retrieval)
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// embeddingLabel names the active embedder for startup banners.
func (a *app) embeddingLabel() string {
	if m := a.cache.Stats().Model; m != "" {
		return m
	}
	return "unavailable"
}
