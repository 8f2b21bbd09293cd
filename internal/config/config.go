package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides. A double underscore
// separates nested keys: CAREERCTX_WEIGHTING__BASE_WEIGHT -> weighting.base_weight.
const EnvPrefix = "CAREERCTX_"

// legacyEnv maps the variable names used by earlier deployments onto
// config keys.
var legacyEnv = map[string]string{
	"DOCUMENT_BASE_WEIGHT":               "weighting.base_weight",
	"DOCUMENT_RECENCY_PERIOD_DAYS":       "weighting.recency_period_days",
	"DOCUMENT_MIN_WEIGHT_MULTIPLIER":     "weighting.min_weight_multiplier",
	"DOCUMENT_RECENCY_WEIGHTING_ENABLED": "weighting.recency_enabled",
	"CV_WEIGHT_MULTIPLIER":               "weighting.type_weights.cv",
	"COVER_LETTER_WEIGHT_MULTIPLIER":     "weighting.type_weights.cover_letter",
	"LINKEDIN_WEIGHT_MULTIPLIER":         "weighting.type_weights.profile_import",
	"OTHER_DOCUMENT_WEIGHT_MULTIPLIER":   "weighting.type_weights.other",
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (legacy names first, then CAREERCTX_*).
// Invalid numeric values are replaced with defaults and logged.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env overrides: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	for _, w := range cfg.Normalize() {
		log.Printf("config: %s", w)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized embedding provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
	ProviderGoogle: true,
	ProviderLocal:  true,
}

// Validate checks the values Normalize cannot repair.
func (c *Config) Validate() error {
	if c.EmbeddingProvider == "" {
		return fmt.Errorf("embedding_provider is required")
	}
	if !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, ollama, google, local", c.EmbeddingProvider)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}

// Normalize replaces invalid numeric settings with their documented defaults
// and returns one warning per replacement. It never fails.
func (c *Config) Normalize() []string {
	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	def := DefaultConfig()

	if c.EmbeddingTimeoutSecs <= 0 {
		warnf("embedding_timeout_secs %d is not positive, using %d", c.EmbeddingTimeoutSecs, def.EmbeddingTimeoutSecs)
		c.EmbeddingTimeoutSecs = def.EmbeddingTimeoutSecs
	}

	w := &c.Weighting
	if !positive(w.BaseWeight) {
		warnf("weighting.base_weight %v is not positive, using %v", w.BaseWeight, def.Weighting.BaseWeight)
		w.BaseWeight = def.Weighting.BaseWeight
	}
	if !positive(w.RecencyPeriodDays) {
		warnf("weighting.recency_period_days %v is not positive, using %v", w.RecencyPeriodDays, def.Weighting.RecencyPeriodDays)
		w.RecencyPeriodDays = def.Weighting.RecencyPeriodDays
	}
	if !positive(w.MinWeightMultiplier) || w.MinWeightMultiplier > 1 {
		warnf("weighting.min_weight_multiplier %v is outside (0, 1], using %v", w.MinWeightMultiplier, def.Weighting.MinWeightMultiplier)
		w.MinWeightMultiplier = def.Weighting.MinWeightMultiplier
	}
	if w.TypeWeights == nil {
		w.TypeWeights = DefaultTypeWeights()
	}
	for t, dv := range DefaultTypeWeights() {
		v, ok := w.TypeWeights[t]
		if !ok {
			w.TypeWeights[t] = dv
			continue
		}
		if !positive(v) {
			warnf("weighting.type_weights.%s %v is not positive, using %v", t, v, dv)
			w.TypeWeights[t] = dv
		}
	}
	for t, v := range w.TypeWeights {
		if !positive(v) {
			warnf("weighting.type_weights.%s %v is not positive, dropping it", t, v)
			delete(w.TypeWeights, t)
		}
	}

	ch := &c.Chunking
	if ch.Size <= 0 || ch.Overlap < 0 || ch.Overlap >= ch.Size {
		warnf("chunking size=%d overlap=%d is invalid (need 0 <= overlap < size), using size=%d overlap=%d",
			ch.Size, ch.Overlap, def.Chunking.Size, def.Chunking.Overlap)
		*ch = def.Chunking
	}

	if c.Cache.MaxSize <= 0 {
		warnf("cache.max_size %d is not positive, using %d", c.Cache.MaxSize, def.Cache.MaxSize)
		c.Cache.MaxSize = def.Cache.MaxSize
	}
	if c.Cache.TTLSecs < 0 {
		warnf("cache.ttl_secs %d is negative, using %d", c.Cache.TTLSecs, def.Cache.TTLSecs)
		c.Cache.TTLSecs = def.Cache.TTLSecs
	}

	r := &c.Retrieval
	if r.TopK <= 0 {
		warnf("retrieval.top_k %d is not positive, using %d", r.TopK, def.Retrieval.TopK)
		r.TopK = def.Retrieval.TopK
	}
	if r.MaxFragmentChars <= 0 {
		warnf("retrieval.max_fragment_chars %d is not positive, using %d", r.MaxFragmentChars, def.Retrieval.MaxFragmentChars)
		r.MaxFragmentChars = def.Retrieval.MaxFragmentChars
	}
	if r.MaxFacts < 0 {
		warnf("retrieval.max_facts %d is negative, using %d", r.MaxFacts, def.Retrieval.MaxFacts)
		r.MaxFacts = def.Retrieval.MaxFacts
	}

	sw := &c.Scoring.Weights
	if !validCoefficients(*sw) {
		warnf("scoring.weights contain negative or non-finite values or sum to zero, using defaults")
		*sw = DefaultScoreWeights()
	} else if sum := sw.Sum(); math.Abs(sum-1) > 1e-9 {
		warnf("scoring.weights sum to %v, rescaling to 1", sum)
		sw.Semantic /= sum
		sw.Temporal /= sum
		sw.Domain /= sum
		sw.ContentQuality /= sum
		sw.Lexical /= sum
	}

	q := &c.Scoring.Quality
	if q.MinChunkLength < 0 {
		warnf("scoring.quality.min_chunk_length %d is negative, using %d", q.MinChunkLength, def.Scoring.Quality.MinChunkLength)
		q.MinChunkLength = def.Scoring.Quality.MinChunkLength
	}
	if q.MinSentences < 1 {
		warnf("scoring.quality.min_sentences %d is below 1, using %d", q.MinSentences, def.Scoring.Quality.MinSentences)
		q.MinSentences = def.Scoring.Quality.MinSentences
	}
	if q.MinDensity < 0 || q.MaxDensity <= q.MinDensity || q.MaxDensity > 1 {
		warnf("scoring.quality density band [%v, %v] is invalid, using [%v, %v]",
			q.MinDensity, q.MaxDensity, def.Scoring.Quality.MinDensity, def.Scoring.Quality.MaxDensity)
		q.MinDensity = def.Scoring.Quality.MinDensity
		q.MaxDensity = def.Scoring.Quality.MaxDensity
	}

	return warnings
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func validCoefficients(w ScoreWeights) bool {
	for _, v := range []float64{w.Semantic, w.Temporal, w.Domain, w.ContentQuality, w.Lexical} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return w.Sum() > 0
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
