package embeddings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ziadkadry99/careerctx/internal/config"
)

// ErrEmbeddingUnavailable is returned when no embedder is configured or the
// configured one fails. Callers treat it as "no semantic signal".
var ErrEmbeddingUnavailable = errors.New("embedding capability unavailable")

// Embedder turns text into fixed-length vectors. Implementations must be
// safe for concurrent use and deterministic for identical input.
type Embedder interface {
	// Embed returns one vector per input text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of the vectors Embed produces.
	Dimensions() int

	// Name identifies the model, e.g. "ollama/nomic-embed-text".
	Name() string
}

// New builds the embedder selected by cfg. Hosted providers read their API
// key from the conventional environment variable.
func New(cfg *config.Config) (Embedder, error) {
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(cfg.EmbeddingProvider).EmbeddingModel
	}
	dims := cfg.EmbeddingDimensions
	if dims <= 0 {
		dims = config.GetPreset(cfg.EmbeddingProvider).Dimensions
	}

	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		key := os.Getenv(config.APIKeyEnvVar(cfg.EmbeddingProvider))
		if key == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrEmbeddingUnavailable)
		}
		return NewOpenAIEmbedder(key, model, dims, cfg.EmbeddingBaseURL), nil
	case config.ProviderOllama:
		return NewOllamaEmbedder(model, dims, cfg.EmbeddingBaseURL), nil
	case config.ProviderGoogle:
		key := os.Getenv(config.APIKeyEnvVar(cfg.EmbeddingProvider))
		if key == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY is not set", ErrEmbeddingUnavailable)
		}
		return NewGoogleEmbedder(key, model, dims, cfg.EmbeddingBaseURL), nil
	case config.ProviderLocal:
		return NewHashingEmbedder(dims), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

// NewCacheFromConfig wires the configured embedder into a Cache. When the
// embedder cannot be built the cache is still returned and every lookup
// fails with ErrEmbeddingUnavailable; the error is returned for logging.
func NewCacheFromConfig(cfg *config.Config) (*Cache, error) {
	emb, err := New(cfg)
	timeout := time.Duration(cfg.EmbeddingTimeoutSecs) * time.Second
	ttl := WithTTL(time.Duration(cfg.Cache.TTLSecs) * time.Second)
	if err != nil {
		return NewCache(nil, cfg.Cache.MaxSize, timeout, ttl), err
	}
	return NewCache(emb, cfg.Cache.MaxSize, timeout, ttl), nil
}
