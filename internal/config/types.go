package config

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderGoogle ProviderType = "google"
	// ProviderLocal is the offline feature-hashing embedder. It needs no
	// network access and no API key.
	ProviderLocal ProviderType = "local"
)

// Config is the top-level careerctx configuration, corresponding to .careerctx.yml.
type Config struct {
	EmbeddingProvider    ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel       string          `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingBaseURL     string          `yaml:"embedding_base_url" koanf:"embedding_base_url"`
	EmbeddingDimensions  int             `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	EmbeddingTimeoutSecs int             `yaml:"embedding_timeout_secs" koanf:"embedding_timeout_secs"`
	DataDir              string          `yaml:"data_dir" koanf:"data_dir"`
	Weighting            WeightingConfig `yaml:"weighting" koanf:"weighting"`
	Chunking             ChunkingConfig  `yaml:"chunking" koanf:"chunking"`
	Cache                CacheConfig     `yaml:"cache" koanf:"cache"`
	Retrieval            RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	Scoring              ScoringConfig   `yaml:"scoring" koanf:"scoring"`
}

// WeightingConfig controls the per-document trust weight.
type WeightingConfig struct {
	BaseWeight          float64            `yaml:"base_weight" koanf:"base_weight"`
	RecencyPeriodDays   float64            `yaml:"recency_period_days" koanf:"recency_period_days"`
	MinWeightMultiplier float64            `yaml:"min_weight_multiplier" koanf:"min_weight_multiplier"`
	RecencyEnabled      bool               `yaml:"recency_enabled" koanf:"recency_enabled"`
	TypeWeights         map[string]float64 `yaml:"type_weights" koanf:"type_weights"`
}

// ChunkingConfig sets the chunk window in characters.
type ChunkingConfig struct {
	Size    int `yaml:"size" koanf:"size"`
	Overlap int `yaml:"overlap" koanf:"overlap"`
}

// CacheConfig bounds the in-process embedding cache.
type CacheConfig struct {
	MaxSize int `yaml:"max_size" koanf:"max_size"`
	// TTLSecs expires entries this long after insertion. 0 disables expiry.
	TTLSecs int `yaml:"ttl_secs" koanf:"ttl_secs"`
}

// RetrievalConfig controls context assembly.
type RetrievalConfig struct {
	TopK             int `yaml:"top_k" koanf:"top_k"`
	MaxFragmentChars int `yaml:"max_fragment_chars" koanf:"max_fragment_chars"`
	MaxFacts         int `yaml:"max_facts" koanf:"max_facts"`
}

// ScoringConfig holds the composite weights and content-quality thresholds.
type ScoringConfig struct {
	Weights ScoreWeights  `yaml:"weights" koanf:"weights"`
	Quality QualityConfig `yaml:"quality" koanf:"quality"`
}

// ScoreWeights are the coefficients of the composite relevance score.
type ScoreWeights struct {
	Semantic       float64 `yaml:"semantic" koanf:"semantic"`
	Temporal       float64 `yaml:"temporal" koanf:"temporal"`
	Domain         float64 `yaml:"domain" koanf:"domain"`
	ContentQuality float64 `yaml:"content_quality" koanf:"content_quality"`
	Lexical        float64 `yaml:"lexical" koanf:"lexical"`
}

// Sum returns the total of all coefficients.
func (w ScoreWeights) Sum() float64 {
	return w.Semantic + w.Temporal + w.Domain + w.ContentQuality + w.Lexical
}

// QualityConfig holds the content-quality heuristic thresholds.
type QualityConfig struct {
	MinChunkLength int     `yaml:"min_chunk_length" koanf:"min_chunk_length"`
	MinSentences   int     `yaml:"min_sentences" koanf:"min_sentences"`
	MinDensity     float64 `yaml:"min_density" koanf:"min_density"`
	MaxDensity     float64 `yaml:"max_density" koanf:"max_density"`
}
