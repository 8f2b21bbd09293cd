package config

// Preset describes the default embedding model for a provider.
type Preset struct {
	EmbeddingModel string
	Dimensions     int
}

var providerPresets = map[ProviderType]Preset{
	ProviderOpenAI: {EmbeddingModel: "text-embedding-3-small", Dimensions: 1536},
	ProviderOllama: {EmbeddingModel: "nomic-embed-text", Dimensions: 768},
	ProviderGoogle: {EmbeddingModel: "gemini-embedding-001", Dimensions: 3072},
	ProviderLocal:  {EmbeddingModel: "hashing-v1", Dimensions: 384},
}

// Document type keys used in WeightingConfig.TypeWeights.
const (
	TypeCV            = "cv"
	TypeCoverLetter   = "cover_letter"
	TypeProfileImport = "profile_import"
	TypeOther         = "other"
)

// DefaultTypeWeights returns a fresh copy of the per-type multipliers.
func DefaultTypeWeights() map[string]float64 {
	return map[string]float64{
		TypeCV:            2.0,
		TypeCoverLetter:   1.8,
		TypeProfileImport: 1.2,
		TypeOther:         0.8,
	}
}

// DefaultWeighting returns the default weighting configuration.
func DefaultWeighting() WeightingConfig {
	return WeightingConfig{
		BaseWeight:          1.0,
		RecencyPeriodDays:   365,
		MinWeightMultiplier: 0.1,
		RecencyEnabled:      true,
		TypeWeights:         DefaultTypeWeights(),
	}
}

// DefaultScoreWeights returns the composite score coefficients.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Semantic:       0.40,
		Temporal:       0.25,
		Domain:         0.20,
		ContentQuality: 0.10,
		Lexical:        0.05,
	}
}

// DefaultQuality returns the content-quality thresholds.
func DefaultQuality() QualityConfig {
	return QualityConfig{
		MinChunkLength: 50,
		MinSentences:   2,
		MinDensity:     0.05,
		MaxDensity:     0.3,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingProvider:    ProviderOpenAI,
		EmbeddingModel:       "text-embedding-3-small",
		EmbeddingTimeoutSecs: 10,
		DataDir:              ".careerctx",
		Weighting:            DefaultWeighting(),
		Chunking:             ChunkingConfig{Size: 500, Overlap: 100},
		Cache:                CacheConfig{MaxSize: 1000, TTLSecs: 86400},
		Retrieval: RetrievalConfig{
			TopK:             3,
			MaxFragmentChars: 300,
			MaxFacts:         3,
		},
		Scoring: ScoringConfig{
			Weights: DefaultScoreWeights(),
			Quality: DefaultQuality(),
		},
	}
}

// GetPreset returns the preset for the given provider.
// Returns the OpenAI preset if the provider is not known.
func GetPreset(provider ProviderType) Preset {
	if p, ok := providerPresets[provider]; ok {
		return p
	}
	return providerPresets[ProviderOpenAI]
}
