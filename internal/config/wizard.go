package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where RunWizard writes the configuration.
const DefaultPath = ".careerctx.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .careerctx.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to careerctx! Let's configure document retrieval.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding provider.
	providerPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{
			"openai (hosted, needs OPENAI_API_KEY)",
			"ollama (local server)",
			"google (hosted, needs GOOGLE_API_KEY)",
			"local (offline hashing embedder)",
		},
	}
	idx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	providers := []ProviderType{ProviderOpenAI, ProviderOllama, ProviderGoogle, ProviderLocal}
	cfg.EmbeddingProvider = providers[idx]

	preset := GetPreset(cfg.EmbeddingProvider)

	// 2. Embedding model.
	modelPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: preset.EmbeddingModel,
	}
	model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}
	cfg.EmbeddingModel = strings.TrimSpace(model)
	cfg.EmbeddingDimensions = preset.Dimensions

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the document database",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = strings.TrimSpace(dataDir)

	// 4. Recency period.
	periodPrompt := promptui.Prompt{
		Label:    "Days until a document reaches the minimum recency weight",
		Default:  strconv.FormatFloat(cfg.Weighting.RecencyPeriodDays, 'f', -1, 64),
		Validate: validatePositiveFloat,
	}
	periodStr, err := periodPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("recency period: %w", err)
	}
	cfg.Weighting.RecencyPeriodDays, _ = strconv.ParseFloat(strings.TrimSpace(periodStr), 64)

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.EmbeddingProvider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running careerctx retrieve.\n", envVar)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
