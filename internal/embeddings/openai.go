package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openAIBatchSize = 100

// OpenAIEmbedder calls the OpenAI embeddings endpoint, or any server that
// speaks the same protocol when a base URL is given.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewOpenAIEmbedder creates an embedder for model. baseURL may be empty.
func NewOpenAIEmbedder(apiKey, model string, dimensions int, baseURL string) *OpenAIEmbedder {
	cc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cc.BaseURL = baseURL
	}
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(cc),
		model:      model,
		dimensions: dimensions,
	}
}

func (e *OpenAIEmbedder) Name() string { return "openai/" + e.model }

func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += openAIBatchSize {
		end := min(start+openAIBatchSize, len(texts))
		batch := texts[start:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		// Data carries its own index; do not rely on response order.
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
			}
			out[start+d.Index] = d.Embedding
		}
	}
	return out, nil
}
