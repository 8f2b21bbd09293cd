package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaEmbedder talks to a local Ollama server. All texts of one Embed
// call go out in a single /api/embed request.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewOllamaEmbedder creates an Ollama embedder. baseURL defaults to
// http://localhost:11434.
func NewOllamaEmbedder(model string, dimensions int, baseURL string) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaEmbedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{},
	}
}

func (e *OllamaEmbedder) Name() string { return "ollama/" + e.model }

func (e *OllamaEmbedder) Dimensions() int { return e.dimensions }

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp ollamaEmbedResponse
	err := postJSON(ctx, e.httpClient, e.baseURL+"/api/embed", ollamaEmbedRequest{
		Model: e.model,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}
