package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GoogleEmbedder uses the Generative Language batchEmbedContents endpoint.
type GoogleEmbedder struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewGoogleEmbedder creates a Google embedder. baseURL may be empty.
func NewGoogleEmbedder(apiKey, model string, dimensions int, baseURL string) *GoogleEmbedder {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	return &GoogleEmbedder{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{},
	}
}

func (e *GoogleEmbedder) Name() string { return "google/" + e.model }

func (e *GoogleEmbedder) Dimensions() int { return e.dimensions }

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googleEmbedRequest struct {
	Model   string        `json:"model"`
	Content googleContent `json:"content"`
}

type googleBatchRequest struct {
	Requests []googleEmbedRequest `json:"requests"`
}

type googleBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := "models/" + e.model
	req := googleBatchRequest{Requests: make([]googleEmbedRequest, len(texts))}
	for i, text := range texts {
		req.Requests[i] = googleEmbedRequest{
			Model:   model,
			Content: googleContent{Parts: []googlePart{{Text: text}}},
		}
	}

	url := fmt.Sprintf("%s/%s:batchEmbedContents?key=%s", e.baseURL, model, e.apiKey)
	var resp googleBatchResponse
	if err := postJSON(ctx, e.httpClient, url, req, &resp); err != nil {
		return nil, fmt.Errorf("google embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("google embed: got %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if len(emb.Values) == 0 {
			return nil, fmt.Errorf("google embed: empty vector at %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}
