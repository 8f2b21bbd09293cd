package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/careerctx/internal/config"
)

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := NewHashingEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, []string{"Senior data scientist with Python"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, _ := e.Embed(ctx, []string{"Senior data scientist with Python"})
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vectors differ at %d", i)
		}
	}
	if len(a[0]) != 64 {
		t.Errorf("expected 64 dimensions, got %d", len(a[0]))
	}

	var norm float64
	for _, v := range a[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit vector, got norm^2 %v", norm)
	}
}

func TestHashingEmbedderSimilarity(t *testing.T) {
	e := NewHashingEmbedder(256)
	vecs, _ := e.Embed(context.Background(), []string{
		"data scientist role",
		"experienced data scientist building models",
		"forklift certification and warehouse logistics",
	})
	dot := func(x, y []float32) float64 {
		var s float64
		for i := range x {
			s += float64(x[i]) * float64(y[i])
		}
		return s
	}
	if dot(vecs[0], vecs[1]) <= dot(vecs[0], vecs[2]) {
		t.Error("expected overlapping vocabulary to be more similar")
	}
}

func TestHashingEmbedderEmptyText(t *testing.T) {
	vecs, err := NewHashingEmbedder(0).Embed(context.Background(), []string{""})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs[0]) != defaultHashingDimensions {
		t.Errorf("expected default dimensions, got %d", len(vecs[0]))
	}
	for _, v := range vecs[0] {
		if v != 0 {
			t.Fatal("expected zero vector for empty text")
		}
	}
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("unexpected model %q", req.Model)
		}
		resp := ollamaEmbedResponse{}
		for i := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{float32(i), 1, 0})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 3, srv.URL+"/")
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][0] != 1 {
		t.Errorf("unexpected vectors %v", vecs)
	}
	if e.Name() != "ollama/nomic-embed-text" {
		t.Errorf("unexpected name %q", e.Name())
	}
}

func TestOllamaEmbedderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder("missing", 3, srv.URL).Embed(context.Background(), []string{"a"})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestGoogleEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-embedding-001:batchEmbedContents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key")
		}
		var req googleBatchRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.Write([]byte(`{"embeddings":[{"values":[0.1,0.2]},{"values":[0.3,0.4]}]}`))
	}))
	defer srv.Close()

	e := NewGoogleEmbedder("test-key", "gemini-embedding-001", 2, srv.URL)
	vecs, err := e.Embed(context.Background(), []string{"x", "y"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs) != 2 || vecs[1][1] != 0.4 {
		t.Errorf("unexpected vectors %v", vecs)
	}
}

func TestOpenAIEmbedderRespectsIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","model":"text-embedding-3-small","data":[
			{"object":"embedding","index":1,"embedding":[0,1]},
			{"object":"embedding","index":0,"embedding":[1,0]}
		]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder("sk-test", "text-embedding-3-small", 2, srv.URL)
	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("vectors not placed by index: %v", vecs)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EmbeddingProvider = config.ProviderLocal
	cfg.EmbeddingDimensions = 0

	emb, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if emb.Dimensions() != 384 {
		t.Errorf("expected preset dimensions 384, got %d", emb.Dimensions())
	}

	t.Setenv("OPENAI_API_KEY", "")
	cfg.EmbeddingProvider = config.ProviderOpenAI
	if _, err := New(cfg); !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Errorf("expected ErrEmbeddingUnavailable without key, got %v", err)
	}

	cache, err := NewCacheFromConfig(cfg)
	if err == nil {
		t.Fatal("expected error from NewCacheFromConfig without key")
	}
	if cache.Available() {
		t.Error("cache should be unavailable without an embedder")
	}
}
