package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const defaultHashingDimensions = 384

// HashingEmbedder is an offline embedder that projects word unigrams and
// bigrams into a fixed number of buckets with signed feature hashing.
// Vectors are L2-normalized, so cosine similarity reflects shared vocabulary.
type HashingEmbedder struct {
	dimensions int
}

// NewHashingEmbedder creates a hashing embedder. Non-positive dimensions
// default to 384.
func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = defaultHashingDimensions
	}
	return &HashingEmbedder{dimensions: dimensions}
}

func (e *HashingEmbedder) Name() string { return "local/hashing-" + strconv.Itoa(e.dimensions) }

func (e *HashingEmbedder) Dimensions() int { return e.dimensions }

func (e *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *HashingEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for i, w := range words {
		e.add(vec, w, 1)
		if i > 0 {
			e.add(vec, words[i-1]+" "+w, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

func (e *HashingEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}
