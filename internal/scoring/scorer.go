// Package scoring ranks a chunk against a query. Five sub-scores in [0, 1]
// are combined into a weighted composite:
//
//   - semantic: cosine similarity of query and chunk embeddings
//   - temporal: the owning document's recency multiplier
//   - domain: the document's type weight over the largest type weight
//   - content quality: length, sentence and query-term density heuristics
//   - lexical: fraction of query terms found in the chunk
//
// A sub-score that panics or comes out NaN or infinite is logged and
// counted as 0, so one malformed chunk never fails a batch.
package scoring

import (
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/careerctx/internal/chunker"
	"github.com/ziadkadry99/careerctx/internal/config"
	"github.com/ziadkadry99/careerctx/internal/documents"
)

// Weighter supplies the document-level signals. *weighting.Calculator
// implements it.
type Weighter interface {
	RecencyMultiplier(doc documents.Document) float64
	TypeWeight(t documents.Type) float64
	MaxTypeWeight() float64
}

// SubScores holds the individual ranking signals.
type SubScores struct {
	Semantic       float64 `json:"semantic"`
	Temporal       float64 `json:"temporal"`
	Domain         float64 `json:"domain"`
	ContentQuality float64 `json:"content_quality"`
	Lexical        float64 `json:"lexical"`
}

// ScoredChunk is a chunk with its composite score for one query.
type ScoredChunk struct {
	Chunk     chunker.Chunk      `json:"chunk"`
	Document  documents.Document `json:"document"`
	Score     float64            `json:"score"`
	SubScores SubScores          `json:"sub_scores"`
}

// Scorer computes ScoredChunks. It holds no mutable state.
type Scorer struct {
	weights  config.ScoreWeights
	quality  config.QualityConfig
	weighter Weighter
}

// New creates a Scorer. weights and quality are expected to be normalized
// by config.Normalize.
func New(weights config.ScoreWeights, quality config.QualityConfig, weighter Weighter) *Scorer {
	return &Scorer{weights: weights, quality: quality, weighter: weighter}
}

// DocSignals are the sub-scores that depend only on the owning document.
// They are computed once per document and shared by all of its chunks.
type DocSignals struct {
	Temporal float64
	Domain   float64
}

// DocumentSignals computes the document-level sub-scores of doc.
func (s *Scorer) DocumentSignals(doc documents.Document) DocSignals {
	return DocSignals{
		Temporal: guard("temporal", doc.ID, func() float64 {
			return s.weighter.RecencyMultiplier(doc)
		}),
		Domain: guard("domain", doc.ID, func() float64 {
			return s.weighter.TypeWeight(doc.Type) / s.weighter.MaxTypeWeight()
		}),
	}
}

// Score rates chunk, which belongs to doc, against query. queryVec and
// chunkVec may be nil when no embedding is available; the semantic
// sub-score is then 0.
func (s *Scorer) Score(query string, queryVec []float32, chunk chunker.Chunk, chunkVec []float32, doc documents.Document) ScoredChunk {
	return s.ScoreWith(s.DocumentSignals(doc), query, queryVec, chunk, chunkVec, doc)
}

// ScoreWith is Score with the document-level sub-scores already computed.
func (s *Scorer) ScoreWith(sig DocSignals, query string, queryVec []float32, chunk chunker.Chunk, chunkVec []float32, doc documents.Document) ScoredChunk {
	terms := QueryTerms(query)
	where := fmt.Sprintf("%s#%d", chunk.DocumentID, chunk.Index)

	sub := SubScores{
		Semantic: guard("semantic", where, func() float64 {
			return Cosine(queryVec, chunkVec)
		}),
		Temporal: sig.Temporal,
		Domain:   sig.Domain,
		ContentQuality: guard("content_quality", where, func() float64 {
			return s.contentQuality(chunk.Text, terms)
		}),
		Lexical: guard("lexical", where, func() float64 {
			return Lexical(chunk.Text, terms)
		}),
	}

	return ScoredChunk{
		Chunk:     chunk,
		Document:  doc,
		Score:     s.Composite(sub),
		SubScores: sub,
	}
}

// Composite returns the weighted sum of sub, clamped to [0, 1].
func (s *Scorer) Composite(sub SubScores) float64 {
	w := s.weights
	v := w.Semantic*sub.Semantic +
		w.Temporal*sub.Temporal +
		w.Domain*sub.Domain +
		w.ContentQuality*sub.ContentQuality +
		w.Lexical*sub.Lexical
	if math.IsNaN(v) {
		return 0
	}
	return clamp01(v)
}

// contentQuality adds partial credit for length, complete sentences and
// query-term density, capped at 1. A query without usable terms scores 0.
func (s *Scorer) contentQuality(text string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	text = strings.TrimSpace(text)
	q := s.quality

	var score float64
	if utf8.RuneCountInString(text) >= q.MinChunkLength {
		score += 0.3
	}

	switch n := CountSentences(text); {
	case n >= q.MinSentences:
		score += 0.3
	case n > 0:
		score += 0.15
	}

	words := Words(text)
	if len(words) > 0 {
		want := make(map[string]bool, len(terms))
		for _, t := range terms {
			want[t] = true
		}
		hits := 0
		for _, w := range words {
			if want[w] {
				hits++
			}
		}
		density := float64(hits) / float64(len(words))
		switch {
		case hits == 0:
		case density >= q.MinDensity && density <= q.MaxDensity:
			score += 0.4
		default:
			score += 0.1
		}
	}

	return math.Min(score, 1)
}

// Lexical returns the fraction of terms that occur among the words of text.
func Lexical(text string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	present := make(map[string]bool)
	for _, w := range Words(text) {
		present[w] = true
	}
	found := 0
	for _, t := range terms {
		if present[t] {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

// guard runs fn and returns its value clamped to [0, 1]. A panic, NaN or
// infinite result is logged and yields 0.
func guard(name, where string, fn func() float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scoring: %s sub-score for %s panicked: %v", name, where, r)
			v = 0
		}
	}()

	v = fn()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		log.Printf("scoring: %s sub-score for %s is %v, using 0", name, where, v)
		return 0
	}
	return clamp01(v)
}
