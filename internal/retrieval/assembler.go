// Package retrieval selects the stored content most relevant to a query and
// formats it as labeled fragments for prompt construction.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ziadkadry99/careerctx/internal/chunker"
	"github.com/ziadkadry99/careerctx/internal/config"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/embeddings"
	"github.com/ziadkadry99/careerctx/internal/facts"
	"github.com/ziadkadry99/careerctx/internal/scoring"
)

// DocumentLister supplies document snapshots. *documents.Store implements it.
type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]documents.Document, error)
}

// FactSource supplies company facts matching a query. *facts.Store
// implements it.
type FactSource interface {
	MatchFacts(ctx context.Context, query string, limit int) ([]facts.Fact, error)
}

// LabeledFragment is one block of prompt context.
type LabeledFragment struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// FactLabelPrefix starts the label of fragments built from company facts.
const FactLabelPrefix = "COMPANY RESEARCH: "

// Assembler ranks every chunk of every stored document against a query.
type Assembler struct {
	docs    DocumentLister
	facts   FactSource
	cache   *embeddings.Cache
	chunker *chunker.Chunker
	scorer  *scoring.Scorer
	cfg     config.RetrievalConfig
}

// New creates an Assembler. facts may be nil.
func New(docs DocumentLister, factSource FactSource, cache *embeddings.Cache, ch *chunker.Chunker, scorer *scoring.Scorer, cfg config.RetrievalConfig) *Assembler {
	def := config.DefaultConfig().Retrieval
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MaxFragmentChars <= 0 {
		cfg.MaxFragmentChars = def.MaxFragmentChars
	}
	if cfg.MaxFacts < 0 {
		cfg.MaxFacts = 0
	}
	return &Assembler{
		docs:    docs,
		facts:   factSource,
		cache:   cache,
		chunker: ch,
		scorer:  scorer,
		cfg:     cfg,
	}
}

// Rank scores every non-blank chunk of every document against query and
// returns them best first. Equal scores are ordered by document ingestion
// time (newer first), then document ID, then chunk index.
//
// It fails when documents cannot be listed, when the query cannot be
// embedded, or when ctx is done. A chunk whose embedding fails is still
// scored, with a semantic sub-score of 0.
func (a *Assembler) Rank(ctx context.Context, query string) ([]scoring.ScoredChunk, error) {
	docs, err := a.docs.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	queryVec, err := a.cache.GetOrCompute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var scored []scoring.ScoredChunk
	for _, doc := range docs {
		sig := a.scorer.DocumentSignals(doc)
		for _, ch := range a.chunker.Chunks(doc.ID, doc.Content) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if strings.TrimSpace(ch.Text) == "" {
				continue
			}

			chunkVec, err := a.cache.GetOrCompute(ctx, ch.Text)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				log.Printf("retrieval: embedding chunk %s#%d: %v", ch.DocumentID, ch.Index, err)
				chunkVec = nil
			}
			scored = append(scored, a.scorer.ScoreWith(sig, query, queryVec, ch, chunkVec, doc))
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return less(scored[i], scored[j])
	})
	return scored, nil
}

func less(a, b scoring.ScoredChunk) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if ai, bi := a.Document.IngestedAt, b.Document.IngestedAt; !ai.Equal(bi) {
		return ai.After(bi)
	}
	if a.Document.ID != b.Document.ID {
		return a.Document.ID < b.Document.ID
	}
	return a.Chunk.Index < b.Chunk.Index
}

// Retrieve returns up to topK document fragments for query, followed by up
// to the configured number of matching company facts. A non-positive topK
// uses the configured default.
//
// The result is empty, never an error, when there are no documents or the
// embedding capability is unavailable.
func (a *Assembler) Retrieve(ctx context.Context, query string, topK int) []LabeledFragment {
	if topK <= 0 {
		topK = a.cfg.TopK
	}

	ranked, err := a.Rank(ctx, query)
	if err != nil {
		if errors.Is(err, embeddings.ErrEmbeddingUnavailable) {
			log.Printf("retrieval: no context, %v", err)
		} else {
			log.Printf("retrieval: %v", err)
		}
		return nil
	}
	if len(ranked) == 0 {
		return nil
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	out := make([]LabeledFragment, 0, len(ranked)+a.cfg.MaxFacts)
	for _, sc := range ranked {
		out = append(out, LabeledFragment{
			Label: sc.Document.Type.Label(),
			Text:  truncate(sc.Chunk.Text, a.cfg.MaxFragmentChars),
		})
	}
	return append(out, a.factFragments(ctx, query)...)
}

func (a *Assembler) factFragments(ctx context.Context, query string) []LabeledFragment {
	if a.facts == nil || a.cfg.MaxFacts == 0 {
		return nil
	}
	matched, err := a.facts.MatchFacts(ctx, query, a.cfg.MaxFacts)
	if err != nil {
		log.Printf("retrieval: matching facts: %v", err)
		return nil
	}
	out := make([]LabeledFragment, 0, len(matched))
	for _, f := range matched {
		out = append(out, LabeledFragment{
			Label: FactLabelPrefix + f.Company,
			Text:  truncate(f.Key+": "+f.Value, a.cfg.MaxFragmentChars),
		})
	}
	return out
}

// truncate cuts text to max runes and marks the cut with "...".
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// Format renders fragments as "[From LABEL]: text" blocks separated by
// blank lines.
func Format(fragments []LabeledFragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = fmt.Sprintf("[From %s]: %s", f.Label, f.Text)
	}
	return strings.Join(parts, "\n\n")
}

// BuildContext retrieves fragments for query and formats them. It returns
// "" when nothing relevant is available.
func (a *Assembler) BuildContext(ctx context.Context, query string, topK int) string {
	return Format(a.Retrieve(ctx, query, topK))
}

// EnhancePrompt appends the retrieved context to base. base is returned
// unchanged when there is no context.
func (a *Assembler) EnhancePrompt(ctx context.Context, base, query string, topK int) string {
	block := a.BuildContext(ctx, query, topK)
	if block == "" {
		return base
	}
	return fmt.Sprintf(`%s

ADDITIONAL RELEVANT CONTEXT FROM YOUR DOCUMENTS:
%s

Use this additional context to make the response more specific and relevant to your actual background and experience.
`, base, block)
}

// JobQuery builds a retrieval query from a job target.
func JobQuery(title, description, company string) string {
	var parts []string
	for _, p := range []string{title, description, company} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
