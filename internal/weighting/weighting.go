// Package weighting computes a per-document trust weight from document
// type, inferred document age and the user's manual override.
//
//	weight = base_weight × type_weight × recency_multiplier × manual_override
//
// The weight is always positive: the recency multiplier never drops below
// the configured floor and a missing or invalid override counts as 1.
package weighting

import (
	"math"
	"sort"
	"time"

	"github.com/ziadkadry99/careerctx/internal/config"
	"github.com/ziadkadry99/careerctx/internal/dateinfer"
	"github.com/ziadkadry99/careerctx/internal/documents"
)

// Calculator computes document weights. It is safe for concurrent use.
type Calculator struct {
	cfg        config.WeightingConfig
	inferencer dateinfer.Inferencer
	now        func() time.Time
	maxType    float64
}

// Breakdown shows every factor behind a document's weight.
type Breakdown struct {
	DocumentID        string         `json:"document_id"`
	Filename          string         `json:"filename"`
	Type              documents.Type `json:"type"`
	EffectiveDate     time.Time      `json:"effective_date"`
	AgeDays           int            `json:"age_days"`
	BaseWeight        float64        `json:"base_weight"`
	TypeWeight        float64        `json:"type_weight"`
	RecencyMultiplier float64        `json:"recency_multiplier"`
	RecencyEnabled    bool           `json:"recency_enabled"`
	ManualWeight      float64        `json:"manual_weight"`
	Weight            float64        `json:"weight"`
}

// New creates a Calculator. cfg is expected to be normalized; a nil
// inferencer uses dateinfer.Heuristic and a nil clock uses time.Now.
func New(cfg config.WeightingConfig, inferencer dateinfer.Inferencer, now func() time.Time) *Calculator {
	if inferencer == nil {
		inferencer = dateinfer.Heuristic{}
	}
	if now == nil {
		now = time.Now
	}

	types := config.DefaultTypeWeights()
	for k, v := range cfg.TypeWeights {
		if v > 0 {
			types[k] = v
		}
	}
	cfg.TypeWeights = types

	c := &Calculator{cfg: cfg, inferencer: inferencer, now: now}
	for _, v := range types {
		c.maxType = math.Max(c.maxType, v)
	}
	return c
}

// TypeWeight returns the multiplier for t. Unknown types use the "other"
// multiplier.
func (c *Calculator) TypeWeight(t documents.Type) float64 {
	if w, ok := c.cfg.TypeWeights[string(t)]; ok {
		return w
	}
	return c.cfg.TypeWeights[string(documents.TypeOther)]
}

// MaxTypeWeight returns the largest configured type multiplier.
func (c *Calculator) MaxTypeWeight() float64 {
	return c.maxType
}

// EffectiveDate is the inferred date of doc, falling back to its ingestion time.
func (c *Calculator) EffectiveDate(doc documents.Document) time.Time {
	return c.inferencer.InferDate(doc.Filename, doc.Content, doc.IngestedAt)
}

// AgeDays returns the whole days between now and the effective date,
// floored at zero for future dates.
func (c *Calculator) AgeDays(doc documents.Document) int {
	return ageDays(c.now(), c.EffectiveDate(doc))
}

func ageDays(now, date time.Time) int {
	d := now.Sub(date)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// RecencyMultiplier decays linearly from 1 to the configured floor over the
// recency period. It is 1 when recency weighting is disabled.
func (c *Calculator) RecencyMultiplier(doc documents.Document) float64 {
	if !c.cfg.RecencyEnabled {
		return 1.0
	}
	return c.recency(c.AgeDays(doc))
}

func (c *Calculator) recency(age int) float64 {
	period := c.cfg.RecencyPeriodDays
	floor := c.cfg.MinWeightMultiplier
	if period <= 0 {
		period = config.DefaultWeighting().RecencyPeriodDays
	}
	if floor <= 0 || floor > 1 {
		floor = config.DefaultWeighting().MinWeightMultiplier
	}
	return math.Max(floor, 1-float64(age)/period)
}

// ManualWeight returns the document's override, or 1 when unset or invalid.
func ManualWeight(doc documents.Document) float64 {
	w := doc.ManualWeight
	if w > 0 && !math.IsInf(w, 0) {
		return w
	}
	return documents.DefaultManualWeight
}

// Weight returns the document's trust weight. It is always positive.
func (c *Calculator) Weight(doc documents.Document) float64 {
	return c.Breakdown(doc).Weight
}

// Breakdown returns the weight together with every factor that produced it.
func (c *Calculator) Breakdown(doc documents.Document) Breakdown {
	eff := c.EffectiveDate(doc)
	age := ageDays(c.now(), eff)

	recency := 1.0
	if c.cfg.RecencyEnabled {
		recency = c.recency(age)
	}
	base := c.cfg.BaseWeight
	if base <= 0 || math.IsInf(base, 0) || math.IsNaN(base) {
		base = config.DefaultWeighting().BaseWeight
	}

	b := Breakdown{
		DocumentID:        doc.ID,
		Filename:          doc.Filename,
		Type:              doc.Type,
		EffectiveDate:     eff,
		AgeDays:           age,
		BaseWeight:        base,
		TypeWeight:        c.TypeWeight(doc.Type),
		RecencyMultiplier: recency,
		RecencyEnabled:    c.cfg.RecencyEnabled,
		ManualWeight:      ManualWeight(doc),
	}
	// The override is applied last so weight(k) == k × weight(1) exactly.
	// Overrides the store never accepted can still underflow or overflow.
	b.Weight = clampWeight((b.BaseWeight * b.TypeWeight * b.RecencyMultiplier) * b.ManualWeight)
	return b
}

func clampWeight(w float64) float64 {
	return math.Min(math.Max(w, math.SmallestNonzeroFloat64), math.MaxFloat64)
}

// RankDocuments returns the breakdown of every document, heaviest first.
// Equal weights are ordered by document ID.
func (c *Calculator) RankDocuments(docs []documents.Document) []Breakdown {
	out := make([]Breakdown, len(docs))
	for i, d := range docs {
		out[i] = c.Breakdown(d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].DocumentID < out[j].DocumentID
	})
	return out
}
