package weighting

import (
	"math"
	"testing"
	"time"

	"github.com/ziadkadry99/careerctx/internal/config"
	"github.com/ziadkadry99/careerctx/internal/documents"
)

var fixedNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func newTestCalculator(mutate func(*config.WeightingConfig)) *Calculator {
	cfg := config.DefaultWeighting()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, nil, func() time.Time { return fixedNow })
}

// docAged returns a document whose only date signal is its ingestion time.
func docAged(typ documents.Type, days int, manual float64) documents.Document {
	return documents.Document{
		ID:           "doc",
		Type:         typ,
		Filename:     "document.txt",
		Content:      "plain text without dates",
		IngestedAt:   fixedNow.Add(-time.Duration(days) * 24 * time.Hour),
		ManualWeight: manual,
	}
}

func TestTypeWeights(t *testing.T) {
	c := newTestCalculator(nil)
	want := map[documents.Type]float64{
		documents.TypeCV:            2.0,
		documents.TypeCoverLetter:   1.8,
		documents.TypeProfileImport: 1.2,
		documents.TypeOther:         0.8,
		"unknown":                   0.8,
	}
	for typ, w := range want {
		if got := c.TypeWeight(typ); got != w {
			t.Errorf("TypeWeight(%q) = %v, want %v", typ, got, w)
		}
	}
	if c.MaxTypeWeight() != 2.0 {
		t.Errorf("MaxTypeWeight = %v, want 2.0", c.MaxTypeWeight())
	}
}

func TestWeightPositive(t *testing.T) {
	c := newTestCalculator(nil)
	for _, typ := range documents.Types {
		for _, age := range []int{0, 1, 100, 365, 10000} {
			for _, manual := range []float64{0, -3, 0.01, 1, 7, math.NaN()} {
				if w := c.Weight(docAged(typ, age, manual)); !(w > 0) {
					t.Errorf("type=%s age=%d manual=%v: weight %v is not positive", typ, age, manual, w)
				}
			}
		}
	}
}

func TestWeightMonotonicInAge(t *testing.T) {
	c := newTestCalculator(nil)
	prev := math.Inf(1)
	for age := 0; age <= 800; age += 7 {
		w := c.Weight(docAged(documents.TypeCV, age, 1))
		if w > prev {
			t.Fatalf("weight increased at age %d: %v > %v", age, w, prev)
		}
		prev = w
	}
}

func TestWeightTypeOrdering(t *testing.T) {
	c := newTestCalculator(nil)
	for _, age := range []int{0, 50, 300, 2000} {
		cv := c.Weight(docAged(documents.TypeCV, age, 1))
		other := c.Weight(docAged(documents.TypeOther, age, 1))
		if !(cv > other) {
			t.Errorf("age %d: cv weight %v should exceed other weight %v", age, cv, other)
		}
	}
}

func TestRecencyFloor(t *testing.T) {
	c := newTestCalculator(nil)
	for _, age := range []int{364, 365, 366, 1000, 100000} {
		r := c.RecencyMultiplier(docAged(documents.TypeCV, age, 1))
		if r < 0.1 {
			t.Errorf("age %d: multiplier %v dropped below floor", age, r)
		}
	}
	if r := c.RecencyMultiplier(docAged(documents.TypeCV, 100000, 1)); r != 0.1 {
		t.Errorf("very old document: multiplier %v, want floor 0.1", r)
	}
	if r := c.RecencyMultiplier(docAged(documents.TypeCV, 0, 1)); r != 1.0 {
		t.Errorf("new document: multiplier %v, want 1.0", r)
	}
}

func TestRecencyDisabled(t *testing.T) {
	c := newTestCalculator(func(cfg *config.WeightingConfig) { cfg.RecencyEnabled = false })
	if r := c.RecencyMultiplier(docAged(documents.TypeCV, 5000, 1)); r != 1.0 {
		t.Errorf("expected 1.0 with recency disabled, got %v", r)
	}
}

func TestManualOverrideLinearity(t *testing.T) {
	c := newTestCalculator(nil)
	for _, age := range []int{0, 10, 200, 900} {
		base := c.Weight(docAged(documents.TypeCoverLetter, age, 1))
		for _, k := range []float64{0.1, 0.5, 1.5, 3, 12.75} {
			got := c.Weight(docAged(documents.TypeCoverLetter, age, k))
			if got != k*base {
				t.Errorf("age %d k=%v: weight %v != k*weight(1) %v", age, k, got, k*base)
			}
		}
	}
}

func TestMissingOverrideCountsAsOne(t *testing.T) {
	c := newTestCalculator(nil)
	if c.Weight(docAged(documents.TypeCV, 10, 0)) != c.Weight(docAged(documents.TypeCV, 10, 1)) {
		t.Error("zero override should behave like 1.0")
	}
}

func TestFilenameDateDrivesAge(t *testing.T) {
	c := newTestCalculator(nil)
	doc := documents.Document{
		Type:       documents.TypeCV,
		Filename:   "2024-01-10_CV_Acme.pdf",
		IngestedAt: fixedNow,
	}
	if age := c.AgeDays(doc); age != 10 {
		t.Errorf("expected age 10 from filename, got %d", age)
	}

	b := c.Breakdown(doc)
	want := 1.0 * 2.0 * (1 - 10.0/365) * 1.0
	if math.Abs(b.Weight-want) > 1e-12 {
		t.Errorf("weight %v, want %v", b.Weight, want)
	}
	if !b.EffectiveDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("effective date %v", b.EffectiveDate)
	}
}

func TestFutureDateAgeZero(t *testing.T) {
	c := newTestCalculator(nil)
	doc := documents.Document{Type: documents.TypeCV, Filename: "2030-01-01_CV.pdf", IngestedAt: fixedNow}
	if age := c.AgeDays(doc); age != 0 {
		t.Errorf("expected age 0 for future date, got %d", age)
	}
}

func TestCustomTypeWeights(t *testing.T) {
	c := newTestCalculator(func(cfg *config.WeightingConfig) {
		cfg.TypeWeights = map[string]float64{"cv": 5, "other": -1}
	})
	if c.TypeWeight(documents.TypeCV) != 5 {
		t.Errorf("expected overridden cv weight 5, got %v", c.TypeWeight(documents.TypeCV))
	}
	if c.TypeWeight(documents.TypeOther) != 0.8 {
		t.Errorf("invalid override should keep default, got %v", c.TypeWeight(documents.TypeOther))
	}
	if c.MaxTypeWeight() != 5 {
		t.Errorf("expected max 5, got %v", c.MaxTypeWeight())
	}
}

func TestRankDocuments(t *testing.T) {
	c := newTestCalculator(nil)
	docs := []documents.Document{
		docAged(documents.TypeOther, 10, 1),
		docAged(documents.TypeCV, 10, 1),
		docAged(documents.TypeCoverLetter, 10, 3),
	}
	docs[0].ID, docs[1].ID, docs[2].ID = "other", "cv", "letter"

	ranked := c.RankDocuments(docs)
	want := []string{"letter", "cv", "other"}
	for i, id := range want {
		if ranked[i].DocumentID != id {
			t.Errorf("position %d: got %s, want %s", i, ranked[i].DocumentID, id)
		}
	}
}

func TestWeightClampedForUnvalidatedOverride(t *testing.T) {
	c := newTestCalculator(nil)
	for _, manual := range []float64{math.SmallestNonzeroFloat64, 1e-320, 1e308, math.MaxFloat64} {
		for _, age := range []int{0, 900} {
			w := c.Weight(docAged(documents.TypeOther, age, manual))
			if !(w > 0) || math.IsInf(w, 0) || math.IsNaN(w) {
				t.Errorf("manual %v age %d: weight %v not positive and finite", manual, age, w)
			}
		}
	}
}

func TestWeightWithinBoundsUnclamped(t *testing.T) {
	c := newTestCalculator(nil)
	base := c.Weight(docAged(documents.TypeOther, 900, 1))
	for _, k := range []float64{documents.MinManualWeight, documents.MaxManualWeight} {
		if got := c.Weight(docAged(documents.TypeOther, 900, k)); got != k*base {
			t.Errorf("k=%v: weight %v != k*weight(1) %v", k, got, k*base)
		}
	}
}
