package scoring

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Words splits text into lower-cased words of letters and digits.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// QueryTerms returns the distinct words of query longer than two
// characters, in first-seen order.
func QueryTerms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, w := range Words(query) {
		if len([]rune(w)) <= 2 || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// minSentenceWords is the word count a terminated span needs to count as a
// complete sentence.
const minSentenceWords = 3

// CountSentences counts terminated spans of at least three words.
func CountSentences(text string) int {
	n := 0
	for _, s := range sentencePattern.FindAllString(text, -1) {
		if len(Words(s)) >= minSentenceWords {
			n++
		}
	}
	return n
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
// Empty, mismatched or zero-norm vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
