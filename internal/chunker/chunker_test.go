package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(string([]rune(c)[overlap:]))
	}
	return b.String()
}

func TestSplitShortText(t *testing.T) {
	c := New(500, 100)
	got := c.Split("short text")
	if !reflect.DeepEqual(got, []string{"short text"}) {
		t.Errorf("got %q, want [\"short text\"]", got)
	}
}

func TestSplitEmpty(t *testing.T) {
	got := New(500, 100).Split("")
	if len(got) != 1 || got[0] != "" {
		t.Errorf("got %q, want single empty chunk", got)
	}
}

func TestSplitExactSize(t *testing.T) {
	text := strings.Repeat("a", 500)
	got := New(500, 100).Split(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
}

func TestSplitWindows(t *testing.T) {
	c := New(10, 3)
	text := "abcdefghijklmnopqrstuvwxyz"
	got := c.Split(text)
	want := []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxyz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplitRoundTrip(t *testing.T) {
	texts := []string{
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40),
		strings.Repeat("x", 501),
		strings.Repeat("Grüße aus München, 東京 und Zürich. ", 30),
		strings.Repeat("y", 900),
	}
	c := New(500, 100)
	for _, text := range texts {
		chunks := c.Split(text)
		if got := reconstruct(chunks, c.Overlap()); got != text {
			t.Errorf("round trip failed for text of %d runes (%d chunks)", len([]rune(text)), len(chunks))
		}
		for i, ch := range chunks {
			if n := len([]rune(ch)); n > c.Size() {
				t.Errorf("chunk %d has %d runes, exceeds size %d", i, n, c.Size())
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	c := New(50, 10)
	text := strings.Repeat("determinism matters. ", 20)
	first := c.Split(text)
	second := c.Split(text)
	if !reflect.DeepEqual(first, second) {
		t.Error("chunking the same text twice produced different output")
	}
}

func TestNewInvalidFallsBack(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 200},
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.size, tt.overlap)
			if c.Size() != DefaultSize || c.Overlap() != DefaultOverlap {
				t.Errorf("got size=%d overlap=%d, want defaults", c.Size(), c.Overlap())
			}
		})
	}
}

func TestChunksIndexes(t *testing.T) {
	c := New(10, 2)
	chunks := c.Chunks("doc-1", strings.Repeat("z", 25))
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.DocumentID != "doc-1" {
			t.Errorf("chunk %d: document id %q", i, ch.DocumentID)
		}
		if ch.Index != i {
			t.Errorf("chunk %d: index %d", i, ch.Index)
		}
	}
}
