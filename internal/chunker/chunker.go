// Package chunker splits document text into overlapping fixed-size windows.
package chunker

import "log"

const (
	DefaultSize    = 500
	DefaultOverlap = 100
)

// Chunk is one window of a document's text. Chunks are derived on demand
// and never persisted.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
}

// Chunker produces overlapping windows measured in runes.
type Chunker struct {
	size    int
	overlap int
}

// New returns a Chunker. An invalid combination (size <= 0, overlap < 0 or
// overlap >= size) is logged and replaced with the defaults.
func New(size, overlap int) *Chunker {
	if size <= 0 || overlap < 0 || overlap >= size {
		log.Printf("chunker: invalid size=%d overlap=%d, using size=%d overlap=%d",
			size, overlap, DefaultSize, DefaultOverlap)
		size, overlap = DefaultSize, DefaultOverlap
	}
	return &Chunker{size: size, overlap: overlap}
}

// Size returns the window length in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of runes shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns the windows of text in order. Text no longer than the
// window size comes back as a single element, even when empty.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	var out []string
	for start := 0; ; start += step {
		end := start + c.size
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// Chunks splits text and tags each window with its document and position.
func (c *Chunker) Chunks(docID, text string) []Chunk {
	parts := c.Split(text)
	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{DocumentID: docID, Index: i, Text: p}
	}
	return chunks
}
