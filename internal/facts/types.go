// Package facts stores versioned research facts about companies (industry,
// size, description, ...) and matches them against retrieval queries.
package facts

import (
	"errors"
	"time"
)

// Fact is a single piece of company research. Saving a fact with the same
// company and key supersedes the previous version.
type Fact struct {
	ID           string    `json:"id"`
	Company      string    `json:"company"`
	Key          string    `json:"key"` // e.g. "industry", "description", "website"
	Value        string    `json:"value"`
	Source       string    `json:"source"` // "user", "search", "import"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
	SupersededBy string    `json:"superseded_by,omitempty"`
}

// Fact sources.
const (
	SourceUser   = "user"
	SourceSearch = "search"
	SourceImport = "import"
)

// ErrInvalidFact is returned when a fact is missing a company, key or value
// or names an unknown source.
var ErrInvalidFact = errors.New("invalid fact")

// keyOrder ranks the keys most useful in a prompt first.
var keyOrder = map[string]int{
	"description": 0,
	"industry":    1,
	"size":        2,
	"location":    3,
	"website":     4,
}

func keyRank(key string) int {
	if r, ok := keyOrder[key]; ok {
		return r
	}
	return len(keyOrder)
}
