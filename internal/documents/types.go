package documents

import (
	"errors"
	"strings"
	"time"

	"github.com/ziadkadry99/careerctx/internal/config"
)

// Type is the kind of a stored document.
type Type string

const (
	TypeCV            Type = config.TypeCV
	TypeCoverLetter   Type = config.TypeCoverLetter
	TypeProfileImport Type = config.TypeProfileImport
	TypeOther         Type = config.TypeOther
)

// Types lists every document type.
var Types = []Type{TypeCV, TypeCoverLetter, TypeProfileImport, TypeOther}

var typeAliases = map[string]Type{
	"cv":             TypeCV,
	"resume":         TypeCV,
	"cover_letter":   TypeCoverLetter,
	"cover-letter":   TypeCoverLetter,
	"coverletter":    TypeCoverLetter,
	"cover letter":   TypeCoverLetter,
	"profile_import": TypeProfileImport,
	"profile":        TypeProfileImport,
	"linkedin":       TypeProfileImport,
	"other":          TypeOther,
}

// ParseType maps a user supplied type or alias to a Type. Unknown values
// map to TypeOther.
func ParseType(s string) Type {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return TypeOther
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	switch t {
	case TypeCV, TypeCoverLetter, TypeProfileImport, TypeOther:
		return true
	}
	return false
}

// Label is the upper-case form used to tag context fragments, e.g. "CV".
func (t Type) Label() string {
	return strings.ToUpper(string(t))
}

// DefaultManualWeight is the override applied when none is set.
const DefaultManualWeight = 1.0

// Accepted range of a manual override.
const (
	MinManualWeight = 1e-6
	MaxManualWeight = 1e6
)

// Document is a stored personal document.
type Document struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Filename     string    `json:"filename"`
	Content      string    `json:"content,omitempty"`
	IngestedAt   time.Time `json:"ingested_at"`
	ManualWeight float64   `json:"manual_weight"`
}

// Sentinel errors returned by Store.
var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidWeight = errors.New("manual weight must be between 1e-06 and 1e+06")
)
