package facts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ziadkadry99/careerctx/internal/db"
)

// Store manages persistence of company facts.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a new fact store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Save inserts a fact. If a current fact exists for the same company and
// key, it is superseded and the new fact gets the next version.
func (s *Store) Save(ctx context.Context, f Fact) (*Fact, error) {
	f.Company = strings.TrimSpace(f.Company)
	f.Key = strings.ToLower(strings.TrimSpace(f.Key))
	f.Value = strings.TrimSpace(f.Value)
	if f.Source == "" {
		f.Source = SourceUser
	}
	if f.Company == "" || f.Key == "" || f.Value == "" {
		return nil, fmt.Errorf("%w: company, key and value are required", ErrInvalidFact)
	}
	switch f.Source {
	case SourceUser, SourceSearch, SourceImport:
	default:
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidFact, f.Source)
	}

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := s.now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	f.SupersededBy = ""

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	var existingVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM facts
		 WHERE company = ? AND key = ? AND superseded_by IS NULL
		 ORDER BY version DESC LIMIT 1`,
		f.Company, f.Key,
	).Scan(&existingID, &existingVersion)

	switch {
	case err == nil:
		f.Version = existingVersion + 1
		if _, err := tx.ExecContext(ctx,
			`UPDATE facts SET superseded_by = ?, updated_at = ? WHERE id = ?`,
			f.ID, now, existingID,
		); err != nil {
			return nil, fmt.Errorf("superseding old fact: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		f.Version = 1
	default:
		return nil, fmt.Errorf("checking existing fact: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO facts (id, company, key, value, source, created_at, updated_at, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Company, f.Key, f.Value, f.Source, f.CreatedAt, f.UpdatedAt, f.Version,
	); err != nil {
		return nil, fmt.Errorf("inserting fact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing fact: %w", err)
	}
	return &f, nil
}

const factColumns = `id, company, key, value, source, created_at, updated_at, version, superseded_by`

func scanFacts(rows *sql.Rows) ([]Fact, error) {
	defer rows.Close()
	var out []Fact
	for rows.Next() {
		var f Fact
		var supersededBy sql.NullString
		if err := rows.Scan(&f.ID, &f.Company, &f.Key, &f.Value, &f.Source,
			&f.CreatedAt, &f.UpdatedAt, &f.Version, &supersededBy); err != nil {
			return nil, fmt.Errorf("scanning fact: %w", err)
		}
		f.SupersededBy = supersededBy.String
		out = append(out, f)
	}
	return out, rows.Err()
}

// Get retrieves a fact by ID. It returns nil when no fact exists.
func (s *Store) Get(ctx context.Context, id string) (*Fact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+factColumns+` FROM facts WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting fact: %w", err)
	}
	facts, err := scanFacts(rows)
	if err != nil || len(facts) == 0 {
		return nil, err
	}
	return &facts[0], nil
}

// Current returns the non-superseded facts, optionally for one company
// (case-insensitive), ordered by company then key relevance.
func (s *Store) Current(ctx context.Context, company string) ([]Fact, error) {
	query := `SELECT ` + factColumns + ` FROM facts WHERE superseded_by IS NULL`
	var args []any
	if company != "" {
		query += ` AND company = ?`
		args = append(args, strings.TrimSpace(company))
	}
	query += ` ORDER BY company, updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying facts: %w", err)
	}
	facts, err := scanFacts(rows)
	if err != nil {
		return nil, err
	}
	sortFacts(facts)
	return facts, nil
}

// History returns every version of a company's fact, oldest first.
func (s *Store) History(ctx context.Context, company, key string) ([]Fact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+factColumns+` FROM facts WHERE company = ? AND key = ? ORDER BY version ASC`,
		strings.TrimSpace(company), strings.ToLower(strings.TrimSpace(key)))
	if err != nil {
		return nil, fmt.Errorf("querying fact history: %w", err)
	}
	return scanFacts(rows)
}

// MatchFacts returns up to limit current facts about companies named in
// query. A company matches when its name appears in the query as whole
// words, ignoring case.
func (s *Store) MatchFacts(ctx context.Context, query string, limit int) ([]Fact, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	all, err := s.Current(ctx, "")
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var out []Fact
	for _, f := range all {
		if !containsPhrase(q, strings.ToLower(f.Company)) {
			continue
		}
		out = append(out, f)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func sortFacts(facts []Fact) {
	sort.SliceStable(facts, func(i, j int) bool {
		ci, cj := strings.ToLower(facts[i].Company), strings.ToLower(facts[j].Company)
		if ci != cj {
			return ci < cj
		}
		return keyRank(facts[i].Key) < keyRank(facts[j].Key)
	})
}

// containsPhrase reports whether phrase occurs in text bounded by non-word
// characters or the ends of text.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		start = i + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}
