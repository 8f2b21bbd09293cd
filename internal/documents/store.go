package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/careerctx/internal/db"
)

// Store persists documents in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a new document store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a document. Missing ID, ingestion time and manual weight
// are filled in; an unknown type is stored as "other".
func (s *Store) Create(ctx context.Context, d Document) (*Document, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.IngestedAt.IsZero() {
		d.IngestedAt = time.Now().UTC()
	}
	if !d.Type.Valid() {
		d.Type = ParseType(string(d.Type))
	}
	if d.ManualWeight == 0 {
		d.ManualWeight = DefaultManualWeight
	}
	if !validWeight(d.ManualWeight) {
		return nil, ErrInvalidWeight
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, type, filename, content, ingested_at, manual_weight)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, string(d.Type), d.Filename, d.Content, d.IngestedAt.UTC(), d.ManualWeight,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	return &d, nil
}

// Get returns the document with the given ID or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, filename, content, ingested_at, manual_weight
		 FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return d, nil
}

// ListDocuments returns every stored document, newest ingestion first.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, filename, content, ingested_at, manual_weight
		 FROM documents ORDER BY ingested_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// SetManualWeight updates a document's manual override. The weight must lie
// in [MinManualWeight, MaxManualWeight].
func (s *Store) SetManualWeight(ctx context.Context, id string, weight float64) error {
	if !validWeight(weight) {
		return ErrInvalidWeight
	}
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET manual_weight = ? WHERE id = ?`, weight, id)
	if err != nil {
		return fmt.Errorf("updating manual weight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating manual weight: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (*Document, error) {
	var d Document
	var typ string
	if err := sc.Scan(&d.ID, &typ, &d.Filename, &d.Content, &d.IngestedAt, &d.ManualWeight); err != nil {
		return nil, err
	}
	d.Type = Type(typ)
	d.IngestedAt = d.IngestedAt.UTC()
	return &d, nil
}

func validWeight(w float64) bool {
	return w >= MinManualWeight && w <= MaxManualWeight
}
