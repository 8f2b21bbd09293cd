package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/careerctx/internal/db"
)

// timeLayout is fixed width so timestamps sort lexically.
const timeLayout = "2006-01-02 15:04:05.000000"

// ErrNotFound is returned by GetByID for an unknown entry.
var ErrNotFound = errors.New("audit entry not found")

// Store persists audit entries.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts an entry. Missing ID and timestamp are filled in.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, timestamp, actor_type, action, subject_id, summary, previous_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(timeLayout),
		string(entry.ActorType),
		string(entry.Action),
		entry.SubjectID,
		entry.Summary,
		nullString(entry.PreviousValue),
		nullString(entry.NewValue),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

const entryColumns = `id, timestamp, actor_type, action, subject_id, summary, previous_value, new_value`

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM audit_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// QueryFilter controls which entries Query returns.
type QueryFilter struct {
	SubjectID string
	Action    Action
	Since     *time.Time
	Limit     int
}

// Query returns matching entries, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.SubjectID != "" {
		clauses = append(clauses, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := `SELECT ` + entryColumns + ` FROM audit_entries`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes entries older than before and returns how many
// were removed.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_entries WHERE timestamp < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e                       Entry
		ts, actorType, action   string
		previousValue, newValue sql.NullString
	)
	if err := sc.Scan(&e.ID, &ts, &actorType, &action, &e.SubjectID, &e.Summary, &previousValue, &newValue); err != nil {
		return nil, err
	}
	e.ActorType = ActorType(actorType)
	e.Action = Action(action)
	if t, err := time.Parse(timeLayout, ts); err == nil {
		e.Timestamp = t
	}
	e.PreviousValue = previousValue.String
	e.NewValue = newValue.String
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
