// Package audit records changes to documents, weights and company facts.
package audit

import (
	"context"
	"log"
	"strconv"
	"time"
)

// ActorType identifies which surface made a change.
type ActorType string

const (
	ActorCLI   ActorType = "cli"
	ActorAPI   ActorType = "api"
	ActorAgent ActorType = "agent"
)

// Action describes what was done.
type Action string

const (
	ActionDocumentCreated Action = "document_created"
	ActionDocumentDeleted Action = "document_deleted"
	ActionWeightChanged   Action = "weight_changed"
	ActionFactSaved       Action = "fact_saved"
)

// Entry is a single audit trail record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ActorType     ActorType `json:"actor_type"`
	Action        Action    `json:"action"`
	SubjectID     string    `json:"subject_id"`
	Summary       string    `json:"summary"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}

// RecordWeightChange logs a manual weight update. Failures are logged and
// swallowed so the update itself never fails on the trail.
func (s *Store) RecordWeightChange(ctx context.Context, actor ActorType, documentID string, previous, next float64) {
	s.record(ctx, Entry{
		ActorType:     actor,
		Action:        ActionWeightChanged,
		SubjectID:     documentID,
		Summary:       "manual weight override changed",
		PreviousValue: formatWeight(previous),
		NewValue:      formatWeight(next),
	})
}

// RecordDocument logs a document being created or deleted.
func (s *Store) RecordDocument(ctx context.Context, actor ActorType, action Action, documentID, filename string) {
	s.record(ctx, Entry{
		ActorType: actor,
		Action:    action,
		SubjectID: documentID,
		Summary:   filename,
	})
}

// RecordFact logs a saved fact version.
func (s *Store) RecordFact(ctx context.Context, actor ActorType, factID, company, key, previous, next string) {
	s.record(ctx, Entry{
		ActorType:     actor,
		Action:        ActionFactSaved,
		SubjectID:     factID,
		Summary:       company + "/" + key,
		PreviousValue: previous,
		NewValue:      next,
	})
}

func (s *Store) record(ctx context.Context, e Entry) {
	if s == nil {
		return
	}
	if err := s.Log(ctx, e); err != nil {
		log.Printf("audit: %s %s: %v", e.Action, e.SubjectID, err)
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}
