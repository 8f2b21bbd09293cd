package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/careerctx/internal/audit"
	"github.com/ziadkadry99/careerctx/internal/documents"
	"github.com/ziadkadry99/careerctx/internal/retrieval"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("server: encoding response: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"encoding response failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.deps.Documents.ListDocuments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Weights.RankDocuments(docs))
}

type createDocumentRequest struct {
	Type       string    `json:"type"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	IngestedAt time.Time `json:"ingested_at"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	doc, err := s.deps.Documents.Create(r.Context(), documents.Document{
		Type:       documents.ParseType(req.Type),
		Filename:   req.Filename,
		Content:    req.Content,
		IngestedAt: req.IngestedAt,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.deps.Audit.RecordDocument(r.Context(), audit.ActorAPI, audit.ActionDocumentCreated, doc.ID, doc.Filename)
	writeJSON(w, http.StatusCreated, s.deps.Weights.Breakdown(*doc))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.deps.Documents.Delete(r.Context(), id)
	if errors.Is(err, documents.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.deps.Audit.RecordDocument(r.Context(), audit.ActorAPI, audit.ActionDocumentDeleted, id, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetWeight(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Documents.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, documents.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Weights.Breakdown(*doc))
}

type setWeightRequest struct {
	ManualWeight *float64 `json:"manual_weight"`
}

func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	var req setWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ManualWeight == nil {
		writeError(w, http.StatusBadRequest, "manual_weight is required")
		return
	}

	id := chi.URLParam(r, "id")
	before, err := s.deps.Documents.Get(r.Context(), id)
	if errors.Is(err, documents.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = s.deps.Documents.SetManualWeight(r.Context(), id, *req.ManualWeight)
	switch {
	case errors.Is(err, documents.ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, documents.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.deps.Audit.RecordWeightChange(r.Context(), audit.ActorAPI, id, before.ManualWeight, *req.ManualWeight)

	doc, err := s.deps.Documents.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Weights.Breakdown(*doc))
}

type retrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type retrieveResponse struct {
	Fragments []retrieval.LabeledFragment `json:"fragments"`
	Context   string                      `json:"context"`
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	frags := s.deps.Assembler.Retrieve(r.Context(), req.Query, req.TopK)
	if frags == nil {
		frags = []retrieval.LabeledFragment{}
	}
	writeJSON(w, http.StatusOK, retrieveResponse{
		Fragments: frags,
		Context:   retrieval.Format(frags),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cache == nil {
		writeError(w, http.StatusServiceUnavailable, "embedding cache not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Cache.Stats())
}
