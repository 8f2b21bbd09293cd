package facts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the fact API routes.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/facts", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleSave(store))
		r.Get("/history", handleHistory(store))
		r.Get("/{id}", handleGet(store))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facts, err := store.Current(r.Context(), r.URL.Query().Get("company"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if facts == nil {
			facts = []Fact{}
		}
		writeJSON(w, http.StatusOK, facts)
	}
}

func handleSave(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f Fact
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		saved, err := store.Save(r.Context(), f)
		if errors.Is(err, ErrInvalidFact) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, saved)
	}
}

func handleHistory(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		company := r.URL.Query().Get("company")
		key := r.URL.Query().Get("key")
		if company == "" || key == "" {
			writeError(w, http.StatusBadRequest, "company and key are required")
			return
		}
		facts, err := store.History(r.Context(), company, key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if facts == nil {
			facts = []Fact{}
		}
		writeJSON(w, http.StatusOK, facts)
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if f == nil {
			writeError(w, http.StatusNotFound, "fact not found")
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}
