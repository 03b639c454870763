// ABOUTME: Handlers for the merged exercise list and custom exercises.
// ABOUTME: Custom exercises shadow catalog entries with the same ID.
package api

import (
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	results := catalog.Search(s.store.AllExercises(), r.URL.Query().Get("q"))
	if results == nil {
		results = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ex, ok := s.store.ResolveExercise(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("exercise %w: %s", storage.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleCustomExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CustomExercises())
}

func (s *Server) handleCustomExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.store.GetCustomExercise(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handlePutCustomExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.Exercise
	if err := decodeBody(w, r, &ex); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode exercise: %w", err))
		return
	}
	if err := matchID(&ex.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.OnRecordChange(&ex); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleDeleteCustomExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ex, err := s.store.GetCustomExercise(id); err != nil || ex.ID != id {
		s.writeError(w, http.StatusNotFound, errNoExactMatch("custom exercise", id))
		return
	}
	if err := s.store.DeleteCustomExercise(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOrphans(w http.ResponseWriter, r *http.Request) {
	orphans := s.store.Orphans()
	if orphans == nil {
		orphans = []storage.Orphan{}
	}
	writeJSON(w, http.StatusOK, orphans)
}

// matchID fills an empty body ID from the URL and rejects a mismatch.
func matchID(bodyID *string, urlID string) error {
	if *bodyID == "" {
		*bodyID = urlID
		return nil
	}
	if *bodyID != urlID {
		return fmt.Errorf("body id %q does not match path id %q", *bodyID, urlID)
	}
	return nil
}
