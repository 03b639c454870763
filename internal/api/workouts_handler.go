// ABOUTME: Handlers for workouts and live sessions.
// ABOUTME: PUT persists through OnRecordChange and reports write failures as 500.
package api

import (
	"fmt"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/harperreed/liftlog/internal/models"
)

func (s *Server) handleWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Workouts())
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	workout, err := s.store.GetWorkout(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handlePutWorkout(w http.ResponseWriter, r *http.Request) {
	var workout models.Workout
	if err := decodeBody(w, r, &workout); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode workout: %w", err))
		return
	}
	if err := matchID(&workout.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.OnRecordChange(&workout); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if workout, err := s.store.GetWorkout(id); err != nil || workout.ID != id {
		s.writeError(w, http.StatusNotFound, errNoExactMatch("workout", id))
		return
	}
	if err := s.store.DeleteWorkout(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.store.Sessions()
	if r.URL.Query().Get("active") == "true" {
		active := []models.WorkoutSession{}
		if sess, ok := s.store.ActiveSession(); ok {
			active = append(active, *sess)
		}
		sessions = active
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	var sess models.WorkoutSession
	if err := decodeBody(w, r, &sess); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode session: %w", err))
		return
	}
	if err := matchID(&sess.ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.OnRecordChange(&sess); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if sess, err := s.store.GetSession(id); err != nil || sess.ID != id {
		s.writeError(w, http.StatusNotFound, errNoExactMatch("session", id))
		return
	}
	if err := s.store.DeleteSession(id); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type finishResponse struct {
	Session   *models.WorkoutSession `json:"session"`
	Discarded bool                   `json:"discarded"`
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if sess, err := s.store.GetSession(id); err != nil || sess.ID != id {
		s.writeError(w, http.StatusNotFound, errNoExactMatch("session", id))
		return
	}
	sess, discarded, err := s.store.FinishSession(id, s.now())
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, finishResponse{Session: sess, Discarded: discarded})
}
