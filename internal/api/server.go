// ABOUTME: HTTP JSON API over the liftlog store, routed with chi.
// ABOUTME: Serves the PWA shell and any other client of the same data.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chi "github.com/go-chi/chi/v5"

	"github.com/harperreed/liftlog/internal/storage"
)

// Server routes HTTP requests to the store.
type Server struct {
	router chi.Router
	store  *storage.Store
	logger *log.Logger
	now    func() time.Time
}

// NewServer builds a server with all routes registered.
func NewServer(store *storage.Store, logger *log.Logger) *Server {
	srv := &Server{
		router: chi.NewRouter(),
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/v1/exercises", s.handleExercises)
	s.router.Get("/v1/exercises/{id}", s.handleExercise)

	s.router.Get("/v1/workouts", s.handleWorkouts)
	s.router.Get("/v1/workouts/{id}", s.handleWorkout)
	s.router.Put("/v1/workouts/{id}", s.handlePutWorkout)
	s.router.Delete("/v1/workouts/{id}", s.handleDeleteWorkout)

	s.router.Get("/v1/sessions", s.handleSessions)
	s.router.Get("/v1/sessions/{id}", s.handleSession)
	s.router.Put("/v1/sessions/{id}", s.handlePutSession)
	s.router.Delete("/v1/sessions/{id}", s.handleDeleteSession)
	s.router.Post("/v1/sessions/{id}/finish", s.handleFinishSession)

	s.router.Get("/v1/custom-exercises", s.handleCustomExercises)
	s.router.Get("/v1/custom-exercises/{id}", s.handleCustomExercise)
	s.router.Put("/v1/custom-exercises/{id}", s.handlePutCustomExercise)
	s.router.Delete("/v1/custom-exercises/{id}", s.handleDeleteCustomExercise)

	s.router.Get("/v1/orphans", s.handleOrphans)
	s.router.Get("/v1/analytics/series", s.handleSeries)
	s.router.Get("/v1/analytics/bests", s.handleBests)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api: listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("api: shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	} else {
		s.logger.Warn("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps store errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAmbiguous), errors.Is(err, storage.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrRead):
		return http.StatusServiceUnavailable
	case errors.Is(err, storage.ErrSessionActive), errors.Is(err, storage.ErrSessionFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errNoExactMatch is returned when a destructive call names a record by
// anything other than its full ID.
func errNoExactMatch(kind, id string) error {
	return fmt.Errorf("%s %w: %s", kind, storage.ErrNotFound, id)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}
