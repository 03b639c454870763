// ABOUTME: Handlers for progress series and personal bests.
// ABOUTME: Computed on demand from the stored sessions.
package api

import (
	"errors"
	"net/http"

	"github.com/harperreed/liftlog/internal/analytics"
)

type seriesResponse struct {
	ExerciseID string            `json:"exercise_id"`
	Metric     analytics.Metric  `json:"metric"`
	Label      string            `json:"label"`
	Points     []analytics.Point `json:"points"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	exerciseID := r.URL.Query().Get("exercise")
	if exerciseID == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("exercise query parameter is required"))
		return
	}
	metricName := r.URL.Query().Get("metric")
	if metricName == "" {
		metricName = string(analytics.MetricWeight)
	}
	metric, err := analytics.ParseMetric(metricName)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, seriesResponse{
		ExerciseID: exerciseID,
		Metric:     metric,
		Label:      metric.Label(),
		Points:     analytics.Series(s.store.Sessions(), exerciseID, metric),
	})
}

func (s *Server) handleBests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.SortedBests(s.store.Sessions()))
}
