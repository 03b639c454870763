// ABOUTME: MCP tool implementations for workouts, sessions and exercises.
// ABOUTME: Writes go through the store so failures come back as tool errors.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/analytics"
	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts, newest first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with its exercises and sets",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Create a new workout for a day",
	}, s.handleAddWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Add a set for an exercise to an existing workout",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent training sessions, most recent first",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a training session with its exercise logs",
	}, s.handleGetSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_exercises",
		Description: "Search the exercise catalog and custom exercises by name, muscle, category or equipment",
	}, s.handleSearchExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "check_references",
		Description: "List logged exercises whose ID no longer exists in the catalog",
	}, s.handleCheckReferences)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_series",
		Description: "Get the progress series of one exercise for a metric",
	}, s.handleExerciseSeries)
}

// Tool input/output types

type listInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type workoutSummary struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Exercises int    `json:"exercises"`
	Sets      int    `json:"sets"`
	Notes     string `json:"notes,omitempty"`
}

type listWorkoutsOutput struct {
	Workouts []workoutSummary `json:"workouts"`
	Message  string           `json:"message,omitempty"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or unique ID prefix"`
}

type exerciseEntry struct {
	ExerciseID string              `json:"exercise_id"`
	Name       string              `json:"name"`
	Orphaned   bool                `json:"orphaned,omitempty"`
	Sets       []models.WorkoutSet `json:"sets"`
}

type workoutOutput struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	Exercises []exerciseEntry `json:"exercises"`
}

type addWorkoutInput struct {
	Date  string `json:"date,omitempty" jsonschema:"Day of the workout (YYYY-MM-DD), defaults to today"`
	Notes string `json:"notes,omitempty" jsonschema:"Workout notes"`
}

type addWorkoutOutput struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

type logSetInput struct {
	WorkoutID       string  `json:"workout_id" jsonschema:"Workout ID or prefix"`
	ExerciseID      string  `json:"exercise_id" jsonschema:"Exercise ID from search_exercises"`
	Reps            uint32  `json:"reps,omitempty" jsonschema:"Repetitions"`
	WeightKg        float64 `json:"weight_kg,omitempty" jsonschema:"Weight in kilograms"`
	DistanceKm      float64 `json:"distance_km,omitempty" jsonschema:"Distance in kilometres"`
	DurationSeconds uint32  `json:"duration_seconds,omitempty" jsonschema:"Duration in seconds"`
}

type messageOutput struct {
	Message string `json:"message"`
}

type listSessionsInput struct {
	Limit      int  `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
	ActiveOnly bool `json:"active_only,omitempty" jsonschema:"Only return the session in progress"`
}

type sessionSummary struct {
	ID        string  `json:"id"`
	StartedAt string  `json:"started_at"`
	Active    bool    `json:"active"`
	Duration  string  `json:"duration"`
	Exercises int     `json:"exercises"`
	VolumeKg  float64 `json:"volume_kg"`
}

type listSessionsOutput struct {
	Sessions []sessionSummary `json:"sessions"`
	Message  string           `json:"message,omitempty"`
}

type searchInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search text; empty lists everything"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type exerciseSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Equipment string   `json:"equipment,omitempty"`
	Muscles   []string `json:"muscles"`
}

type searchOutput struct {
	Exercises []exerciseSummary `json:"exercises"`
	Total     int               `json:"total"`
}

type orphansOutput struct {
	Orphans []storage.Orphan `json:"orphans"`
	Message string           `json:"message"`
}

type seriesInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise ID"`
	Metric     string `json:"metric,omitempty" jsonschema:"weight, reps, distance or duration (default weight)"`
}

type seriesOutput struct {
	ExerciseID string            `json:"exercise_id"`
	Metric     string            `json:"metric"`
	Label      string            `json:"label"`
	Points     []analytics.Point `json:"points"`
}

// Tool handlers

func limitOrDefault(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	workouts := s.store.Workouts()
	out := listWorkoutsOutput{Workouts: []workoutSummary{}}
	for i, w := range workouts {
		if i >= limitOrDefault(input.Limit) {
			break
		}
		sum := workoutSummary{ID: w.ID, Date: w.Date, Exercises: len(w.Exercises), Sets: w.SetCount()}
		if w.Notes != nil {
			sum.Notes = *w.Notes
		}
		out.Workouts = append(out.Workouts, sum)
	}
	if len(out.Workouts) == 0 {
		out.Message = "No workouts found."
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.store.GetWorkout(input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}

	out := workoutOutput{ID: w.ID, Date: w.Date, Exercises: []exerciseEntry{}}
	if w.Notes != nil {
		out.Notes = *w.Notes
	}
	for _, ex := range w.Exercises {
		_, known := s.store.ResolveExercise(ex.ExerciseID)
		out.Exercises = append(out.Exercises, exerciseEntry{
			ExerciseID: ex.ExerciseID,
			Name:       ex.DisplayName(s.store.ResolveExercise),
			Orphaned:   !known,
			Sets:       ex.Sets,
		})
	}
	return nil, out, nil
}

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, addWorkoutOutput, error) {
	day := s.now()
	if input.Date != "" {
		t, err := time.Parse(models.DateLayout, input.Date)
		if err != nil {
			return nil, addWorkoutOutput{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", input.Date)
		}
		day = t
	}

	w := models.NewWorkout(day)
	if input.Notes != "" {
		w.WithNotes(input.Notes)
	}
	if err := s.store.OnRecordChange(w); err != nil {
		return nil, addWorkoutOutput{}, fmt.Errorf("failed to save workout: %w", err)
	}

	return nil, addWorkoutOutput{
		ID:      w.ID,
		Date:    w.Date,
		Message: fmt.Sprintf("Added workout for %s (ID: %s)", w.Date, w.ID[:8]),
	}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, messageOutput, error) {
	ex, ok := s.store.ResolveExercise(input.ExerciseID)
	if !ok {
		return nil, messageOutput{}, fmt.Errorf("unknown exercise: %s", input.ExerciseID)
	}

	set := models.WorkoutSet{Reps: input.Reps}
	if input.WeightKg > 0 {
		set.Weight = &input.WeightKg
	}
	if input.DistanceKm > 0 {
		set.Distance = &input.DistanceKm
	}
	if input.DurationSeconds > 0 {
		set.Duration = &input.DurationSeconds
	}

	w, err := s.store.AddSet(input.WorkoutID, ex, set)
	if err != nil {
		return nil, messageOutput{}, fmt.Errorf("failed to log set: %w", err)
	}

	entry := w.FindExercise(ex.ID)
	return nil, messageOutput{
		Message: fmt.Sprintf("Logged set %d of %s on %s", len(entry.Sets), ex.Name, w.Date),
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, listSessionsOutput, error) {
	now := s.now()
	out := listSessionsOutput{Sessions: []sessionSummary{}}

	for _, sess := range s.store.Sessions() {
		if len(out.Sessions) >= limitOrDefault(input.Limit) {
			break
		}
		if input.ActiveOnly && !sess.IsActive() {
			continue
		}
		out.Sessions = append(out.Sessions, sessionSummary{
			ID:        sess.ID,
			StartedAt: sess.Started().UTC().Format(time.RFC3339),
			Active:    sess.IsActive(),
			Duration:  models.FormatDuration(uint64(sess.Duration(now).Seconds())),
			Exercises: len(sess.ExerciseLogs),
			VolumeKg:  analytics.Volume(sess),
		})
	}
	if len(out.Sessions) == 0 {
		out.Message = "No sessions found."
	}
	return nil, out, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, models.WorkoutSession, error) {
	sess, err := s.store.GetSession(input.ID)
	if err != nil {
		return nil, models.WorkoutSession{}, err
	}
	return nil, *sess, nil
}

func (s *Server) handleSearchExercises(ctx context.Context, req *mcp.CallToolRequest, input searchInput) (*mcp.CallToolResult, searchOutput, error) {
	matches := catalog.Search(s.store.AllExercises(), input.Query)
	out := searchOutput{Exercises: []exerciseSummary{}, Total: len(matches)}

	for i, ex := range matches {
		if i >= limitOrDefault(input.Limit) {
			break
		}
		sum := exerciseSummary{
			ID:       ex.ID,
			Name:     ex.Name,
			Category: string(ex.Category),
			Muscles:  ex.Muscles(),
		}
		if ex.Equipment != nil {
			sum.Equipment = *ex.Equipment
		}
		out.Exercises = append(out.Exercises, sum)
	}
	return nil, out, nil
}

func (s *Server) handleCheckReferences(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, orphansOutput, error) {
	orphans := s.store.Orphans()
	if orphans == nil {
		orphans = []storage.Orphan{}
	}
	msg := "All exercise references resolve."
	if len(orphans) > 0 {
		msg = fmt.Sprintf("%d orphaned exercise reference(s); cached names are kept.", len(orphans))
	}
	return nil, orphansOutput{Orphans: orphans, Message: msg}, nil
}

func (s *Server) handleExerciseSeries(ctx context.Context, req *mcp.CallToolRequest, input seriesInput) (*mcp.CallToolResult, seriesOutput, error) {
	name := input.Metric
	if name == "" {
		name = string(analytics.MetricWeight)
	}
	metric, err := analytics.ParseMetric(name)
	if err != nil {
		return nil, seriesOutput{}, err
	}

	return nil, seriesOutput{
		ExerciseID: input.ExerciseID,
		Metric:     string(metric),
		Label:      metric.Label(),
		Points:     analytics.Series(s.store.Sessions(), input.ExerciseID, metric),
	}, nil
}
