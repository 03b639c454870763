// ABOUTME: Store owns the cached collections and the lifecycle hooks.
// ABOUTME: OnAppStart loads, migrates and validates; OnRecordChange persists.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/kv"
	"github.com/harperreed/liftlog/internal/models"
)

// Store is the application's single entry point to persisted data.
type Store struct {
	kv     kv.Store
	logger *log.Logger

	catMu   sync.RWMutex
	catalog *catalog.Catalog

	workouts  *Collection[models.Workout]
	sessions  *Collection[models.WorkoutSession]
	exercises *Collection[models.Exercise]

	workoutChain  *Chain[models.Workout]
	sessionChain  *Chain[models.WorkoutSession]
	exerciseChain *Chain[models.Exercise]
}

// New creates a store over a KV backend. Nothing is read until first use.
func New(store kv.Store, cat *catalog.Catalog, logger *log.Logger) *Store {
	return &Store{
		kv:            store,
		logger:        logger,
		catalog:       cat,
		workouts:      NewCollection[models.Workout](WorkoutsKey),
		sessions:      NewCollection[models.WorkoutSession](SessionsKey),
		exercises:     NewCollection[models.Exercise](CustomExercisesKey),
		workoutChain:  WorkoutChain(),
		sessionChain:  SessionChain(),
		exerciseChain: ExerciseChain(),
	}
}

// KV returns the backing key-value store.
func (s *Store) KV() kv.Store { return s.kv }

// Catalog returns the exercise catalog in use.
func (s *Store) Catalog() *catalog.Catalog {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	return s.catalog
}

// SetCatalog swaps the catalog, for example after a refresh.
func (s *Store) SetCatalog(c *catalog.Catalog) {
	s.catMu.Lock()
	s.catalog = c
	s.catMu.Unlock()
}

// CollectionReport summarises the startup pass over one key.
type CollectionReport struct {
	Key      string `json:"key"`
	Records  int    `json:"records"`
	Migrated int    `json:"migrated"`
	Ahead    int    `json:"ahead"`
}

// StartupReport is the result of OnAppStart.
type StartupReport struct {
	Collections []CollectionReport `json:"collections"`
	Orphans     []Orphan           `json:"orphans"`
}

// OnAppStart loads every collection, migrates and persists outdated records,
// then checks exercise references. Write failures do not stop the pass; they
// are joined into the returned error.
func (s *Store) OnAppStart() (*StartupReport, error) {
	report := &StartupReport{}
	var errs []error

	for _, res := range []loadResult{
		ensure(s, s.exercises, s.exerciseChain),
		ensure(s, s.workouts, s.workoutChain),
		ensure(s, s.sessions, s.sessionChain),
	} {
		report.Collections = append(report.Collections, res.CollectionReport)
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}

	report.Orphans = s.Orphans()
	s.logger.Debug("startup complete", "orphans", len(report.Orphans))
	return report, errors.Join(errs...)
}

// Orphans lists exercise references in workouts and sessions that resolve in
// neither the catalog nor the custom exercises.
func (s *Store) Orphans() []Orphan {
	cat := s.Catalog()
	custom := s.CustomExercises()
	orphans := ValidateReferences(WorkoutsKey, s.Workouts(), cat, custom, s.logger)
	return append(orphans, ValidateReferences(SessionsKey, s.Sessions(), cat, custom, s.logger)...)
}

// MigrationStatus reports, without writing, what a migration pass would do.
func (s *Store) MigrationStatus() []CollectionReport {
	return []CollectionReport{
		status(s, CustomExercisesKey, s.exerciseChain),
		status(s, WorkoutsKey, s.workoutChain),
		status(s, SessionsKey, s.sessionChain),
	}
}

// OnRecordChange persists a created or edited record. It accepts workouts,
// sessions and custom exercises, by value or pointer; pointers receive the
// upgraded record.
func (s *Store) OnRecordChange(record any) error {
	switch r := record.(type) {
	case *models.Workout:
		up, err := s.SaveWorkout(*r)
		*r = up
		return err
	case models.Workout:
		_, err := s.SaveWorkout(r)
		return err
	case *models.WorkoutSession:
		up, err := s.SaveSession(*r)
		*r = up
		return err
	case models.WorkoutSession:
		_, err := s.SaveSession(r)
		return err
	case *models.Exercise:
		up, err := s.SaveCustomExercise(*r)
		*r = up
		return err
	case models.Exercise:
		_, err := s.SaveCustomExercise(r)
		return err
	default:
		return fmt.Errorf("unsupported record type %T", record)
	}
}

// Workouts returns all workouts, newest date first.
func (s *Store) Workouts() []models.Workout {
	ensure(s, s.workouts, s.workoutChain)
	out := s.workouts.Snapshot()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// GetWorkout finds a workout by ID or unique ID prefix.
func (s *Store) GetWorkout(idOrPrefix string) (*models.Workout, error) {
	ensure(s, s.workouts, s.workoutChain)
	w, err := resolve(s.workouts.Snapshot(), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("workout %w", err)
	}
	return &w, nil
}

// SaveWorkout upgrades and upserts a workout.
func (s *Store) SaveWorkout(w models.Workout) (models.Workout, error) {
	return upsert(s, s.workouts, s.workoutChain, w)
}

// DeleteWorkout removes a workout by ID or unique prefix.
func (s *Store) DeleteWorkout(idOrPrefix string) error {
	_, err := remove(s, s.workouts, s.workoutChain, idOrPrefix)
	return err
}

// AddSet appends a set for ex to the workout, adding the exercise entry if
// it is not there yet.
func (s *Store) AddSet(workoutIDOrPrefix string, ex *models.Exercise, set models.WorkoutSet) (*models.Workout, error) {
	w, err := s.GetWorkout(workoutIDOrPrefix)
	if err != nil {
		return nil, err
	}
	entry := w.FindExercise(ex.ID)
	if entry == nil {
		entry = w.AddExercise(ex)
	}
	entry.Sets = append(entry.Sets, set)
	saved, err := s.SaveWorkout(*w)
	return &saved, err
}

// Sessions returns all sessions, most recent first.
func (s *Store) Sessions() []models.WorkoutSession {
	ensure(s, s.sessions, s.sessionChain)
	out := s.sessions.Snapshot()
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime > out[j].StartTime })
	return out
}

// GetSession finds a session by ID or unique ID prefix.
func (s *Store) GetSession(idOrPrefix string) (*models.WorkoutSession, error) {
	ensure(s, s.sessions, s.sessionChain)
	sess, err := resolve(s.sessions.Snapshot(), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("session %w", err)
	}
	return &sess, nil
}

// ActiveSession returns the most recent unfinished session.
func (s *Store) ActiveSession() (*models.WorkoutSession, bool) {
	for _, sess := range s.Sessions() {
		if sess.IsActive() {
			return &sess, true
		}
	}
	return nil, false
}

// SaveSession upgrades and upserts a session.
func (s *Store) SaveSession(sess models.WorkoutSession) (models.WorkoutSession, error) {
	return upsert(s, s.sessions, s.sessionChain, sess)
}

// DeleteSession removes a session by ID or unique prefix.
func (s *Store) DeleteSession(idOrPrefix string) error {
	_, err := remove(s, s.sessions, s.sessionChain, idOrPrefix)
	return err
}

// StartSession begins a new session unless one is already running.
func (s *Store) StartSession(now time.Time) (*models.WorkoutSession, error) {
	if active, ok := s.ActiveSession(); ok {
		return active, fmt.Errorf("%w: %s", ErrSessionActive, active.ID)
	}
	saved, err := s.SaveSession(*models.NewWorkoutSessionAt(now))
	return &saved, err
}

// LogExercise appends a log to an unfinished session.
func (s *Store) LogExercise(sessionIDOrPrefix string, l models.ExerciseLog) (*models.WorkoutSession, error) {
	sess, err := s.GetSession(sessionIDOrPrefix)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrSessionFinished, sess.ID)
	}
	sess.AddLog(l)
	saved, err := s.SaveSession(*sess)
	return &saved, err
}

// FinishSession stamps the end time. A session without logs is cancelled:
// it is deleted instead of saved and discarded is true.
func (s *Store) FinishSession(idOrPrefix string, now time.Time) (sess *models.WorkoutSession, discarded bool, err error) {
	sess, err = s.GetSession(idOrPrefix)
	if err != nil {
		return nil, false, err
	}
	if !sess.IsActive() {
		return sess, false, fmt.Errorf("%w: %s", ErrSessionFinished, sess.ID)
	}
	sess.Finish(now)
	if sess.IsCancelled() {
		s.logger.Info("discarding empty session", "id", sess.ID)
		return sess, true, s.DeleteSession(sess.ID)
	}
	saved, err := s.SaveSession(*sess)
	return &saved, false, err
}

// LastExerciseLog returns the most recent log for an exercise across all
// sessions, used to prefill the next set.
func (s *Store) LastExerciseLog(exerciseID string) (*models.ExerciseLog, bool) {
	var last *models.ExerciseLog
	for _, sess := range s.Sessions() {
		for i := range sess.ExerciseLogs {
			l := sess.ExerciseLogs[i]
			if l.ExerciseID != exerciseID {
				continue
			}
			if last == nil || l.StartTime > last.StartTime {
				last = &l
			}
		}
	}
	return last, last != nil
}

// CustomExercises returns user-defined exercises sorted by name.
func (s *Store) CustomExercises() []models.Exercise {
	ensure(s, s.exercises, s.exerciseChain)
	out := s.exercises.Snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// GetCustomExercise finds a custom exercise by ID or unique ID prefix.
func (s *Store) GetCustomExercise(idOrPrefix string) (*models.Exercise, error) {
	ensure(s, s.exercises, s.exerciseChain)
	ex, err := resolve(s.exercises.Snapshot(), idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("custom exercise %w", err)
	}
	return &ex, nil
}

// SaveCustomExercise upgrades and upserts a custom exercise.
func (s *Store) SaveCustomExercise(ex models.Exercise) (models.Exercise, error) {
	if strings.TrimSpace(ex.Name) == "" {
		return ex, fmt.Errorf("%w: exercise name is required", ErrInvalid)
	}
	return upsert(s, s.exercises, s.exerciseChain, ex)
}

// DeleteCustomExercise removes a custom exercise. References to it in
// workouts and sessions become orphans and keep their cached names.
func (s *Store) DeleteCustomExercise(idOrPrefix string) error {
	_, err := remove(s, s.exercises, s.exerciseChain, idOrPrefix)
	return err
}

// AllExercises returns catalog and custom exercises, custom ones shadowing
// catalog entries with the same ID.
func (s *Store) AllExercises() []models.Exercise {
	return catalog.Merge(s.Catalog(), s.CustomExercises())
}

// ResolveExercise looks up an ID among custom exercises, then the catalog.
func (s *Store) ResolveExercise(id string) (*models.Exercise, bool) {
	for _, ex := range s.CustomExercises() {
		if ex.ID == id {
			return &ex, true
		}
	}
	return s.Catalog().Lookup(id)
}

type loadResult struct {
	CollectionReport
	loaded bool
	err    error
}

// ensure loads a collection on first use, migrating and persisting it when
// any record was outdated. A backend read failure leaves it unloaded, so the
// next call retries and writes are refused meanwhile.
func ensure[T Record[T]](s *Store, c *Collection[T], chain *Chain[T]) loadResult {
	res := loadResult{CollectionReport: CollectionReport{Key: c.Key()}}
	loaded, err := c.Ensure(func() ([]T, []json.RawMessage, error) {
		records, kept, err := loadKeeping[T](s.kv, c.Key(), s.logger)
		if err != nil {
			return nil, nil, err
		}
		res.Migrated = chain.Pending(records)
		if ahead := chain.Ahead(records); len(ahead) > 0 {
			res.Ahead = len(ahead)
			s.logger.Warn("leaving records from a newer schema untouched",
				"key", c.Key(), "count", len(ahead), "current", chain.Current())
		}
		if chain.Migrate(records) {
			s.logger.Info("migrated records", "key", c.Key(), "count", res.Migrated, "to", chain.Current())
			if err := SaveKeeping(s.kv, c.Key(), records, kept); err != nil {
				s.logger.Error("persist migrated records", "key", c.Key(), "err", err)
				res.err = err
			}
		}
		return records, kept, nil
	})
	if err != nil {
		res.Migrated, res.Ahead = 0, 0
		res.err = err
		return res
	}
	if !loaded {
		res.Migrated = 0
	}
	res.loaded = true
	res.Records = len(c.Snapshot())
	return res
}

func status[T Record[T]](s *Store, key string, chain *Chain[T]) CollectionReport {
	records := Load[T](s.kv, key, s.logger)
	return CollectionReport{
		Key:      key,
		Records:  len(records),
		Migrated: chain.Pending(records),
		Ahead:    len(chain.Ahead(records)),
	}
}

// upsert upgrades record and writes it into the collection. A stored copy
// from a newer schema keeps its version.
func upsert[T Record[T]](s *Store, c *Collection[T], chain *Chain[T], record T) (T, error) {
	if record.RecordID() == "" {
		return record, fmt.Errorf("%w: record has no id", ErrInvalid)
	}
	if res := ensure(s, c, chain); !res.loaded {
		return record, res.err
	}
	record, _ = chain.Upgrade(record)
	err := c.Mutate(func(items []T) ([]T, error) {
		for _, old := range items {
			if old.RecordID() == record.RecordID() && old.SchemaVersion() > record.SchemaVersion() {
				s.logger.Warn("keeping newer schema version", "key", c.Key(),
					"id", record.RecordID(), "version", old.SchemaVersion())
				record = record.WithSchemaVersion(old.SchemaVersion())
			}
		}
		return withRecord(items, record), nil
	}, persister[T](s, c.Key()))
	return record, err
}

func remove[T Record[T]](s *Store, c *Collection[T], chain *Chain[T], idOrPrefix string) (T, error) {
	var removed T
	if res := ensure(s, c, chain); !res.loaded {
		return removed, res.err
	}
	err := c.Mutate(func(items []T) ([]T, error) {
		r, err := resolve(items, idOrPrefix)
		if err != nil {
			return nil, err
		}
		removed = r
		return withoutRecord(items, r.RecordID()), nil
	}, persister[T](s, c.Key()))
	return removed, err
}

// persister writes a collection. The cache already holds the new state, so a
// failed write leaves memory ahead of storage until the next successful save.
func persister[T any](s *Store, key string) func([]T, []json.RawMessage) error {
	return func(records []T, kept []json.RawMessage) error {
		if err := SaveKeeping(s.kv, key, records, kept); err != nil {
			s.logger.Error("save failed", "key", key, "err", err)
			return err
		}
		return nil
	}
}

// resolve matches an exact ID first, then a unique prefix.
func resolve[T Record[T]](items []T, idOrPrefix string) (T, error) {
	var zero T
	if idOrPrefix == "" {
		return zero, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	var matches []T
	for _, r := range items {
		if r.RecordID() == idOrPrefix {
			return r, nil
		}
		if strings.HasPrefix(r.RecordID(), idOrPrefix) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%w %s: matches %d records", ErrAmbiguous, idOrPrefix, len(matches))
	}
}
