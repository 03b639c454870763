// ABOUTME: Detection of exercise references that no longer resolve.
// ABOUTME: Orphans are reported and logged but never removed.
package storage

import (
	"github.com/charmbracelet/log"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/models"
)

// Referencer is a record holding exercise references.
type Referencer interface {
	RecordID() string
	ExerciseRefs() []models.ExerciseRef
}

// Orphan is an exercise reference missing from both catalogs.
type Orphan struct {
	Key          string `json:"key"`
	RecordID     string `json:"record_id"`
	ExerciseID   string `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
}

// ValidateReferences checks every exercise reference in records against the
// catalog and the custom exercises. Records are not modified.
func ValidateReferences[T Referencer](key string, records []T, cat *catalog.Catalog, custom []models.Exercise, logger *log.Logger) []Orphan {
	customIDs := make(map[string]bool, len(custom))
	for _, ex := range custom {
		customIDs[ex.ID] = true
	}

	var orphans []Orphan
	for _, r := range records {
		for _, ref := range r.ExerciseRefs() {
			if cat.Contains(ref.ID) || customIDs[ref.ID] {
				continue
			}
			logger.Warn("orphaned exercise reference",
				"key", key, "record", r.RecordID(), "id", ref.ID, "name", ref.Name)
			orphans = append(orphans, Orphan{
				Key:          key,
				RecordID:     r.RecordID(),
				ExerciseID:   ref.ID,
				ExerciseName: ref.Name,
			})
		}
	}
	return orphans
}
