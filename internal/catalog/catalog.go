// ABOUTME: Exercise catalog embedded at build time from free-exercise-db.
// ABOUTME: Provides ID lookup and merging with user-defined exercises.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/harperreed/liftlog/internal/models"
)

//go:embed data/exercises.json
var embeddedJSON []byte

// Catalog is an immutable, ID-indexed list of exercises.
type Catalog struct {
	exercises []models.Exercise
	byID      map[string]int
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return FromJSON(embeddedJSON)
}

// FromJSON parses a free-exercise-db style JSON array.
func FromJSON(data []byte) (*Catalog, error) {
	var exercises []models.Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		return nil, fmt.Errorf("parse exercise catalog: %w", err)
	}
	return New(exercises), nil
}

// New indexes exercises. Later duplicates of an ID replace earlier ones.
func New(exercises []models.Exercise) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(exercises))}
	for _, ex := range exercises {
		if i, ok := c.byID[ex.ID]; ok {
			c.exercises[i] = ex
			continue
		}
		c.byID[ex.ID] = len(c.exercises)
		c.exercises = append(c.exercises, ex)
	}
	return c
}

// Lookup returns a copy of the exercise with the given ID.
func (c *Catalog) Lookup(id string) (*models.Exercise, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	ex := c.exercises[i]
	return &ex, true
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// All returns a copy of every exercise in catalog order.
func (c *Catalog) All() []models.Exercise {
	if c == nil {
		return nil
	}
	out := make([]models.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.exercises)
}

// Merge returns catalog exercises followed by custom ones. A custom exercise
// with the same ID as a catalog entry replaces it in place.
func Merge(c *Catalog, custom []models.Exercise) []models.Exercise {
	merged := c.All()
	for _, ex := range custom {
		if c != nil {
			if i, ok := c.byID[ex.ID]; ok {
				merged[i] = ex
				continue
			}
		}
		merged = append(merged, ex)
	}
	return merged
}
