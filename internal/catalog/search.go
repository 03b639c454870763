// ABOUTME: Case-insensitive exercise search over names and attributes.
// ABOUTME: Matches name, muscles, category, force, equipment and level.
package catalog

import (
	"sort"
	"strings"

	"github.com/harperreed/liftlog/internal/models"
)

// Search returns the exercises matching query. An empty query matches everything.
func Search(exercises []models.Exercise, query string) []models.Exercise {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Exercise
	for _, ex := range exercises {
		if q == "" || matches(ex, q) {
			out = append(out, ex)
		}
	}
	return out
}

func matches(ex models.Exercise, q string) bool {
	if strings.Contains(strings.ToLower(ex.Name), q) {
		return true
	}
	for _, m := range ex.Muscles() {
		if strings.Contains(strings.ToLower(m), q) {
			return true
		}
	}
	if strings.Contains(string(ex.Category), q) || strings.Contains(string(ex.Level), q) {
		return true
	}
	if ex.Force != nil && strings.Contains(string(*ex.Force), q) {
		return true
	}
	if ex.Equipment != nil && strings.Contains(strings.ToLower(*ex.Equipment), q) {
		return true
	}
	return false
}

// MuscleGroups returns the sorted, de-duplicated primary muscles.
func MuscleGroups(exercises []models.Exercise) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range exercises {
		for _, m := range ex.PrimaryMuscles {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}

// EquipmentTypes returns the sorted, de-duplicated equipment names.
func EquipmentTypes(exercises []models.Exercise) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range exercises {
		if ex.Equipment != nil && !seen[*ex.Equipment] {
			seen[*ex.Equipment] = true
			out = append(out, *ex.Equipment)
		}
	}
	sort.Strings(out)
	return out
}
