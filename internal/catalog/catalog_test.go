// ABOUTME: Tests for the embedded catalog, merging and search.
// ABOUTME: Uses the bundled exercises.json as fixture data.
package catalog

import (
	"testing"

	"github.com/harperreed/liftlog/internal/models"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 12 {
		t.Errorf("expected 12 exercises, got %d", c.Len())
	}

	ex, ok := c.Lookup("Barbell_Deadlift")
	if !ok {
		t.Fatal("expected Barbell_Deadlift in catalog")
	}
	if ex.Name != "Barbell Deadlift" {
		t.Errorf("unexpected name %q", ex.Name)
	}
	if ex.Force == nil || *ex.Force != models.ForcePull {
		t.Errorf("expected pull force, got %v", ex.Force)
	}

	if _, ok := c.Lookup("Nonexistent_Exercise"); ok {
		t.Error("lookup of unknown id should fail")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	ex, _ := c.Lookup("Pullups")
	ex.Name = "changed"

	again, _ := c.Lookup("Pullups")
	if again.Name != "Pullups" {
		t.Errorf("catalog mutated through lookup: %q", again.Name)
	}
}

func TestFromJSONInvalid(t *testing.T) {
	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Error("expected parse error")
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if c.Len() != 0 || c.Contains("x") || c.All() != nil {
		t.Error("nil catalog should behave as empty")
	}
	if _, ok := c.Lookup("x"); ok {
		t.Error("nil catalog lookup should fail")
	}
}

func TestMerge(t *testing.T) {
	c := New([]models.Exercise{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	})
	merged := Merge(c, []models.Exercise{
		{ID: "b", Name: "Custom B"},
		{ID: "c", Name: "C"},
	})

	if len(merged) != 3 {
		t.Fatalf("expected 3 exercises, got %d", len(merged))
	}
	if merged[1].Name != "Custom B" {
		t.Errorf("custom exercise should shadow catalog entry, got %q", merged[1].Name)
	}
	if merged[2].ID != "c" {
		t.Errorf("expected custom exercise appended, got %q", merged[2].ID)
	}
	if n, _ := c.Lookup("b"); n.Name != "B" {
		t.Error("merge must not modify the catalog")
	}
}

func TestSearch(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 12},
		{"deadlift", 1},
		{"DEADLIFT", 1},
		{"chest", 2},
		{"cardio", 2},
		{"machine", 2},
		{"expert", 1},
		{"static", 2},
		{"zumba", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(c.All(), tt.query)
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d results, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestMuscleGroupsAndEquipment(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	muscles := MuscleGroups(c.All())
	for i := 1; i < len(muscles); i++ {
		if muscles[i-1] >= muscles[i] {
			t.Fatalf("muscle groups not sorted and unique: %v", muscles)
		}
	}

	equipment := EquipmentTypes(c.All())
	want := []string{"barbell", "body only", "machine", "other"}
	if len(equipment) != len(want) {
		t.Fatalf("expected %v, got %v", want, equipment)
	}
	for i := range want {
		if equipment[i] != want[i] {
			t.Errorf("equipment[%d] = %q, want %q", i, equipment[i], want[i])
		}
	}
}
