// ABOUTME: Schema migration chain for versioned records.
// ABOUTME: Step i upgrades a record from version i to version i+1.
package storage

// Record is a persisted value carrying an ID and a schema version.
type Record[T any] interface {
	RecordID() string
	SchemaVersion() uint32
	WithSchemaVersion(v uint32) T
}

// Step is a pure upgrade from one schema version to the next.
type Step[T any] func(T) T

// Chain applies upgrade steps in order. The current version equals the number
// of steps, so appending a step bumps the schema.
type Chain[T Record[T]] struct {
	steps []Step[T]
}

// NewChain builds a chain where steps[i] upgrades version i to i+1.
func NewChain[T Record[T]](steps ...Step[T]) *Chain[T] {
	return &Chain[T]{steps: steps}
}

// Current is the version records are upgraded to.
func (c *Chain[T]) Current() uint32 {
	return uint32(len(c.steps))
}

// Upgrade runs every step from the record's version up to Current.
// Records at or beyond Current are returned unchanged.
func (c *Chain[T]) Upgrade(r T) (T, bool) {
	v := r.SchemaVersion()
	if v >= c.Current() {
		return r, false
	}
	for ; v < c.Current(); v++ {
		r = c.steps[v](r)
	}
	return r.WithSchemaVersion(c.Current()), true
}

// Migrate upgrades records in place and reports whether any changed.
func (c *Chain[T]) Migrate(records []T) bool {
	changed := false
	for i := range records {
		if up, ok := c.Upgrade(records[i]); ok {
			records[i] = up
			changed = true
		}
	}
	return changed
}

// Pending counts records that Migrate would upgrade.
func (c *Chain[T]) Pending(records []T) int {
	n := 0
	for _, r := range records {
		if r.SchemaVersion() < c.Current() {
			n++
		}
	}
	return n
}

// Ahead returns the IDs of records written by a newer schema.
func (c *Chain[T]) Ahead(records []T) []string {
	var ids []string
	for _, r := range records {
		if r.SchemaVersion() > c.Current() {
			ids = append(ids, r.RecordID())
		}
	}
	return ids
}
