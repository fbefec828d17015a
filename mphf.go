package zmph

import (
	"time"
)

// MPHF is a built minimal perfect hash function with its values.
//
// An MPHF is immutable. Lookup, Slot, Len and Stats are safe for concurrent
// use by any number of goroutines.
type MPHF[K Key, V any] struct {
	hasher Hasher
	table  []tableEntry
	values []V
	stats  Stats
}

// Stats holds construction statistics.
type Stats struct {
	NumKeys          int
	Buckets          int // Non-empty buckets
	MultiKeyBuckets  int
	SingletonBuckets int
	MaxBucketSize    int
	TotalAttempts    uint64 // Displacement candidates tried across all buckets
	MaxDisplacement  uint32
	BuildDuration    time.Duration
}

// newMPHF finishes a construction pass and takes ownership of its tables.
func newMPHF[K Key, V any](c *construction[V]) (*MPHF[K, V], error) {
	if err := c.advance(phaseSingletonResolved, phaseBuilt); err != nil {
		return nil, err
	}
	stats := c.stats
	stats.NumKeys = c.n
	stats.BuildDuration = time.Since(c.start)

	m := &MPHF[K, V]{
		hasher: c.cfg.hasher,
		table:  c.table,
		values: c.values,
		stats:  stats,
	}
	// The pass no longer holds the tables.
	c.table, c.values, c.occupied = nil, nil, nil
	return m, nil
}

// Len returns the number of keys the function was built over.
func (m *MPHF[K, V]) Len() int {
	return len(m.values)
}

// Stats returns the construction statistics.
func (m *MPHF[K, V]) Stats() Stats {
	return m.stats
}

// Slot returns the slot in [0, Len()) that key resolves to. Keys from the
// build set map to distinct slots. Other keys map to an arbitrary slot.
func (m *MPHF[K, V]) Slot(key K) int {
	kb := []byte(key)
	n := uint64(len(m.table))
	p := slotOf(m.hasher.Hash(0, kb), n)

	e := m.table[p]
	switch e.kind() {
	case entryDirectSlot:
		return e.directSlot()
	case entryDisplacement:
		return slotOf(m.hasher.Hash(e.displacement(), kb), n)
	default:
		// Only keys outside the build set reach an unassigned entry.
		return p
	}
}

// Lookup returns the value stored for key. The result is only meaningful for
// keys that were present at build time; other keys get an unrelated value.
func (m *MPHF[K, V]) Lookup(key K) V {
	return m.values[m.Slot(key)]
}
