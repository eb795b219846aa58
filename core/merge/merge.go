// Package merge reassembles per-sub-selection payloads into one result.
package merge

import (
	"sync"

	"eurobase/core/types"
	"eurobase/internal/errors"
)

// Merger accumulates the cells of completed sub-requests into a single
// result. It is the one serialization point of a fetch: payload
// production runs in parallel, every Add and Fail goes through the
// merger's lock. Merging is commutative, any completion order produces
// the same result.
type Merger struct {
	mu        sync.Mutex
	ds        *types.Dataset
	cells     map[types.Key]types.Cell
	unfetched []types.Selection
}

// New creates a merger for the given dataset metadata
func New(ds *types.Dataset) *Merger {
	return &Merger{
		ds:    ds,
		cells: make(map[types.Key]types.Cell),
	}
}

// Add merges the cells of one successful sub-request. A coordinate seen
// from an earlier sub-request means the partitioning was not disjoint;
// that is a correctness bug, never silently overwritten.
func (m *Merger) Add(cells []types.Cell) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range cells {
		key := c.Key()
		if _, dup := m.cells[key]; dup {
			return errors.InconsistentPartition(string(key))
		}
		m.cells[key] = c
	}
	return nil
}

// Fail records a sub-selection whose sub-request did not complete, so a
// partial result can name the missing coordinate ranges.
func (m *Merger) Fail(sub types.Selection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unfetched = append(m.unfetched, sub)
}

// Failed returns how many sub-requests were recorded as failed
func (m *Merger) Failed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.unfetched)
}

// Cells returns how many cells have been merged so far
func (m *Merger) Cells() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cells)
}

// Result assembles the final result. Call it once, after every
// sub-request has either been added or recorded as failed.
func (m *Merger) Result() *types.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &types.Result{
		Dataset:   m.ds,
		Cells:     m.cells,
		Unfetched: m.unfetched,
	}
}
