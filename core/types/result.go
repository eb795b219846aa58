package types

import "sort"

// Result is the assembled outcome of one fetch: the union of the cells
// returned by every sub-request. A Result is built once and not mutated
// afterwards.
type Result struct {
	// Dataset is the metadata the fetch ran against
	Dataset *Dataset `json:"dataset"`

	// Cells maps coordinate keys to cells
	Cells map[Key]Cell `json:"cells"`

	// Unfetched lists the sub-selections whose sub-requests failed;
	// empty for a complete result
	Unfetched []Selection `json:"unfetched,omitempty"`
}

// Complete reports whether every sub-request contributed its cells
func (r *Result) Complete() bool {
	return len(r.Unfetched) == 0
}

// Cell returns the cell at the given coordinates, if present
func (r *Result) Cell(codes ...string) (Cell, bool) {
	c, ok := r.Cells[CoordinateKey(codes)]
	return c, ok
}

// Sorted returns the cells ordered canonically: by the declared code
// order of each dimension, most significant first. The order depends
// only on the dataset metadata, never on sub-request completion order.
func (r *Result) Sorted() []Cell {
	cells := make([]Cell, 0, len(r.Cells))
	for _, c := range r.Cells {
		cells = append(cells, c)
	}

	// Per-dimension code position lookup.
	pos := make([]map[string]int, len(r.Dataset.Dimensions))
	for i, d := range r.Dataset.Dimensions {
		pos[i] = make(map[string]int, len(d.Codes))
		for j, code := range d.Codes {
			pos[i][code] = j
		}
	}

	sort.Slice(cells, func(a, b int) bool {
		ca, cb := cells[a].Coordinates, cells[b].Coordinates
		for i := range ca {
			if i >= len(cb) {
				return false
			}
			pa, pb := pos[i][ca[i]], pos[i][cb[i]]
			if pa != pb {
				return pa < pb
			}
		}
		return len(ca) < len(cb)
	})
	return cells
}
