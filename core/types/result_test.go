package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestResultSorted tests the canonical cell ordering: declared code
// order per dimension, most significant dimension first
func TestResultSorted(t *testing.T) {
	ds := &Dataset{
		Code: "ord",
		Dimensions: []Dimension{
			{Name: "geo", Codes: []string{"DE", "AT", "BE"}}, // declared order is not alphabetical
			{Name: "time", Codes: []string{"2022", "2021"}},
		},
	}

	result := &Result{Dataset: ds, Cells: map[Key]Cell{}}
	for _, coords := range [][]string{
		{"BE", "2021"}, {"AT", "2022"}, {"DE", "2021"}, {"BE", "2022"}, {"DE", "2022"}, {"AT", "2021"},
	} {
		c := Cell{Coordinates: coords, Value: decimal.New(1, 0)}
		result.Cells[c.Key()] = c
	}

	expected := []Key{
		"DE:2022", "DE:2021", "AT:2022", "AT:2021", "BE:2022", "BE:2021",
	}
	sorted := result.Sorted()
	if len(sorted) != len(expected) {
		t.Fatalf("expected %d cells, got %d", len(expected), len(sorted))
	}
	for i, c := range sorted {
		if c.Key() != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], c.Key())
		}
	}
}

// TestSelectionString tests deterministic rendering
func TestSelectionString(t *testing.T) {
	if got := (Selection{}).String(); got != "(unrestricted)" {
		t.Errorf("unexpected rendering: %q", got)
	}
	sel := Selection{"time": {"2021"}, "geo": {"AT", "BE"}}
	if got := sel.String(); got != "geo=AT,BE time=2021" {
		t.Errorf("unexpected rendering: %q", got)
	}
}
