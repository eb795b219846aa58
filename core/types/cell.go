package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Key is the canonical coordinate key of a cell: the cell's codes joined
// in declared dimension order. Two cells with equal keys describe the
// same data point.
type Key string

// CoordinateKey builds a Key from codes already in declared dimension order
func CoordinateKey(codes []string) Key {
	return Key(strings.Join(codes, ":"))
}

// Cell is one data point of a dataset
type Cell struct {
	// Coordinates holds one code per dimension, in the dataset's
	// declared dimension order
	Coordinates []string `json:"coordinates"`

	// Value is the observation value; zero when Missing is set
	Value decimal.Decimal `json:"value"`

	// Status is the optional observation flag (p = provisional,
	// c = confidential, etc.)
	Status string `json:"status,omitempty"`

	// Missing marks a coordinate the source reported without a value
	Missing bool `json:"missing,omitempty"`
}

// Key returns the cell's canonical coordinate key
func (c Cell) Key() Key {
	return CoordinateKey(c.Coordinates)
}
