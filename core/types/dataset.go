// Package types defines the shared data model: datasets, dimensions,
// selections and the cells assembled into a fetch result.
package types

// Dimension is one axis of a multi-dimensional dataset
type Dimension struct {
	// Name is the dimension identifier (e.g. "geo", "time")
	Name string `json:"name"`

	// Codes is the ordered list of valid codes, exactly as declared by
	// the source metadata
	Codes []string `json:"codes"`

	// Labels maps codes to human-readable labels (optional)
	Labels map[string]string `json:"labels,omitempty"`
}

// HasCode reports whether code is part of the dimension's valid set
func (d *Dimension) HasCode(code string) bool {
	for _, c := range d.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// CodeIndex returns the position of code in the declared order, or -1
func (d *Dimension) CodeIndex(code string) int {
	for i, c := range d.Codes {
		if c == code {
			return i
		}
	}
	return -1
}

// Dataset is a multi-dimensional dataset identified by its code
type Dataset struct {
	// Code is the dataset identifier (e.g. "nama_10_gdp")
	Code string `json:"code"`

	// Title is the dataset title from the table of contents (optional)
	Title string `json:"title,omitempty"`

	// Dimensions is the ordered dimension sequence
	Dimensions []Dimension `json:"dimensions"`
}

// Dimension returns the named dimension, if present
func (ds *Dataset) Dimension(name string) (*Dimension, bool) {
	for i := range ds.Dimensions {
		if ds.Dimensions[i].Name == name {
			return &ds.Dimensions[i], true
		}
	}
	return nil, false
}

// DimensionNames returns the dimension names in declared order
func (ds *Dataset) DimensionNames() []string {
	names := make([]string, len(ds.Dimensions))
	for i, d := range ds.Dimensions {
		names[i] = d.Name
	}
	return names
}
