package estat

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"eurobase/core/types"
	"eurobase/internal/errors"
)

// payload mirrors the JSON-stat dataset response of the data API. Values
// arrive sparse, keyed by the linear index over the category space in
// row-major order with the last dimension varying fastest.
type payload struct {
	Class     string                      `json:"class"`
	ID        []string                    `json:"id"`
	Size      []int                       `json:"size"`
	Dimension map[string]payloadDimension `json:"dimension"`
	Value     map[string]json.Number      `json:"value"`
	Status    map[string]string           `json:"status"`
}

type payloadDimension struct {
	Label    string `json:"label"`
	Category struct {
		Index map[string]int    `json:"index"`
		Label map[string]string `json:"label"`
	} `json:"category"`
}

// ParsePayload normalizes a raw JSON-stat body into cells whose
// coordinates follow the dataset's declared dimension order, whatever
// order the payload lists its dimensions in.
func ParsePayload(ds *types.Dataset, body []byte) ([]types.Cell, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Parsing("decode json-stat payload", err)
	}
	if len(p.ID) != len(p.Size) {
		return nil, errors.Parsing(
			fmt.Sprintf("payload id/size mismatch: %d vs %d", len(p.ID), len(p.Size)), nil)
	}

	// Codes by position, per payload dimension.
	codeAt := make([][]string, len(p.ID))
	for i, name := range p.ID {
		dim, ok := p.Dimension[name]
		if !ok {
			return nil, errors.Parsing(fmt.Sprintf("payload missing dimension %q", name), nil)
		}
		codes := make([]string, p.Size[i])
		for code, idx := range dim.Category.Index {
			if idx < 0 || idx >= len(codes) {
				return nil, errors.Parsing(
					fmt.Sprintf("dimension %q index %d out of range", name, idx), nil)
			}
			codes[idx] = code
		}
		codeAt[i] = codes
	}

	// Payload dimension position -> declared dataset position.
	order := make([]int, len(p.ID))
	for i, name := range p.ID {
		found := -1
		for j := range ds.Dimensions {
			if ds.Dimensions[j].Name == name {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, errors.Parsing(
				fmt.Sprintf("payload dimension %q not in dataset %s", name, ds.Code), nil)
		}
		order[i] = found
	}

	seen := make(map[string]bool, len(p.Value)+len(p.Status))
	cells := make([]types.Cell, 0, len(p.Value)+len(p.Status))

	appendCell := func(key string) error {
		if seen[key] {
			return nil
		}
		seen[key] = true

		linear, err := strconv.Atoi(key)
		if err != nil {
			return errors.Parsing(fmt.Sprintf("bad value index %q", key), err)
		}
		coords, err := coordinates(linear, p.Size, codeAt, order, len(ds.Dimensions))
		if err != nil {
			return err
		}

		cell := types.Cell{Coordinates: coords, Status: p.Status[key]}
		if num, ok := p.Value[key]; ok && num != "" {
			v, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Parsing(fmt.Sprintf("bad value at index %s", key), err)
			}
			cell.Value = v
		} else {
			cell.Missing = true
		}
		cells = append(cells, cell)
		return nil
	}

	for key := range p.Value {
		if err := appendCell(key); err != nil {
			return nil, err
		}
	}
	// Status-only entries mark coordinates the source flagged without a
	// value (e.g. confidential).
	for key := range p.Status {
		if err := appendCell(key); err != nil {
			return nil, err
		}
	}
	return cells, nil
}

// coordinates decomposes a linear index into codes in declared dataset
// dimension order
func coordinates(linear int, size []int, codeAt [][]string, order []int, dims int) ([]string, error) {
	coords := make([]string, dims)
	rem := linear
	for i := len(size) - 1; i >= 0; i-- {
		if size[i] <= 0 {
			return nil, errors.Parsing(fmt.Sprintf("payload dimension %d has size %d", i, size[i]), nil)
		}
		pos := rem % size[i]
		rem /= size[i]
		code := codeAt[i][pos]
		if code == "" {
			return nil, errors.Parsing(
				fmt.Sprintf("payload dimension %d has no code at position %d", i, pos), nil)
		}
		coords[order[i]] = code
	}
	if rem != 0 {
		return nil, errors.Parsing(fmt.Sprintf("value index %d outside category space", linear), nil)
	}
	return coords, nil
}
