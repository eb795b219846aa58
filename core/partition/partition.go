package partition

import (
	"eurobase/core/types"
	"eurobase/internal/errors"
)

// Split transforms one selection into an ordered sequence of
// sub-selections whose category counts are each within quota and whose
// coordinate sets partition the original selection's coordinate set
// exactly, with no overlap.
//
// The function is pure and deterministic: chunks preserve the declared
// code order, and repeated calls with equal inputs return equal output.
// A selection already within quota comes back untouched as the only
// element, so no extra requests are ever issued for small queries.
func Split(ds *types.Dataset, sel types.Selection, quota int64) ([]types.Selection, error) {
	if quota < 1 {
		return nil, errors.Newf(errors.TypeConfig, "quota must be positive, got %d", quota)
	}
	if err := Validate(ds, sel); err != nil {
		return nil, err
	}
	return split(ds, sel, quota), nil
}

func split(ds *types.Dataset, sel types.Selection, quota int64) []types.Selection {
	total := CategoryCount(ds, sel)
	if total <= quota {
		return []types.Selection{sel}
	}

	// Pivot on the dimension with the most effective codes; splitting
	// the widest dimension yields the fewest chunks. Ties go to the
	// earlier declared dimension.
	var pivot *types.Dimension
	var pivotCodes []string
	for i := range ds.Dimensions {
		d := &ds.Dimensions[i]
		codes := sel.EffectiveCodes(d)
		if pivot == nil || len(codes) > len(pivotCodes) {
			pivot, pivotCodes = d, codes
		}
	}

	// total > quota >= 1 implies the pivot has at least two codes, so
	// the chunking below always makes progress.
	rest := total / int64(len(pivotCodes))
	chunk := 1
	if rest <= quota {
		chunk = int(quota / rest)
	}

	var out []types.Selection
	for start := 0; start < len(pivotCodes); start += chunk {
		end := start + chunk
		if end > len(pivotCodes) {
			end = len(pivotCodes)
		}
		sub := sel.Restrict(pivot.Name, pivotCodes[start:end])
		if rest <= quota {
			// chunk × rest <= quota holds, the sub-selection is
			// compliant as is.
			out = append(out, sub)
		} else {
			// Even a single pivot code leaves the remaining
			// dimensions over quota; fix the pivot to one code and
			// split the next-widest dimension within each chunk.
			out = append(out, split(ds, sub, quota)...)
		}
	}
	return out
}
