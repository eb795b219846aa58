// Package partition computes category counts for selections and splits
// oversized selections into quota-compliant sub-selections.
package partition

import (
	"eurobase/core/types"
	"eurobase/internal/errors"
)

// DefaultQuota is the reference service's category limit per request.
// The exact value is service configuration, not a law of nature; callers
// override it through config.
const DefaultQuota int64 = 50

// Validate checks a selection against the dataset metadata. Every
// dimension named by the selection must exist and every code must belong
// to that dimension's declared code list.
func Validate(ds *types.Dataset, sel types.Selection) error {
	for name, codes := range sel {
		dim, ok := ds.Dimension(name)
		if !ok {
			return errors.UnknownDimension(ds.Code, name)
		}
		for _, code := range codes {
			if !dim.HasCode(code) {
				return errors.UnknownCode(name, code)
			}
		}
	}
	return nil
}

// CategoryCount returns the number of categories the selection asks the
// remote service for: the product, over every dimension of the dataset,
// of the selected code count, or the full declared count where the
// selection leaves the dimension unrestricted.
//
// This is the single place the quota formula lives. The remote check
// counts an unrestricted dimension at its full code count, not as one
// wildcard category; if that ever turns out wrong, fix it here and the
// splitting algorithm follows.
func CategoryCount(ds *types.Dataset, sel types.Selection) int64 {
	count := int64(1)
	for i := range ds.Dimensions {
		count *= int64(len(sel.EffectiveCodes(&ds.Dimensions[i])))
	}
	return count
}
