package types

import (
	"fmt"
	"sort"
	"strings"
)

// Selection maps a dimension name to the subset of codes the caller
// wants. An absent dimension, or an empty code list, means every code of
// that dimension. Selections are treated as immutable once handed to the
// engine; derive restricted copies with Restrict.
type Selection map[string][]string

// EffectiveCodes returns the codes the selection implies for dim: the
// selected subset if restricted, the full declared list otherwise.
func (s Selection) EffectiveCodes(dim *Dimension) []string {
	if codes, ok := s[dim.Name]; ok && len(codes) > 0 {
		return codes
	}
	return dim.Codes
}

// Restrict returns a copy of the selection with dim pinned to codes
func (s Selection) Restrict(dim string, codes []string) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[dim] = codes
	return out
}

// String renders the selection deterministically for logs and errors
func (s Selection) String() string {
	if len(s) == 0 {
		return "(unrestricted)"
	}
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(s[name], ",")))
	}
	return strings.Join(parts, " ")
}
