package rmp

import (
	"maps"
	"slices"
)

// ExtraKeys returns the unrecognized field names of the review in
// lexicographic order. JSON decoding does not preserve document key
// order, so sorting pins a reproducible ordering per record; combined
// with the deterministic walk order of reviews this keeps the
// first-seen extra-column ordering byte-stable across runs.
func (r *RawReview) ExtraKeys() []string {
	return slices.Sorted(maps.Keys(r.Extra))
}
