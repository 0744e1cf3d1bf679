package catbits

import (
	"github.com/catbits/catbits/rowset"
)

// Keep subsets the index to the rows set in keep, renumbering the
// survivors to [0, keep.Count()). Labels whose column ends up with no
// surviving row are pruned. Fails with ErrShapeMismatch unless keep ranges
// over exactly Rows() rows.
func (x *Index) Keep(keep *rowset.Set) (*Index, error) {
	if keep.Len() != x.rows {
		return nil, &ErrShapeMismatch{What: "mask length", Expected: x.rows, Actual: keep.Len()}
	}

	newRows := keep.Count()
	entries := make([]entry, len(x.entries))
	copy(entries, x.entries)
	cols := make([]*rowset.Set, len(x.cols))
	for i, col := range x.cols {
		cols[i] = col.CompactBy(keep)
	}

	x.logger().Debug("keep", "rows_before", x.rows, "rows_after", newRows)
	return x.derive(entries, cols, newRows).Rehash(), nil
}

// Remove drops the rows matching the selectors, with Where semantics:
// same-category selectors are OR'd, categories AND'd, and an unknown
// selector nullifies the match, so nothing is removed. The per-selector
// category report of the underlying query is returned alongside.
func (x *Index) Remove(selectors ...string) (*Index, []string, error) {
	matched, cats := x.Where(selectors...)
	kept, err := x.Keep(matched.Complement())
	if err != nil {
		return nil, cats, err
	}
	return kept, cats, nil
}
