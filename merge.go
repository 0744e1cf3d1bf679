package catbits

import (
	"github.com/catbits/catbits/rowset"
)

// Append stacks other's rows below the receiver's. An empty receiver
// yields other and vice versa; otherwise both indexes must define the same
// set of category names (ErrCategoryMismatch), and every label present in
// both must belong to the same category on both sides
// (ErrCategoryConflict).
//
// A shared label's merged column is the receiver's column over the first
// rows followed by other's column over the appended rows; columns are
// stacked, never OR'd over coinciding rows. Labels exclusive to one side
// are zero-padded over the other side's rows.
func (x *Index) Append(other *Index) (*Index, error) {
	if x.IsEmpty() {
		return other, nil
	}
	if other.IsEmpty() {
		return x, nil
	}
	if !x.sameCategorySet(other) {
		return nil, &ErrCategoryMismatch{Left: x.Categories(), Right: other.Categories()}
	}
	for label, pos := range other.byLabel {
		if mine, ok := x.byLabel[label]; ok {
			if lc, rc := x.entries[mine].category, other.entries[pos].category; lc != rc {
				return nil, &ErrCategoryConflict{Label: label, Left: lc, Right: rc}
			}
		}
	}

	total := x.rows + other.rows
	entries := make([]entry, len(x.entries), len(x.entries)+other.NumLabels())
	copy(entries, x.entries)
	cols := make([]*rowset.Set, len(x.cols), len(x.cols)+len(other.cols))

	// Receiver entries first, stacked with other's column when shared.
	for i, col := range x.cols {
		merged := col.Extended(total)
		if pos, ok := other.byLabel[x.entries[i].label]; ok {
			merged.Or(other.cols[pos].Shifted(x.rows, total))
		}
		cols[i] = merged
	}

	// Labels exclusive to other, in other's catalog order.
	for i, e := range other.entries {
		if _, ok := x.byLabel[e.label]; ok {
			continue
		}
		entries = append(entries, e)
		cols = append(cols, other.cols[i].Shifted(x.rows, total))
	}

	x.logger().Debug("append", "left_rows", x.rows, "right_rows", other.rows, "labels", len(entries))
	return x.derive(entries, cols, total), nil
}

// Overwrite splices other's rows into the receiver at the positions set in
// at: the i-th true position of at takes row i of other. at must range
// over the receiver's rows and its true count must equal other's row count
// (ErrShapeMismatch); the operands must be category-compatible like
// Append.
//
// Columns of labels shared by both sides are overwritten at the spliced
// positions, including clearing where other is false; labels exclusive to
// other get new columns, true only at spliced positions. Columns exclusive
// to the receiver are left untouched. Dead columns are pruned afterwards.
func (x *Index) Overwrite(other *Index, at *rowset.Set) (*Index, error) {
	if at.Len() != x.rows {
		return nil, &ErrShapeMismatch{What: "mask length", Expected: x.rows, Actual: at.Len()}
	}
	if at.Count() != other.rows {
		return nil, &ErrShapeMismatch{What: "mask true count", Expected: other.rows, Actual: at.Count()}
	}
	if !x.sameCategorySet(other) {
		return nil, &ErrCategoryMismatch{Left: x.Categories(), Right: other.Categories()}
	}
	for label, pos := range other.byLabel {
		if mine, ok := x.byLabel[label]; ok {
			if lc, rc := x.entries[mine].category, other.entries[pos].category; lc != rc {
				return nil, &ErrCategoryConflict{Label: label, Left: lc, Right: rc}
			}
		}
	}

	positions := at.Slice() // ascending; positions[i] hosts other's row i

	// spliced maps one of other's columns onto the receiver's row space.
	spliced := func(col *rowset.Set) *rowset.Set {
		out := rowset.New(x.rows)
		col.ForEach(func(i uint32) bool {
			out.Add(positions[i])
			return true
		})
		return out
	}

	entries := make([]entry, len(x.entries), len(x.entries)+other.NumLabels())
	copy(entries, x.entries)
	cols := make([]*rowset.Set, len(x.cols), len(x.cols)+len(other.cols))

	for i, col := range x.cols {
		pos, ok := other.byLabel[x.entries[i].label]
		if !ok {
			cols[i] = col
			continue
		}
		merged := col.Clone()
		merged.AndNot(at)
		merged.Or(spliced(other.cols[pos]))
		cols[i] = merged
	}

	for i, e := range other.entries {
		if _, ok := x.byLabel[e.label]; ok {
			continue
		}
		entries = append(entries, e)
		cols = append(cols, spliced(other.cols[i]))
	}

	x.logger().Debug("overwrite", "rows", x.rows, "spliced", other.rows)
	return x.derive(entries, cols, x.rows).Rehash(), nil
}
