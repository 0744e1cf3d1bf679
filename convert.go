package catbits

import (
	"github.com/catbits/catbits/dense"
	"github.com/catbits/catbits/rowset"
)

// FromDense builds a bitmap index from a dense label table: for each
// category column, the distinct non-empty strings become catalog entries
// in order of first appearance, and each entry's column marks the rows
// holding that string. A label appearing in two category columns violates
// global label uniqueness and fails with ErrDuplicateLabel.
func FromDense(t *dense.Table, opts ...Option) (*Index, error) {
	x := New(t.Rows(), opts...)
	for _, cat := range t.Categories() {
		column, _ := t.Column(cat)

		labels := make([]string, 0)
		membership := make(map[string]*rowset.Set)
		for r, label := range column {
			if label == dense.Empty {
				continue
			}
			col, ok := membership[label]
			if !ok {
				col = rowset.New(t.Rows())
				membership[label] = col
				labels = append(labels, label)
			}
			col.Add(uint32(r))
		}

		cols := make([]*rowset.Set, len(labels))
		for i, label := range labels {
			cols[i] = membership[label]
		}
		next, err := x.addEntries(cat, labels, cols)
		if err != nil {
			return nil, err
		}
		x = next
	}
	return x, nil
}

// ToDense renders the index as a dense label table, one column per
// category. A row carrying more than one label of the same category cannot
// be represented; ToDense fails with ErrLossyConversion instead of picking
// one.
func (x *Index) ToDense() (*dense.Table, error) {
	t, err := dense.NewTable(x.Categories(), x.rows)
	if err != nil {
		return nil, err
	}

	for i, e := range x.entries {
		var conflict error
		x.cols[i].ForEach(func(r uint32) bool {
			prev, _ := t.Get(int(r), e.category)
			if prev != dense.Empty {
				conflict = &ErrLossyConversion{
					Row:      int(r),
					Category: e.category,
					Labels:   x.labelsAt(r, e.category),
				}
				return false
			}
			return t.Set(int(r), e.category, e.label) == nil
		})
		if conflict != nil {
			return nil, conflict
		}
	}
	return t, nil
}

// labelsAt lists every label of the category set at the row.
func (x *Index) labelsAt(row uint32, category string) []string {
	var out []string
	for _, pos := range x.entriesOf(category) {
		if x.cols[pos].Contains(row) {
			out = append(out, x.entries[pos].label)
		}
	}
	return out
}
