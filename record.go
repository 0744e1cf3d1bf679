package catbits

import (
	"github.com/catbits/catbits/rowset"
)

// Record is the interchange form of an index, used when crossing component
// boundaries or handing the index to a serializer. Labels, Categories and
// Membership are parallel: entry i is the pair (Labels[i], Categories[i])
// with indicator column Membership[i] over Rows rows.
type Record struct {
	Labels     []string      `json:"labels"`
	Categories []string      `json:"categories"`
	Rows       int           `json:"rows"`
	Membership []*rowset.Set `json:"membership"`
}

// Validate checks the structural invariants of the record: parallel slice
// lengths, global label uniqueness, column lengths, and (while Rows > 0)
// no all-false column.
func (r *Record) Validate() error {
	if len(r.Categories) != len(r.Labels) {
		return &ErrShapeMismatch{What: "categories", Expected: len(r.Labels), Actual: len(r.Categories)}
	}
	if len(r.Membership) != len(r.Labels) {
		return &ErrShapeMismatch{What: "membership columns", Expected: len(r.Labels), Actual: len(r.Membership)}
	}

	seen := make(map[string]string, len(r.Labels))
	for i, label := range r.Labels {
		if cat, ok := seen[label]; ok {
			return &ErrDuplicateLabel{Label: label, Category: cat}
		}
		seen[label] = r.Categories[i]

		col := r.Membership[i]
		if col == nil || col.Len() != r.Rows {
			got := -1
			if col != nil {
				got = col.Len()
			}
			return &ErrShapeMismatch{What: "column length", Expected: r.Rows, Actual: got}
		}
		if r.Rows > 0 && col.IsEmpty() {
			return &ErrEmptyColumn{Label: label}
		}
	}
	return nil
}

// FromRecord builds an index from an interchange record. The record is
// validated before anything is accepted; the membership columns are cloned
// so the record stays independent of the index.
func FromRecord(r *Record, opts ...Option) (*Index, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	x := New(r.Rows, opts...)
	entries := make([]entry, len(r.Labels))
	cols := make([]*rowset.Set, len(r.Labels))
	for i, label := range r.Labels {
		entries[i] = entry{label: label, category: r.Categories[i]}
		cols[i] = r.Membership[i].Clone()
	}
	return x.derive(entries, cols, r.Rows), nil
}

// Record snapshots the index as an interchange record. The membership
// columns are cloned; mutating the record cannot corrupt the index.
func (x *Index) Record() *Record {
	r := &Record{
		Labels:     make([]string, len(x.entries)),
		Categories: make([]string, len(x.entries)),
		Rows:       x.rows,
		Membership: make([]*rowset.Set, len(x.cols)),
	}
	for i, e := range x.entries {
		r.Labels[i] = e.label
		r.Categories[i] = e.category
		r.Membership[i] = x.cols[i].Clone()
	}
	return r
}
