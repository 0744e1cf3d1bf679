package catbits

import (
	"github.com/catbits/catbits/dense"
	"github.com/catbits/catbits/rowset"
)

// CollapsedPrefix prefixes the sentinel label a collapsed or default
// category receives: category "cities" collapses to label "all__cities".
const CollapsedPrefix = "all__"

// CategoricalIndex is the operation set shared by the bitmap Index and the
// dense fallback Table. Callers that only need lookups should depend on
// this interface rather than on a concrete representation.
type CategoricalIndex interface {
	Rows() int
	Categories() []string
	Uniques(category string) []string
	ContainsLabel(label string) bool
	ContainsCategory(category string) bool

	// Where resolves selectors to a row vector: selectors of one category
	// are OR'd, distinct categories AND'd. The second result holds the
	// category of each deduplicated selector, "" when absent from the
	// catalog; any absent selector makes the row vector all-false.
	Where(selectors ...string) (*rowset.Set, []string)
}

var (
	_ CategoricalIndex = (*Index)(nil)
	_ CategoricalIndex = (*dense.Table)(nil)
)

// entry is one catalog line: a label and the category owning it.
type entry struct {
	label    string
	category string
}

// Index is the categorical bitmap index: a label catalog plus one boolean
// membership column per catalog entry, all columns ranging over the same
// rows.
//
// An Index behaves as a value: operations return a new Index and never
// modify the receiver. Unchanged columns are shared between parent and
// derived index, which is safe because an attached column is never written
// to again.
type Index struct {
	entries []entry
	cols    []*rowset.Set
	rows    int

	byLabel map[string]int // label -> position in entries
	opts    options
}

// New creates an index over the given number of rows with an empty catalog.
func New(rows int, opts ...Option) *Index {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	x := &Index{rows: rows, opts: o}
	x.reindex()
	return x
}

// derive builds a sibling index carrying the receiver's options.
func (x *Index) derive(entries []entry, cols []*rowset.Set, rows int) *Index {
	nx := &Index{entries: entries, cols: cols, rows: rows, opts: x.opts}
	nx.reindex()
	return nx
}

func (x *Index) reindex() {
	x.byLabel = make(map[string]int, len(x.entries))
	for i, e := range x.entries {
		x.byLabel[e.label] = i
	}
}

func (x *Index) logger() *Logger {
	return x.opts.logger
}

// Rows returns the number of data rows the index ranges over.
func (x *Index) Rows() int {
	return x.rows
}

// NumLabels returns the number of catalog entries (matrix columns).
func (x *Index) NumLabels() int {
	return len(x.entries)
}

// IsEmpty reports whether the index has neither rows nor catalog entries.
func (x *Index) IsEmpty() bool {
	return x.rows == 0 && len(x.entries) == 0
}

// Labels returns all labels in catalog order.
func (x *Index) Labels() []string {
	out := make([]string, len(x.entries))
	for i, e := range x.entries {
		out[i] = e.label
	}
	return out
}

// Categories returns the unique category names in catalog order (order of
// first appearance).
func (x *Index) Categories() []string {
	seen := make(map[string]struct{}, len(x.entries))
	var out []string
	for _, e := range x.entries {
		if _, ok := seen[e.category]; ok {
			continue
		}
		seen[e.category] = struct{}{}
		out = append(out, e.category)
	}
	return out
}

// ContainsLabel reports whether the label exists in the catalog.
func (x *Index) ContainsLabel(label string) bool {
	_, ok := x.byLabel[label]
	return ok
}

// ContainsCategory reports whether any catalog entry belongs to category.
func (x *Index) ContainsCategory(category string) bool {
	for _, e := range x.entries {
		if e.category == category {
			return true
		}
	}
	return false
}

// CategoryOf returns the category owning the label.
func (x *Index) CategoryOf(label string) (string, bool) {
	i, ok := x.byLabel[label]
	if !ok {
		return "", false
	}
	return x.entries[i].category, true
}

// Uniques returns the labels of a category in catalog order, nil when the
// category is absent.
func (x *Index) Uniques(category string) []string {
	var out []string
	for _, e := range x.entries {
		if e.category == category {
			out = append(out, e.label)
		}
	}
	return out
}

// LabelsIn is an alias for Uniques, matching the catalog vocabulary.
func (x *Index) LabelsIn(category string) []string {
	return x.Uniques(category)
}

// Membership returns a copy of the label's membership column.
func (x *Index) Membership(label string) (*rowset.Set, bool) {
	i, ok := x.byLabel[label]
	if !ok {
		return nil, false
	}
	return x.cols[i].Clone(), true
}

// Clone returns a deep copy of the index.
func (x *Index) Clone() *Index {
	entries := make([]entry, len(x.entries))
	copy(entries, x.entries)
	cols := make([]*rowset.Set, len(x.cols))
	for i, c := range x.cols {
		cols[i] = c.Clone()
	}
	return x.derive(entries, cols, x.rows)
}

// categorySet returns the category names as a set.
func (x *Index) categorySet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, e := range x.entries {
		set[e.category] = struct{}{}
	}
	return set
}

// sameCategorySet reports whether both indexes define the same set of
// unique category names, regardless of multiplicity and order.
func (x *Index) sameCategorySet(other *Index) bool {
	a, b := x.categorySet(), other.categorySet()
	if len(a) != len(b) {
		return false
	}
	for c := range a {
		if _, ok := b[c]; !ok {
			return false
		}
	}
	return true
}

// entriesOf returns the catalog positions of a category's entries.
func (x *Index) entriesOf(category string) []int {
	var out []int
	for i, e := range x.entries {
		if e.category == category {
			out = append(out, i)
		}
	}
	return out
}
