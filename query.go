package catbits

import (
	"github.com/catbits/catbits/rowset"
)

// Where resolves label selectors to a boolean row vector.
//
// Selectors are deduplicated, keeping first occurrences. The returned
// slice reports the category of each deduplicated selector, "" for
// selectors absent from the catalog. If ANY selector is absent the row
// vector is all-false regardless of the others; resolution still continues
// so the caller can see which selectors were missing. This nullification
// is deliberate and matches the systems this package interoperates with.
//
// For found selectors, columns of the same category are OR'd together and
// the per-category unions are AND'd across categories. When no category
// repeats among the selectors the grouping step is skipped and the columns
// are AND'd directly.
func (x *Index) Where(selectors ...string) (*rowset.Set, []string) {
	seen := make(map[string]struct{}, len(selectors))
	sel := selectors[:0:0]
	for _, s := range selectors {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		sel = append(sel, s)
	}

	cats := make([]string, len(sel))
	var cols []*rowset.Set
	var colCats []string
	missing := false
	for i, s := range sel {
		pos, ok := x.byLabel[s]
		if !ok {
			missing = true
			continue
		}
		cats[i] = x.entries[pos].category
		cols = append(cols, x.cols[pos])
		colCats = append(colCats, cats[i])
	}

	if missing || len(cols) == 0 {
		return rowset.New(x.rows), cats
	}

	// Fast path: every selector hit a distinct category.
	if distinctStrings(colCats) {
		return rowset.Intersect(cols...), cats
	}

	byCat := make(map[string][]*rowset.Set)
	var order []string
	for i, col := range cols {
		cat := colCats[i]
		if _, ok := byCat[cat]; !ok {
			order = append(order, cat)
		}
		byCat[cat] = append(byCat[cat], col)
	}

	unions := make([]*rowset.Set, len(order))
	for i, cat := range order {
		unions[i] = rowset.Union(byCat[cat]...)
	}
	return rowset.Intersect(unions...), cats
}

func distinctStrings(s []string) bool {
	seen := make(map[string]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// Combs enumerates the Cartesian product of the labels of the requested
// categories (all categories when none are requested). The product covers
// possible combinations, not necessarily combinations present in any row.
// Column order follows the catalog's category order, not the caller's
// argument order.
func (x *Index) Combs(categories ...string) ([][]string, error) {
	cats, err := x.orderedCategories(categories)
	if err != nil {
		return nil, err
	}

	rows := [][]string{nil}
	for _, cat := range cats {
		labels := x.Uniques(cat)
		next := make([][]string, 0, len(rows)*len(labels))
		for _, prefix := range rows {
			for _, label := range labels {
				comb := make([]string, len(prefix), len(prefix)+1)
				copy(comb, prefix)
				next = append(next, append(comb, label))
			}
		}
		rows = next
	}
	if len(cats) == 0 {
		return nil, nil
	}
	return rows, nil
}

// Group is one present label combination: the rows carrying it and the
// labels themselves, ordered like the categories they were enumerated
// over.
type Group struct {
	Rows   *rowset.Set
	Labels []string
}

// GetIndices enumerates the label combinations of the requested categories
// (all categories when none are requested) that are actually present, one
// Group per combination. Every returned Group has at least one true row;
// callers never need to check for emptiness.
//
// Rather than evaluating Where for every Combs row, the enumeration
// narrows recursively: it partitions the current row subset by the first
// category's present labels and descends into the remaining categories
// with the narrowed subset, skipping branches as soon as they go empty.
// A single-category request takes a direct non-recursive path.
func (x *Index) GetIndices(categories ...string) ([]Group, error) {
	cats, err := x.orderedCategories(categories)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, nil
	}

	if len(cats) == 1 {
		var out []Group
		for _, pos := range x.entriesOf(cats[0]) {
			if x.cols[pos].IsEmpty() {
				continue
			}
			out = append(out, Group{
				Rows:   x.cols[pos].Clone(),
				Labels: []string{x.entries[pos].label},
			})
		}
		return out, nil
	}

	var out []Group
	x.narrow(cats, rowset.Full(x.rows), nil, &out)
	return out, nil
}

// narrow descends one category level: for each of the category's labels
// whose column still intersects the current subset, either emits a Group
// (last level) or recurses with the narrowed subset.
func (x *Index) narrow(cats []string, subset *rowset.Set, prefix []string, out *[]Group) {
	cat := cats[0]
	for _, pos := range x.entriesOf(cat) {
		cand := subset.Clone()
		cand.And(x.cols[pos])
		if cand.IsEmpty() {
			continue
		}

		labels := make([]string, len(prefix), len(prefix)+1)
		copy(labels, prefix)
		labels = append(labels, x.entries[pos].label)

		if len(cats) == 1 {
			*out = append(*out, Group{Rows: cand, Labels: labels})
			continue
		}
		x.narrow(cats[1:], cand, labels, out)
	}
}

// orderedCategories validates the requested categories and returns them
// deduplicated in catalog order. An empty request means all categories.
func (x *Index) orderedCategories(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return x.Categories(), nil
	}
	want := make(map[string]struct{}, len(requested))
	for _, cat := range requested {
		if !x.ContainsCategory(cat) {
			return nil, &ErrUnknownCategory{Category: cat}
		}
		want[cat] = struct{}{}
	}

	var out []string
	for _, cat := range x.Categories() {
		if _, ok := want[cat]; ok {
			out = append(out, cat)
		}
	}
	return out, nil
}
