package catbits

import (
	"fmt"
	"slices"
	"sort"

	"github.com/catbits/catbits/rowset"
)

// AddCategory inserts a new category. membership maps each new label to its
// indicator column over the index's rows; labels are inserted in sorted
// order. With a nil or empty membership the category receives the single
// sentinel label "all__<name>" covering every row, which is the form
// Collapse produces.
//
// Fails with ErrDuplicateCategory if the category exists, ErrDuplicateLabel
// if any label (or the sentinel) exists anywhere in the catalog, and
// ErrShapeMismatch if a column does not range over exactly Rows() rows.
// Columns with no true row are pruned on insertion, like Rehash would.
func (x *Index) AddCategory(name string, membership map[string]*rowset.Set) (*Index, error) {
	if x.ContainsCategory(name) {
		return nil, &ErrDuplicateCategory{Category: name}
	}

	if len(membership) == 0 {
		return x.addEntries(name, []string{CollapsedPrefix + name}, []*rowset.Set{rowset.Full(x.rows)})
	}

	labels := make([]string, 0, len(membership))
	for label := range membership {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	cols := make([]*rowset.Set, len(labels))
	for i, label := range labels {
		col := membership[label]
		if col == nil {
			col = rowset.New(x.rows)
		}
		if col.Len() != x.rows {
			return nil, &ErrShapeMismatch{What: "column length", Expected: x.rows, Actual: col.Len()}
		}
		cols[i] = col.Clone()
	}
	return x.addEntries(name, labels, cols)
}

// AddUniformCategory inserts a category holding a single label that covers
// every row. Uniform categories are what EqualIgnoringUniform disregards.
func (x *Index) AddUniformCategory(name, label string) (*Index, error) {
	if x.ContainsCategory(name) {
		return nil, &ErrDuplicateCategory{Category: name}
	}
	return x.addEntries(name, []string{label}, []*rowset.Set{rowset.Full(x.rows)})
}

func (x *Index) addEntries(category string, labels []string, cols []*rowset.Set) (*Index, error) {
	for _, label := range labels {
		if i, ok := x.byLabel[label]; ok {
			return nil, &ErrDuplicateLabel{Label: label, Category: x.entries[i].category}
		}
	}

	entries := make([]entry, len(x.entries), len(x.entries)+len(labels))
	copy(entries, x.entries)
	newCols := make([]*rowset.Set, len(x.cols), len(x.cols)+len(cols))
	copy(newCols, x.cols)

	pruned := 0
	for i, label := range labels {
		if x.rows > 0 && cols[i].IsEmpty() {
			pruned++
			continue
		}
		entries = append(entries, entry{label: label, category: category})
		newCols = append(newCols, cols[i])
	}
	if pruned > 0 {
		x.logger().WithCategory(category).Debug("pruned empty columns on insert", "pruned", pruned)
	}
	return x.derive(entries, newCols, x.rows), nil
}

// RemoveCategories deletes every catalog entry of the named categories.
// All names are validated before anything is removed; removing every
// category leaves an empty but valid index.
func (x *Index) RemoveCategories(names ...string) (*Index, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !x.ContainsCategory(name) {
			return nil, &ErrUnknownCategory{Category: name}
		}
		drop[name] = struct{}{}
	}

	var entries []entry
	var cols []*rowset.Set
	for i, e := range x.entries {
		if _, ok := drop[e.category]; ok {
			continue
		}
		entries = append(entries, e)
		cols = append(cols, x.cols[i])
	}
	return x.derive(entries, cols, x.rows), nil
}

// RenameCategory changes a category's name. Renaming a category to itself
// is a no-op.
func (x *Index) RenameCategory(old, new string) (*Index, error) {
	if old == new {
		return x, nil
	}
	if !x.ContainsCategory(old) {
		return nil, &ErrUnknownCategory{Category: old}
	}
	if x.ContainsCategory(new) {
		return nil, &ErrDuplicateCategory{Category: new}
	}

	entries := make([]entry, len(x.entries))
	copy(entries, x.entries)
	for i := range entries {
		if entries[i].category == old {
			entries[i].category = new
		}
	}
	return x.derive(entries, x.cols, x.rows), nil
}

// RenameLabel changes a label's text, keeping its category and column.
// Renaming a label to itself is a no-op.
func (x *Index) RenameLabel(old, new string) (*Index, error) {
	if old == new {
		return x, nil
	}
	pos, ok := x.byLabel[old]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, old)
	}
	if i, ok := x.byLabel[new]; ok {
		return nil, &ErrDuplicateLabel{Label: new, Category: x.entries[i].category}
	}

	entries := make([]entry, len(x.entries))
	copy(entries, x.entries)
	entries[pos].label = new
	return x.derive(entries, x.cols, x.rows), nil
}

// ReplaceLabels collapses the given labels into a single label `with`
// whose column is the union of theirs. All labels must exist and belong to
// one category (ErrCategoryConflict otherwise); `with` must not already
// exist outside that group (ErrDuplicateLabel). The merged entry takes the
// catalog position of the first replaced label.
func (x *Index) ReplaceLabels(olds []string, with string) (*Index, error) {
	if len(olds) == 0 {
		return x, nil
	}

	positions := make([]int, len(olds))
	for i, label := range olds {
		pos, ok := x.byLabel[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
		}
		positions[i] = pos
	}
	category := x.entries[positions[0]].category
	for i, pos := range positions[1:] {
		if cat := x.entries[pos].category; cat != category {
			return nil, &ErrCategoryConflict{Label: olds[i+1], Left: category, Right: cat}
		}
	}
	if i, ok := x.byLabel[with]; ok && !slices.Contains(positions, i) {
		return nil, &ErrDuplicateLabel{Label: with, Category: x.entries[i].category}
	}

	return x.mergeEntries(positions, with, category).Rehash(), nil
}

// Collapse reduces each named category (all categories when none are
// named) to the single sentinel label "all__<category>" whose column is
// the union of the removed columns. Rows that carried no label of the
// category stay false. Collapsing an already collapsed category is a
// no-op, so Collapse is idempotent.
func (x *Index) Collapse(categories ...string) (*Index, error) {
	if len(categories) == 0 {
		categories = x.Categories()
	}
	for _, cat := range categories {
		if !x.ContainsCategory(cat) {
			return nil, &ErrUnknownCategory{Category: cat}
		}
	}

	cur := x
	for _, cat := range categories {
		sentinel := CollapsedPrefix + cat
		if i, ok := cur.byLabel[sentinel]; ok && cur.entries[i].category != cat {
			return nil, &ErrDuplicateLabel{Label: sentinel, Category: cur.entries[i].category}
		}
		positions := cur.entriesOf(cat)
		if len(positions) == 1 && cur.entries[positions[0]].label == sentinel {
			continue // already collapsed
		}
		cur.logger().WithCategory(cat).Debug("collapsing category", "labels", len(positions))
		cur = cur.mergeEntries(positions, sentinel, cat)
	}
	return cur, nil
}

// CollapseExcept collapses every category not named. The named categories
// must exist.
func (x *Index) CollapseExcept(keep ...string) (*Index, error) {
	keepSet := make(map[string]struct{}, len(keep))
	for _, cat := range keep {
		if !x.ContainsCategory(cat) {
			return nil, &ErrUnknownCategory{Category: cat}
		}
		keepSet[cat] = struct{}{}
	}

	var collapse []string
	for _, cat := range x.Categories() {
		if _, ok := keepSet[cat]; !ok {
			collapse = append(collapse, cat)
		}
	}
	if len(collapse) == 0 {
		return x, nil
	}
	return x.Collapse(collapse...)
}

// mergeEntries replaces the entries at the given catalog positions with a
// single entry (label, category) at the first position, its column being
// the union of the replaced columns. positions must be non-empty.
func (x *Index) mergeEntries(positions []int, label, category string) *Index {
	sorted := make([]int, len(positions))
	copy(sorted, positions)
	sort.Ints(sorted)

	union := make([]*rowset.Set, len(sorted))
	for i, pos := range sorted {
		union[i] = x.cols[pos]
	}
	merged := rowset.Union(union...)

	dropAfter := make(map[int]struct{}, len(sorted)-1)
	for _, pos := range sorted[1:] {
		dropAfter[pos] = struct{}{}
	}

	var entries []entry
	var cols []*rowset.Set
	for i, e := range x.entries {
		if i == sorted[0] {
			entries = append(entries, entry{label: label, category: category})
			cols = append(cols, merged)
			continue
		}
		if _, ok := dropAfter[i]; ok {
			continue
		}
		entries = append(entries, e)
		cols = append(cols, x.cols[i])
	}
	return x.derive(entries, cols, x.rows)
}

// Rehash prunes every catalog entry whose membership column has no true
// row. It runs automatically after row-shrinking and label-rewriting
// operations; no observable index ever carries a dead label. On a
// zero-row index Rehash is a no-op, so a schema-only index stays intact.
func (x *Index) Rehash() *Index {
	if x.rows == 0 {
		return x
	}
	dead := 0
	for _, col := range x.cols {
		if col.IsEmpty() {
			dead++
		}
	}
	if dead == 0 {
		return x
	}

	entries := make([]entry, 0, len(x.entries)-dead)
	cols := make([]*rowset.Set, 0, len(x.cols)-dead)
	for i, col := range x.cols {
		if col.IsEmpty() {
			x.logger().WithLabel(x.entries[i].label).Debug("pruning dead label")
			continue
		}
		entries = append(entries, x.entries[i])
		cols = append(cols, col)
	}
	return x.derive(entries, cols, x.rows)
}
