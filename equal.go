package catbits

import (
	"sort"
)

// Equal reports whether two indexes describe the same labeling: same row
// count, same category set, same label set with identical label→category
// assignment, and bit-for-bit identical membership columns once both
// catalogs are sorted by label text. Catalog order does not matter.
func (x *Index) Equal(other *Index) bool {
	if x.rows != other.rows || len(x.entries) != len(other.entries) {
		return false
	}
	if !x.sameCategorySet(other) {
		return false
	}
	for label, i := range x.byLabel {
		j, ok := other.byLabel[label]
		if !ok || x.entries[i].category != other.entries[j].category {
			return false
		}
	}

	order := make([]string, 0, len(x.entries))
	for _, e := range x.entries {
		order = append(order, e.label)
	}
	sort.Strings(order)
	for _, label := range order {
		if !x.cols[x.byLabel[label]].Equal(other.cols[other.byLabel[label]]) {
			return false
		}
	}
	return true
}

// EqualIgnoringUniform compares two indexes after both drop their uniform
// categories: categories holding exactly one label whose column covers
// every row. Collaborators use this to compare objects modulo trivially
// constant dimensions.
func (x *Index) EqualIgnoringUniform(other *Index) bool {
	return x.dropUniform().Equal(other.dropUniform())
}

// dropUniform removes every uniform category. Returns the receiver when
// there is nothing to drop.
func (x *Index) dropUniform() *Index {
	var uniform []string
	for _, cat := range x.Categories() {
		positions := x.entriesOf(cat)
		if len(positions) == 1 && x.cols[positions[0]].IsFull() {
			uniform = append(uniform, cat)
		}
	}
	if len(uniform) == 0 {
		return x
	}
	reduced, err := x.RemoveCategories(uniform...)
	if err != nil { // categories were just enumerated; cannot happen
		return x
	}
	return reduced
}
