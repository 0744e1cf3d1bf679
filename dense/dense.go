// Package dense provides the dense fallback representation of a
// categorical labeling: a table with one column per category, each cell
// holding the single label of that row and category, or Empty.
//
// The dense form is an interchange format. It round-trips losslessly with
// the bitmap index whenever no row carries two labels of the same
// category, and supports the minimal query surface (Where, Keep, Append)
// at scan performance.
package dense

import (
	"errors"
	"fmt"
	"slices"

	"github.com/catbits/catbits/rowset"
)

// Empty marks a cell with no label.
const Empty = ""

var (
	// ErrDuplicateCategory is returned when a table would hold two columns
	// of the same category.
	ErrDuplicateCategory = errors.New("dense: duplicate category")

	// ErrUnknownCategory is returned when a referenced category has no
	// column.
	ErrUnknownCategory = errors.New("dense: unknown category")

	// ErrRowOutOfRange is returned for row indexes outside the table.
	ErrRowOutOfRange = errors.New("dense: row out of range")

	// ErrRaggedColumns is returned when input columns differ in length.
	ErrRaggedColumns = errors.New("dense: ragged columns")

	// ErrCategoryMismatch is returned when two tables cannot be appended
	// because their category sets differ.
	ErrCategoryMismatch = errors.New("dense: category mismatch")
)

// Column is one category worth of per-row labels, used to construct a
// Table.
type Column struct {
	Category string
	Labels   []string
}

// Table is the dense representation: cells[c][r] is the label of row r in
// category c, or Empty.
type Table struct {
	categories []string
	cells      [][]string
	rows       int
}

// NewTable creates a table of Empty cells.
func NewTable(categories []string, rows int) (*Table, error) {
	if err := checkCategories(categories); err != nil {
		return nil, err
	}
	cells := make([][]string, len(categories))
	for i := range cells {
		cells[i] = make([]string, rows)
	}
	return &Table{categories: slices.Clone(categories), cells: cells, rows: rows}, nil
}

// FromColumns creates a table from per-category label columns. All columns
// must have the same length.
func FromColumns(cols []Column) (*Table, error) {
	categories := make([]string, len(cols))
	for i, c := range cols {
		categories[i] = c.Category
	}
	if err := checkCategories(categories); err != nil {
		return nil, err
	}

	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0].Labels)
	}
	cells := make([][]string, len(cols))
	for i, c := range cols {
		if len(c.Labels) != rows {
			return nil, fmt.Errorf("%w: category %q has %d rows, want %d",
				ErrRaggedColumns, c.Category, len(c.Labels), rows)
		}
		cells[i] = slices.Clone(c.Labels)
	}
	return &Table{categories: categories, cells: cells, rows: rows}, nil
}

func checkCategories(categories []string) error {
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return t.rows
}

// Categories returns the category names in column order.
func (t *Table) Categories() []string {
	return slices.Clone(t.categories)
}

// ContainsCategory reports whether the table has a column for category.
func (t *Table) ContainsCategory(category string) bool {
	return slices.Contains(t.categories, category)
}

// ContainsLabel reports whether any cell holds the label.
func (t *Table) ContainsLabel(label string) bool {
	if label == Empty {
		return false
	}
	for _, col := range t.cells {
		if slices.Contains(col, label) {
			return true
		}
	}
	return false
}

// Column returns a copy of the category's cells.
func (t *Table) Column(category string) ([]string, bool) {
	i := slices.Index(t.categories, category)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(t.cells[i]), true
}

// Get returns the label of (row, category); ok is false when the category
// is absent or the row out of range.
func (t *Table) Get(row int, category string) (string, bool) {
	i := slices.Index(t.categories, category)
	if i < 0 || row < 0 || row >= t.rows {
		return Empty, false
	}
	return t.cells[i][row], true
}

// Set writes a label into (row, category) in place.
func (t *Table) Set(row int, category, label string) error {
	i := slices.Index(t.categories, category)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if row < 0 || row >= t.rows {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	t.cells[i][row] = label
	return nil
}

// Uniques returns the distinct non-empty labels of a category in order of
// first appearance, nil when the category is absent.
func (t *Table) Uniques(category string) []string {
	i := slices.Index(t.categories, category)
	if i < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, label := range t.cells[i] {
		if label == Empty {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// categoryOf scans for the column holding the label.
func (t *Table) categoryOf(label string) (int, bool) {
	if label == Empty {
		return 0, false
	}
	for i, col := range t.cells {
		if slices.Contains(col, label) {
			return i, true
		}
	}
	return 0, false
}

// Where resolves selectors by scanning, with the same semantics as the
// bitmap index: selectors are deduplicated, same-category selectors are
// OR'd, categories AND'd, the second result reports each selector's
// category ("" when absent), and any absent selector makes the row vector
// all-false.
func (t *Table) Where(selectors ...string) (*rowset.Set, []string) {
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
	byCol := make(map[int]map[string]struct{})
	missing := false
	for i, s := range sel {
		col, ok := t.categoryOf(s)
		if !ok {
			missing = true
			continue
		}
		cats[i] = t.categories[col]
		if byCol[col] == nil {
			byCol[col] = make(map[string]struct{})
		}
		byCol[col][s] = struct{}{}
	}

	out := rowset.New(t.rows)
	if missing || len(byCol) == 0 {
		return out, cats
	}

	for r := 0; r < t.rows; r++ {
		match := true
		for col, wanted := range byCol {
			if _, ok := wanted[t.cells[col][r]]; !ok {
				match = false
				break
			}
		}
		if match {
			out.Add(uint32(r))
		}
	}
	return out, cats
}

// Keep subsets the table to the rows set in keep, preserving order.
func (t *Table) Keep(keep *rowset.Set) (*Table, error) {
	if keep.Len() != t.rows {
		return nil, fmt.Errorf("%w: mask over %d rows, table has %d",
			ErrRaggedColumns, keep.Len(), t.rows)
	}
	out, err := NewTable(t.categories, keep.Count())
	if err != nil {
		return nil, err
	}
	next := 0
	keep.ForEach(func(r uint32) bool {
		for c := range t.cells {
			out.cells[c][next] = t.cells[c][r]
		}
		next++
		return true
	})
	return out, nil
}

// Append stacks other's rows below the receiver's. Both tables must define
// the same set of categories; column order follows the receiver.
func (t *Table) Append(other *Table) (*Table, error) {
	if t.rows == 0 && len(t.categories) == 0 {
		return other.Clone(), nil
	}
	if other.rows == 0 && len(other.categories) == 0 {
		return t.Clone(), nil
	}
	if len(t.categories) != len(other.categories) {
		return nil, ErrCategoryMismatch
	}
	for _, c := range t.categories {
		if !other.ContainsCategory(c) {
			return nil, fmt.Errorf("%w: %q", ErrCategoryMismatch, c)
		}
	}

	out, err := NewTable(t.categories, t.rows+other.rows)
	if err != nil {
		return nil, err
	}
	for c, cat := range t.categories {
		copy(out.cells[c], t.cells[c])
		theirs := other.cells[slices.Index(other.categories, cat)]
		copy(out.cells[c][t.rows:], theirs)
	}
	return out, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		categories: slices.Clone(t.categories),
		cells:      make([][]string, len(t.cells)),
		rows:       t.rows,
	}
	for i, col := range t.cells {
		out.cells[i] = slices.Clone(col)
	}
	return out
}
