package catbits

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownLabel is returned by label lifecycle operations when a
	// referenced label does not exist in the catalog. Note that Where does
	// NOT return this: an unknown selector is a soft miss that nullifies
	// the result vector instead.
	ErrUnknownLabel = errors.New("unknown label")
)

// ErrDuplicateLabel indicates an attempt to insert a label string that
// already exists somewhere in the catalog. Labels are unique across the
// whole catalog, not per category.
type ErrDuplicateLabel struct {
	Label    string
	Category string // category currently holding the label
}

func (e *ErrDuplicateLabel) Error() string {
	return fmt.Sprintf("duplicate label %q (already in category %q)", e.Label, e.Category)
}

// ErrDuplicateCategory indicates a category name collision.
type ErrDuplicateCategory struct {
	Category string
}

func (e *ErrDuplicateCategory) Error() string {
	return fmt.Sprintf("duplicate category %q", e.Category)
}

// ErrUnknownCategory indicates a referenced category is absent from the
// catalog.
type ErrUnknownCategory struct {
	Category string
}

func (e *ErrUnknownCategory) Error() string {
	return fmt.Sprintf("unknown category %q", e.Category)
}

// ErrCategoryMismatch indicates two indexes cannot be merged because their
// sets of category names differ.
type ErrCategoryMismatch struct {
	Left  []string
	Right []string
}

func (e *ErrCategoryMismatch) Error() string {
	return fmt.Sprintf("category mismatch: [%s] vs [%s]",
		strings.Join(e.Left, " "), strings.Join(e.Right, " "))
}

// ErrCategoryConflict indicates a label resolves to different categories in
// two operands of a merge, or that labels passed to ReplaceLabels span more
// than one category.
type ErrCategoryConflict struct {
	Label string
	Left  string
	Right string
}

func (e *ErrCategoryConflict) Error() string {
	return fmt.Sprintf("category conflict: label %q is in %q and %q", e.Label, e.Left, e.Right)
}

// ErrShapeMismatch indicates a row-count or true-count mismatch between an
// index and a supplied vector or operand.
type ErrShapeMismatch struct {
	What     string // what was measured, e.g. "rows", "mask length"
	Expected int
	Actual   int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}

// ErrLossyConversion indicates the dense form cannot represent the index
// because some row carries more than one label of the same category.
type ErrLossyConversion struct {
	Row      int
	Category string
	Labels   []string
}

func (e *ErrLossyConversion) Error() string {
	return fmt.Sprintf("lossy conversion: row %d has %d labels in category %q: %v",
		e.Row, len(e.Labels), e.Category, e.Labels)
}

// ErrEmptyColumn indicates an interchange record carries a catalog entry
// whose membership column has no true row, violating the pruning invariant.
type ErrEmptyColumn struct {
	Label string
}

func (e *ErrEmptyColumn) Error() string {
	return fmt.Sprintf("empty membership column for label %q", e.Label)
}
