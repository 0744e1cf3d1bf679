// Package catbits provides a categorical bitmap index for labeling rows of
// tabular or array data.
//
// Every row of a data set can carry zero or more string labels; each label
// belongs to exactly one named category, and a label string is unique
// across the whole catalog. Membership is stored as one compressed bitmap
// column per (label, category) pair, so boolean queries over labels
// resolve with bitmap algebra instead of rescanning raw data.
//
// # Quick Start
//
//	table, _ := dense.FromColumns([]dense.Column{
//	    {Category: "cities", Labels: []string{"NY", "NY", "LA", "LA"}},
//	    {Category: "income", Labels: []string{"high", "low", "high", "low"}},
//	})
//	idx, _ := catbits.FromDense(table)
//
//	rows, _ := idx.Where("NY", "high") // true only at row 0
//	groups, _ := idx.GetIndices()      // one group per present combination
//
// Selectors of the same category are OR'd together, distinct categories
// are AND'd:
//
//	rows, _ = idx.Where("NY", "LA") // all rows tagged NY or LA
//
// A selector absent from the catalog nullifies the whole result vector
// (the per-selector category report still tells you which one was
// missing). This mirrors the historical semantics of the labeled-array
// systems this package interoperates with; callers that want narrowing
// instead should drop unknown selectors before querying.
//
// # Value Semantics
//
// An Index is never mutated in place: every operation that changes the
// catalog or the rows returns a new Index, sharing unchanged membership
// columns with its parent. Read operations (Where, Combs, GetIndices,
// Uniques) are safe to call from multiple goroutines concurrently.
//
// # Representations
//
// The bitmap Index is the primary representation. Package dense holds a
// per-row, per-category label table that round-trips losslessly with the
// bitmap form whenever no row carries two labels of the same category;
// ToDense reports ErrLossyConversion otherwise. Package codec serializes
// the interchange Record crossing component boundaries.
package catbits
