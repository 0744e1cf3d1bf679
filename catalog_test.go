package catbits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catbits/catbits/rowset"
)

func TestAddCategory(t *testing.T) {
	t.Run("default sentinel covers every row", func(t *testing.T) {
		idx, err := cityIndex(t).AddCategory("source", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"all__source"}, idx.Uniques("source"))
		col, ok := idx.Membership("all__source")
		require.True(t, ok)
		assert.True(t, col.IsFull())
		checkInvariants(t, idx)
	})

	t.Run("explicit membership", func(t *testing.T) {
		idx, err := cityIndex(t).AddCategory("coast", map[string]*rowset.Set{
			"east": rowset.FromIndices(4, []uint32{0, 1}),
			"west": rowset.FromIndices(4, []uint32{2, 3}),
		})
		require.NoError(t, err)

		// Labels insert in sorted order.
		assert.Equal(t, []string{"east", "west"}, idx.Uniques("coast"))
		col, _ := idx.Membership("west")
		assert.Equal(t, []uint32{2, 3}, col.Slice())
		checkInvariants(t, idx)
	})

	t.Run("empty columns are pruned on insert", func(t *testing.T) {
		idx, err := cityIndex(t).AddCategory("coast", map[string]*rowset.Set{
			"east": rowset.FromIndices(4, []uint32{0, 1}),
			"gulf": rowset.New(4),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"east"}, idx.Uniques("coast"))
	})

	t.Run("duplicate category", func(t *testing.T) {
		_, err := cityIndex(t).AddCategory("cities", nil)
		var dup *ErrDuplicateCategory
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "cities", dup.Category)
	})

	t.Run("duplicate label across categories", func(t *testing.T) {
		_, err := cityIndex(t).AddCategory("regions", map[string]*rowset.Set{
			"NY": rowset.FromIndices(4, []uint32{0}),
		})
		var dup *ErrDuplicateLabel
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "NY", dup.Label)
		assert.Equal(t, "cities", dup.Category)
	})

	t.Run("column length mismatch", func(t *testing.T) {
		_, err := cityIndex(t).AddCategory("coast", map[string]*rowset.Set{
			"east": rowset.FromIndices(9, []uint32{0}),
		})
		var shape *ErrShapeMismatch
		require.ErrorAs(t, err, &shape)
		assert.Equal(t, 4, shape.Expected)
		assert.Equal(t, 9, shape.Actual)
	})

	t.Run("uniform category", func(t *testing.T) {
		idx, err := cityIndex(t).AddUniformCategory("survey", "wave1")
		require.NoError(t, err)
		col, _ := idx.Membership("wave1")
		assert.True(t, col.IsFull())
	})
}

func TestRemoveCategories(t *testing.T) {
	t.Run("removes entries and columns", func(t *testing.T) {
		idx, err := cityIndex(t).RemoveCategories("cities")
		require.NoError(t, err)
		assert.Equal(t, []string{"income"}, idx.Categories())
		assert.False(t, idx.ContainsLabel("NY"))
		checkInvariants(t, idx)
	})

	t.Run("removing every category leaves a valid empty catalog", func(t *testing.T) {
		idx, err := cityIndex(t).RemoveCategories("cities", "income")
		require.NoError(t, err)
		assert.Equal(t, 4, idx.Rows())
		assert.Equal(t, 0, idx.NumLabels())
	})

	t.Run("unknown category fails before any removal", func(t *testing.T) {
		src := cityIndex(t)
		_, err := src.RemoveCategories("cities", "nope")
		var unknown *ErrUnknownCategory
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "nope", unknown.Category)
		assert.True(t, src.ContainsCategory("cities"))
	})
}

func TestRenameCategory(t *testing.T) {
	idx := cityIndex(t)

	t.Run("rename", func(t *testing.T) {
		out, err := idx.RenameCategory("cities", "towns")
		require.NoError(t, err)
		assert.Equal(t, []string{"towns", "income"}, out.Categories())
		cat, _ := out.CategoryOf("NY")
		assert.Equal(t, "towns", cat)
	})

	t.Run("same name is a no-op", func(t *testing.T) {
		out, err := idx.RenameCategory("cities", "cities")
		require.NoError(t, err)
		assert.True(t, idx.Equal(out))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := idx.RenameCategory("nope", "towns")
		var unknown *ErrUnknownCategory
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("collision", func(t *testing.T) {
		_, err := idx.RenameCategory("cities", "income")
		var dup *ErrDuplicateCategory
		assert.ErrorAs(t, err, &dup)
	})
}

func TestRenameLabel(t *testing.T) {
	idx := cityIndex(t)

	t.Run("rename keeps column", func(t *testing.T) {
		out, err := idx.RenameLabel("NY", "NYC")
		require.NoError(t, err)
		col, ok := out.Membership("NYC")
		require.True(t, ok)
		assert.Equal(t, []uint32{0, 1}, col.Slice())
		assert.False(t, out.ContainsLabel("NY"))
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := idx.RenameLabel("SF", "SFO")
		assert.ErrorIs(t, err, ErrUnknownLabel)
	})

	t.Run("collision anywhere in the catalog", func(t *testing.T) {
		_, err := idx.RenameLabel("NY", "high")
		var dup *ErrDuplicateLabel
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "income", dup.Category)
	})
}

func TestReplaceLabels(t *testing.T) {
	t.Run("merges columns under the new label", func(t *testing.T) {
		idx, err := cityIndex(t).ReplaceLabels([]string{"NY", "LA"}, "urban")
		require.NoError(t, err)

		assert.Equal(t, []string{"urban"}, idx.Uniques("cities"))
		col, _ := idx.Membership("urban")
		assert.True(t, col.IsFull())
		checkInvariants(t, idx)
	})

	t.Run("new label may be one of the replaced", func(t *testing.T) {
		idx, err := cityIndex(t).ReplaceLabels([]string{"NY", "LA"}, "NY")
		require.NoError(t, err)
		col, _ := idx.Membership("NY")
		assert.True(t, col.IsFull())
	})

	t.Run("labels must share a category", func(t *testing.T) {
		_, err := cityIndex(t).ReplaceLabels([]string{"NY", "high"}, "urban")
		var conflict *ErrCategoryConflict
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "high", conflict.Label)
	})

	t.Run("new label colliding elsewhere", func(t *testing.T) {
		_, err := cityIndex(t).ReplaceLabels([]string{"NY", "LA"}, "low")
		var dup *ErrDuplicateLabel
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("unknown source label", func(t *testing.T) {
		_, err := cityIndex(t).ReplaceLabels([]string{"SF"}, "urban")
		assert.ErrorIs(t, err, ErrUnknownLabel)
	})
}

func TestCollapse(t *testing.T) {
	t.Run("replaces labels with a covering sentinel", func(t *testing.T) {
		idx, err := cityIndex(t).Collapse("cities")
		require.NoError(t, err)

		assert.Equal(t, []string{"all__cities"}, idx.Uniques("cities"))
		assert.Equal(t, []string{"high", "low"}, idx.Uniques("income"))
		col, _ := idx.Membership("all__cities")
		assert.True(t, col.IsFull())
		checkInvariants(t, idx)
	})

	t.Run("rows without membership stay uncovered", func(t *testing.T) {
		base, err := New(3).AddCategory("cities", map[string]*rowset.Set{
			"NY": rowset.FromIndices(3, []uint32{0}),
			"LA": rowset.FromIndices(3, []uint32{2}),
		})
		require.NoError(t, err)

		idx, err := base.Collapse("cities")
		require.NoError(t, err)
		col, _ := idx.Membership("all__cities")
		assert.Equal(t, []uint32{0, 2}, col.Slice())
	})

	t.Run("idempotent", func(t *testing.T) {
		once, err := cityIndex(t).Collapse("cities")
		require.NoError(t, err)
		twice, err := once.Collapse("cities")
		require.NoError(t, err)
		assert.True(t, once.Equal(twice))
	})

	t.Run("no arguments collapses everything", func(t *testing.T) {
		idx, err := cityIndex(t).Collapse()
		require.NoError(t, err)
		assert.Equal(t, []string{"all__cities", "all__income"}, idx.Labels())
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := cityIndex(t).Collapse("nope")
		var unknown *ErrUnknownCategory
		assert.ErrorAs(t, err, &unknown)
	})
}

func TestCollapseExcept(t *testing.T) {
	t.Run("keeps the named categories", func(t *testing.T) {
		idx, err := cityIndex(t).CollapseExcept("cities")
		require.NoError(t, err)
		assert.Equal(t, []string{"NY", "LA"}, idx.Uniques("cities"))
		assert.Equal(t, []string{"all__income"}, idx.Uniques("income"))
	})

	t.Run("keeping everything is a no-op", func(t *testing.T) {
		src := cityIndex(t)
		idx, err := src.CollapseExcept("cities", "income")
		require.NoError(t, err)
		assert.True(t, src.Equal(idx))
	})

	t.Run("unknown kept category", func(t *testing.T) {
		_, err := cityIndex(t).CollapseExcept("nope")
		var unknown *ErrUnknownCategory
		assert.ErrorAs(t, err, &unknown)
	})
}

func TestRehash(t *testing.T) {
	t.Run("prunes dead columns", func(t *testing.T) {
		// Keep only NY rows: LA, and low-income rows vanish.
		idx := cityIndex(t)
		kept, err := idx.Keep(rowset.FromIndices(4, []uint32{0}))
		require.NoError(t, err)

		assert.Equal(t, []string{"NY", "high"}, kept.Labels())
		checkInvariants(t, kept)
	})

	t.Run("no-op on zero-row index", func(t *testing.T) {
		idx, err := New(0).AddCategory("cities", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"all__cities"}, idx.Rehash().Labels())
	})
}

func TestErrorsAreValues(t *testing.T) {
	// Typed errors unwrap cleanly through fmt wrapping.
	err := errors.Join(&ErrUnknownCategory{Category: "x"})
	var unknown *ErrUnknownCategory
	assert.ErrorAs(t, err, &unknown)
}
