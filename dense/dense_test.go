package dense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catbits/catbits/rowset"
)

func cityTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromColumns([]Column{
		{Category: "cities", Labels: []string{"NY", "NY", "LA", "LA"}},
		{Category: "income", Labels: []string{"high", "low", "high", "low"}},
	})
	require.NoError(t, err)
	return tbl
}

func TestFromColumns(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tbl := cityTable(t)
		assert.Equal(t, 4, tbl.Rows())
		assert.Equal(t, []string{"cities", "income"}, tbl.Categories())
	})

	t.Run("no columns", func(t *testing.T) {
		tbl, err := FromColumns(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Rows())
		assert.Empty(t, tbl.Categories())
	})

	t.Run("duplicate category", func(t *testing.T) {
		_, err := FromColumns([]Column{
			{Category: "cities", Labels: []string{"NY"}},
			{Category: "cities", Labels: []string{"LA"}},
		})
		assert.ErrorIs(t, err, ErrDuplicateCategory)
	})

	t.Run("ragged columns", func(t *testing.T) {
		_, err := FromColumns([]Column{
			{Category: "cities", Labels: []string{"NY", "LA"}},
			{Category: "income", Labels: []string{"high"}},
		})
		assert.ErrorIs(t, err, ErrRaggedColumns)
	})

	t.Run("columns are copied", func(t *testing.T) {
		labels := []string{"NY", "LA"}
		tbl, err := FromColumns([]Column{{Category: "cities", Labels: labels}})
		require.NoError(t, err)
		labels[0] = "SF"
		cell, _ := tbl.Get(0, "cities")
		assert.Equal(t, "NY", cell)
	})
}

func TestGetSet(t *testing.T) {
	tbl := cityTable(t)

	cell, ok := tbl.Get(2, "cities")
	require.True(t, ok)
	assert.Equal(t, "LA", cell)

	_, ok = tbl.Get(2, "nope")
	assert.False(t, ok)
	_, ok = tbl.Get(9, "cities")
	assert.False(t, ok)

	require.NoError(t, tbl.Set(2, "cities", "SF"))
	cell, _ = tbl.Get(2, "cities")
	assert.Equal(t, "SF", cell)

	assert.ErrorIs(t, tbl.Set(2, "nope", "SF"), ErrUnknownCategory)
	assert.ErrorIs(t, tbl.Set(-1, "cities", "SF"), ErrRowOutOfRange)
}

func TestUniques(t *testing.T) {
	tbl, err := FromColumns([]Column{
		{Category: "cities", Labels: []string{"NY", "", "LA", "NY"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"NY", "LA"}, tbl.Uniques("cities"))
	assert.Nil(t, tbl.Uniques("nope"))

	assert.True(t, tbl.ContainsLabel("LA"))
	assert.False(t, tbl.ContainsLabel("SF"))
	assert.False(t, tbl.ContainsLabel(Empty))
}

func TestTableWhere(t *testing.T) {
	tbl := cityTable(t)

	t.Run("AND across categories", func(t *testing.T) {
		rows, cats := tbl.Where("LA", "low")
		assert.Equal(t, []uint32{3}, rows.Slice())
		assert.Equal(t, []string{"cities", "income"}, cats)
	})

	t.Run("OR within a category", func(t *testing.T) {
		rows, _ := tbl.Where("NY", "LA")
		assert.Equal(t, []uint32{0, 1, 2, 3}, rows.Slice())
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		rows, cats := tbl.Where("NY", "NY")
		assert.Equal(t, []uint32{0, 1}, rows.Slice())
		assert.Equal(t, []string{"cities"}, cats)
	})

	t.Run("unknown selector nullifies the result", func(t *testing.T) {
		rows, cats := tbl.Where("NY", "nope")
		assert.True(t, rows.IsEmpty())
		assert.Equal(t, []string{"cities", ""}, cats)
	})

	t.Run("no selectors", func(t *testing.T) {
		rows, cats := tbl.Where()
		assert.True(t, rows.IsEmpty())
		assert.Empty(t, cats)
	})
}

func TestTableKeep(t *testing.T) {
	tbl := cityTable(t)

	kept, err := tbl.Keep(rowset.FromIndices(4, []uint32{1, 3}))
	require.NoError(t, err)
	assert.Equal(t, 2, kept.Rows())
	cities, _ := kept.Column("cities")
	assert.Equal(t, []string{"NY", "LA"}, cities)
	incomes, _ := kept.Column("income")
	assert.Equal(t, []string{"low", "low"}, incomes)

	_, err = tbl.Keep(rowset.New(7))
	assert.ErrorIs(t, err, ErrRaggedColumns)
}

func TestTableAppend(t *testing.T) {
	t.Run("stacks rows, column order follows the receiver", func(t *testing.T) {
		a := cityTable(t)
		b, err := FromColumns([]Column{
			{Category: "income", Labels: []string{"mid"}},
			{Category: "cities", Labels: []string{"SF"}},
		})
		require.NoError(t, err)

		out, err := a.Append(b)
		require.NoError(t, err)
		assert.Equal(t, 5, out.Rows())
		assert.Equal(t, []string{"cities", "income"}, out.Categories())
		cities, _ := out.Column("cities")
		assert.Equal(t, []string{"NY", "NY", "LA", "LA", "SF"}, cities)
	})

	t.Run("empty operands are identities", func(t *testing.T) {
		a := cityTable(t)
		empty, err := FromColumns(nil)
		require.NoError(t, err)

		out, err := a.Append(empty)
		require.NoError(t, err)
		assert.Equal(t, 4, out.Rows())

		out, err = empty.Append(a)
		require.NoError(t, err)
		assert.Equal(t, 4, out.Rows())
	})

	t.Run("category mismatch", func(t *testing.T) {
		a := cityTable(t)
		b, err := FromColumns([]Column{
			{Category: "cities", Labels: []string{"SF"}},
		})
		require.NoError(t, err)
		_, err = a.Append(b)
		assert.ErrorIs(t, err, ErrCategoryMismatch)
	})
}

func TestTableClone(t *testing.T) {
	tbl := cityTable(t)
	clone := tbl.Clone()
	require.NoError(t, clone.Set(0, "cities", "SF"))

	cell, _ := tbl.Get(0, "cities")
	assert.Equal(t, "NY", cell)
}
