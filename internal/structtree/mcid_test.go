package structtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-autotag/internal/model"
)

func TestAllocatorDenseInItemOrder(t *testing.T) {
	items := []model.StructureItem{
		{Kind: model.KindHeading1, Text: "Title"},
		{Kind: model.KindTable, TableData: model.CellMatrix{
			{{Text: "Name", IsHeader: true}, {Text: "Qty", IsHeader: true}},
			{{Text: "Widget"}, {Text: "2"}},
		}},
		{Kind: model.KindParagraph, Text: "Body"},
	}

	a := NewAllocator(items)

	mcid, ok := a.TextItemMCID(0)
	require.True(t, ok)
	assert.Equal(t, 0, mcid)

	assert.Equal(t, []int{1, 2, 3, 4}, a.CellMCIDs(1))

	mcid, ok = a.TextItemMCID(2)
	require.True(t, ok)
	assert.Equal(t, 5, mcid)

	assert.Equal(t, 6, a.Total())
}

func TestAllocatorKindMismatch(t *testing.T) {
	items := []model.StructureItem{
		{Kind: model.KindTable, TableData: model.CellMatrix{{{Text: "a", IsHeader: true}}}},
		{Kind: model.KindParagraph, Text: "b"},
	}

	a := NewAllocator(items)

	_, ok := a.TextItemMCID(0)
	assert.False(t, ok, "table items have no single text identifier")
	assert.Nil(t, a.CellMCIDs(1), "text items have no cell identifiers")
	_, ok = a.TextItemMCID(99)
	assert.False(t, ok)
}

func TestAllocatorIdentifiersAreUnique(t *testing.T) {
	items := []model.StructureItem{
		{Kind: model.KindParagraph, Text: "a"},
		{Kind: model.KindTable, TableData: model.CellMatrix{
			{{Text: "h1", IsHeader: true}, {Text: "h2", IsHeader: true}},
			{{Text: "c1"}, {Text: "c2"}, {Text: "c3"}},
		}},
		{Kind: model.KindParagraph, Text: "b"},
		{Kind: model.KindHeading2, Text: "c"},
	}

	a := NewAllocator(items)

	seen := make(map[int]bool)
	record := func(id int) {
		assert.False(t, seen[id], "identifier %d assigned twice", id)
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, a.Total())
		seen[id] = true
	}
	for i := range items {
		if items[i].IsTable() {
			for _, id := range a.CellMCIDs(i) {
				record(id)
			}
			continue
		}
		id, ok := a.TextItemMCID(i)
		require.True(t, ok)
		record(id)
	}
	assert.Len(t, seen, a.Total(), "identifiers are dense")
}

func TestAllocatorEmpty(t *testing.T) {
	a := NewAllocator(nil)
	assert.Equal(t, 0, a.Total())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := ""
	for i := 0; i < 30; i++ {
		long += "abcde"
	}
	got := truncate(long) // 150 characters in
	assert.Len(t, []rune(got), titleLimit)
}
