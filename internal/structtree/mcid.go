// Package structtree allocates marked-content identifiers and builds the
// logical structure tree for tagged output.
package structtree

import (
	"github.com/a3tai/pdf-autotag/internal/model"
)

// Allocator owns the marked-content identifiers of one page. Identifiers
// are dense, zero-based and assigned once, in item order: one per text
// item and one per table cell. Every item consumes its identifiers whether
// or not a content-stream run was matched for it, so the rewriter and the
// tree builder always agree on numbering.
type Allocator struct {
	textMCID map[int]int
	cellMCID map[int][]int
	next     int
}

// NewAllocator assigns identifiers for a page's structure items.
func NewAllocator(items []model.StructureItem) *Allocator {
	a := &Allocator{
		textMCID: make(map[int]int),
		cellMCID: make(map[int][]int),
	}
	for i := range items {
		if items[i].IsTable() {
			n := items[i].TableData.CellCount()
			ids := make([]int, 0, n)
			for j := 0; j < n; j++ {
				ids = append(ids, a.next)
				a.next++
			}
			a.cellMCID[i] = ids
			continue
		}
		a.textMCID[i] = a.next
		a.next++
	}
	return a
}

// TextItemMCID returns the identifier assigned to a text item. It reports
// false for table items and unknown indices.
func (a *Allocator) TextItemMCID(itemIndex int) (int, bool) {
	mcid, ok := a.textMCID[itemIndex]
	return mcid, ok
}

// CellMCIDs returns the identifiers assigned to a table item's cells in
// row-major order, nil for non-table indices.
func (a *Allocator) CellMCIDs(itemIndex int) []int {
	return a.cellMCID[itemIndex]
}

// Total returns the number of identifiers allocated for the page.
func (a *Allocator) Total() int {
	return a.next
}
