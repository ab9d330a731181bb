package layout

import (
	"sort"

	"github.com/a3tai/pdf-autotag/internal/model"
)

// Classification thresholds. Fixed constants, not tunable per document;
// documents with unusual base font sizes will classify poorly.
const (
	heading1FontSize      = 14.0
	heading2FontSize      = 12.0
	tableOverlapTolerance = 5.0
)

// ClassifyBlock assigns a structural kind from the block's dominant styling.
func ClassifyBlock(b TextBlock) model.Kind {
	switch {
	case b.MaxFontSize > heading1FontSize:
		return model.KindHeading1
	case b.MaxFontSize > heading2FontSize || b.Bold:
		return model.KindHeading2
	default:
		return model.KindParagraph
	}
}

// BuildPageItems classifies a page's text blocks, merges them with the
// page's table items and returns the combined sequence sorted by top edge,
// top of the page first. Blocks that sit inside a table region or are empty
// after trimming are dropped.
func BuildPageItems(page Page, blocks []TextBlock, tableItems []model.StructureItem) []model.StructureItem {
	items := make([]model.StructureItem, 0, len(blocks)+len(tableItems))
	items = append(items, tableItems...)

	for _, b := range blocks {
		if b.Text == "" {
			continue
		}
		if insideAnyTable(b.BBox, tableItems) {
			continue
		}
		items = append(items, model.StructureItem{
			Page: page.Number,
			Kind: ClassifyBlock(b),
			Text: b.Text,
			BBox: b.BBox,
			Rect: model.DisplayRectFor(b.BBox, page.Height),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BBox.Y0 < items[j].BBox.Y0
	})
	return items
}

// insideAnyTable reports whether the block region belongs to a detected
// table, so its text is tagged through the table cells instead.
func insideAnyTable(bbox model.Rect, tableItems []model.StructureItem) bool {
	for i := range tableItems {
		if bbox.InsideWithTolerance(tableItems[i].BBox, tableOverlapTolerance) {
			return true
		}
	}
	return false
}
