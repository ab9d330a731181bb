package tables

import (
	"log"
	"strings"

	"github.com/a3tai/pdf-autotag/internal/layout"
	"github.com/a3tai/pdf-autotag/internal/model"
)

// Extract normalizes one detection into a table structure item. Row 0,
// when it has any non-blank cells, becomes the header row; blank cells are
// omitted. Detections with fewer than two populated rows yield nil.
func Extract(page layout.Page, det Detection) *model.StructureItem {
	if len(det.Cells) == 0 {
		return nil
	}

	var cells model.CellMatrix
	for rowIdx, raw := range det.Cells {
		isHeader := rowIdx == 0
		var row []model.Cell
		for _, text := range raw {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			row = append(row, model.Cell{Text: text, IsHeader: isHeader})
		}
		if len(row) > 0 {
			cells = append(cells, row)
		}
	}

	// A usable table needs at least a header plus one body row.
	if len(cells) < 2 {
		return nil
	}

	return &model.StructureItem{
		Page:      page.Number,
		Kind:      model.KindTable,
		TableData: cells,
		BBox:      det.BBox,
		Rect:      model.DisplayRectFor(det.BBox, page.Height),
	}
}

// ExtractItems runs detection and normalization for a page. Failures on an
// individual table are logged and skipped; the rest of the page continues.
func ExtractItems(page layout.Page) []model.StructureItem {
	var items []model.StructureItem
	for _, det := range DetectPage(page) {
		item := Extract(page, det)
		if item == nil {
			log.Printf("Warning: skipping table on page %d with too few populated rows", page.Number)
			continue
		}
		items = append(items, *item)
	}
	return items
}
