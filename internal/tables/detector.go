// Package tables detects tabular regions on a page and normalizes them
// into header/body cell structures.
package tables

import (
	"sort"
	"strings"

	"github.com/a3tai/pdf-autotag/internal/layout"
	"github.com/a3tai/pdf-autotag/internal/model"
)

// Detection tolerances.
const (
	rowTolerance    = 5.0  // max baseline distance within one table row
	columnGap       = 15.0 // horizontal gap separating two cells
	columnTolerance = 10.0 // max drift of a column's left edge between rows
	wordGapFactor   = 0.25 // gap inside a cell that still separates words

	minTableRows    = 2
	minTableColumns = 2
)

// Detection is one detected table region: its bounding box (top-left
// origin) and the raw cell text matrix, row-major.
type Detection struct {
	BBox  model.Rect
	Cells [][]string
}

type cell struct {
	x0, x1 float64
	text   string
}

type tableRow struct {
	baseline float64
	cells    []cell
}

// DetectPage finds candidate table regions on a page by clustering word
// fragments into rows and checking for runs of rows with aligned columns.
func DetectPage(page layout.Page) []Detection {
	rows := groupRows(page.Words)

	var detections []Detection
	var run []tableRow
	flush := func() {
		if det, ok := buildDetection(run, page.Height); ok {
			detections = append(detections, det)
		}
		run = nil
	}

	for _, row := range rows {
		if len(row.cells) < minTableColumns {
			flush()
			continue
		}
		if len(run) > 0 && !columnsAligned(run[len(run)-1], row) {
			flush()
		}
		run = append(run, row)
	}
	flush()

	return detections
}

// groupRows clusters fragments by baseline and splits each row into cells
// at horizontal gaps wider than columnGap.
func groupRows(words []layout.Word) []tableRow {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]layout.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows []tableRow
	var cluster []layout.Word
	for _, w := range sorted {
		if len(cluster) > 0 && cluster[len(cluster)-1].Y-w.Y > rowTolerance {
			rows = append(rows, splitCells(cluster))
			cluster = nil
		}
		cluster = append(cluster, w)
	}
	rows = append(rows, splitCells(cluster))
	return rows
}

func splitCells(cluster []layout.Word) tableRow {
	sort.SliceStable(cluster, func(i, j int) bool {
		return cluster[i].X < cluster[j].X
	})

	row := tableRow{baseline: cluster[0].Y}
	var sb strings.Builder
	cur := cell{x0: cluster[0].X}
	lastEnd := cluster[0].X

	closeCell := func() {
		cur.text = strings.TrimSpace(sb.String())
		cur.x1 = lastEnd
		if cur.text != "" {
			row.cells = append(row.cells, cur)
		}
		sb.Reset()
	}

	for i, w := range cluster {
		if i > 0 {
			gap := w.X - lastEnd
			switch {
			case gap > columnGap:
				closeCell()
				cur = cell{x0: w.X}
			case gap > wordGapFactor*w.FontSize:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(w.Text)
		if end := w.X + w.W; end > lastEnd {
			lastEnd = end
		}
	}
	closeCell()
	return row
}

// columnsAligned reports whether two rows share the same column layout:
// equal cell counts with left edges within tolerance of each other.
func columnsAligned(a, b tableRow) bool {
	if len(a.cells) != len(b.cells) {
		return false
	}
	for i := range a.cells {
		drift := a.cells[i].x0 - b.cells[i].x0
		if drift < 0 {
			drift = -drift
		}
		if drift > columnTolerance {
			return false
		}
	}
	return true
}

func buildDetection(run []tableRow, pageHeight float64) (Detection, bool) {
	if len(run) < minTableRows {
		return Detection{}, false
	}

	det := Detection{Cells: make([][]string, 0, len(run))}
	x0 := run[0].cells[0].x0
	x1 := run[0].cells[len(run[0].cells)-1].x1
	top := run[0].baseline
	bottom := run[len(run)-1].baseline

	for _, row := range run {
		texts := make([]string, 0, len(row.cells))
		for _, c := range row.cells {
			texts = append(texts, c.text)
			if c.x0 < x0 {
				x0 = c.x0
			}
			if c.x1 > x1 {
				x1 = c.x1
			}
		}
		det.Cells = append(det.Cells, texts)
	}

	det.BBox = model.Rect{
		X0: x0,
		Y0: pageHeight - (top + rowTolerance),
		X1: x1,
		Y1: pageHeight - (bottom - rowTolerance),
	}
	return det, true
}
