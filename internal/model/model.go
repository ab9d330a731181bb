// Package model holds the intermediate representation shared by the layout
// analysis, content-stream matching and structure-tree building stages.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the structural role of a layout item. The values double
// as PDF structure element role names.
type Kind string

const (
	KindHeading1  Kind = "H1"
	KindHeading2  Kind = "H2"
	KindParagraph Kind = "P"
	KindTable     Kind = "Table"
)

// Rect is an axis-aligned rectangle in page space using a top-left origin
// (y grows downward), so Y0 is the top edge. It serializes to a JSON
// four-element array [x0, y0, x1, y1].
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// InsideWithTolerance reports whether r lies entirely inside outer, allowing
// each edge to overhang by tol.
func (r Rect) InsideWithTolerance(outer Rect, tol float64) bool {
	return r.X0 >= outer.X0-tol &&
		r.Y0 >= outer.Y0-tol &&
		r.X1 <= outer.X1+tol &&
		r.Y1 <= outer.Y1+tol
}

// MarshalJSON encodes the rectangle as [x0, y0, x1, y1].
func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{r.X0, r.Y0, r.X1, r.Y1})
}

// UnmarshalJSON decodes a [x0, y0, x1, y1] array.
func (r *Rect) UnmarshalJSON(data []byte) error {
	var a [4]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("invalid rect: %w", err)
	}
	r.X0, r.Y0, r.X1, r.Y1 = a[0], a[1], a[2], a[3]
	return nil
}

// DisplayRect is a rectangle expressed as origin plus extent, derived from a
// bounding box by flipping the vertical axis against the page height. It
// serializes to [x, y, width, height].
type DisplayRect struct {
	X, Y, W, H float64
}

// MarshalJSON encodes the rectangle as [x, y, width, height].
func (d DisplayRect) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{d.X, d.Y, d.W, d.H})
}

// UnmarshalJSON decodes a [x, y, width, height] array.
func (d *DisplayRect) UnmarshalJSON(data []byte) error {
	var a [4]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("invalid display rect: %w", err)
	}
	d.X, d.Y, d.W, d.H = a[0], a[1], a[2], a[3]
	return nil
}

// DisplayRectFor derives the display rectangle for a bounding box on a page
// of the given height.
func DisplayRectFor(bbox Rect, pageHeight float64) DisplayRect {
	return DisplayRect{
		X: bbox.X0,
		Y: pageHeight - bbox.Y1,
		W: bbox.Width(),
		H: bbox.Height(),
	}
}

// Cell is one populated table cell.
type Cell struct {
	Text     string `json:"text"`
	IsHeader bool   `json:"is_header"`
}

// CellMatrix is the ordered rows of a table, each an ordered sequence of
// populated cells. Row 0 is the header row when present.
type CellMatrix [][]Cell

// CellCount returns the total number of cells across all rows.
func (m CellMatrix) CellCount() int {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	return n
}

// StructureItem is one classified layout unit on a page, produced by the
// layout classifier (text kinds) or the table extractor (KindTable) and
// consumed by the content-stream matcher and the structure-tree builder.
// Items are immutable once created.
type StructureItem struct {
	Page      int         `json:"page"` // 1-based page number
	Kind      Kind        `json:"type"`
	Text      string      `json:"text,omitempty"`
	TableData CellMatrix  `json:"table_data,omitempty"`
	BBox      Rect        `json:"bbox"`
	Rect      DisplayRect `json:"rect"`
}

// IsTable reports whether the item is a table.
func (it *StructureItem) IsTable() bool { return it.Kind == KindTable }

// MatchText returns the trimmed text used for content-stream matching.
// Table items never participate in matching and return "".
func (it *StructureItem) MatchText() string {
	if it.IsTable() {
		return ""
	}
	return strings.TrimSpace(it.Text)
}
