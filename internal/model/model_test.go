package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayRectFor(t *testing.T) {
	bbox := Rect{X0: 72, Y0: 72, X1: 172, Y1: 92}
	d := DisplayRectFor(bbox, 792)

	assert.Equal(t, 72.0, d.X)
	assert.Equal(t, 700.0, d.Y)
	assert.Equal(t, 100.0, d.W)
	assert.Equal(t, 20.0, d.H)
}

func TestRectInsideWithTolerance(t *testing.T) {
	outer := Rect{X0: 100, Y0: 100, X1: 300, Y1: 200}

	tests := []struct {
		name  string
		inner Rect
		tol   float64
		want  bool
	}{
		{"fully inside", Rect{X0: 120, Y0: 120, X1: 280, Y1: 180}, 0, true},
		{"identical", outer, 0, true},
		{"overhang within tolerance", Rect{X0: 97, Y0: 100, X1: 300, Y1: 203}, 5, true},
		{"overhang beyond tolerance", Rect{X0: 90, Y0: 100, X1: 300, Y1: 200}, 5, false},
		{"disjoint", Rect{X0: 400, Y0: 400, X1: 500, Y1: 500}, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inner.InsideWithTolerance(outer, tt.tol))
		})
	}
}

func TestStructureItemJSONShape(t *testing.T) {
	text := StructureItem{
		Page: 1,
		Kind: KindHeading1,
		Text: "Invoice Summary",
		BBox: Rect{X0: 72, Y0: 72, X1: 172, Y1: 92},
		Rect: DisplayRectFor(Rect{X0: 72, Y0: 72, X1: 172, Y1: 92}, 792),
	}

	data, err := json.Marshal(text)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "page")
	assert.Contains(t, m, "type")
	assert.Contains(t, m, "text")
	assert.Contains(t, m, "bbox")
	assert.Contains(t, m, "rect")
	assert.NotContains(t, m, "table_data", "text items carry no table data")

	assert.JSONEq(t, `[72, 72, 172, 92]`, string(m["bbox"]))
	assert.JSONEq(t, `[72, 700, 100, 20]`, string(m["rect"]))
}

func TestStructureItemJSONTable(t *testing.T) {
	table := StructureItem{
		Page: 2,
		Kind: KindTable,
		TableData: CellMatrix{
			{{Text: "Name", IsHeader: true}, {Text: "Qty", IsHeader: true}},
			{{Text: "Widget"}, {Text: "2"}},
		},
		BBox: Rect{X0: 72, Y0: 100, X1: 300, Y1: 160},
	}

	data, err := json.Marshal(table)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "table_data")
	assert.NotContains(t, m, "text", "table items carry no flat text")

	var decoded StructureItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, table.TableData, decoded.TableData)
	assert.Equal(t, table.BBox, decoded.BBox)
}

func TestCellMatrixCellCount(t *testing.T) {
	m := CellMatrix{
		{{Text: "a", IsHeader: true}, {Text: "b", IsHeader: true}},
		{{Text: "c"}},
	}
	assert.Equal(t, 3, m.CellCount())
	assert.Equal(t, 0, CellMatrix{}.CellCount())
}

func TestMatchText(t *testing.T) {
	text := StructureItem{Kind: KindParagraph, Text: "  padded text  "}
	assert.Equal(t, "padded text", text.MatchText())

	table := StructureItem{Kind: KindTable, Text: "should be ignored"}
	assert.Equal(t, "", table.MatchText())
	assert.True(t, table.IsTable())
	assert.False(t, text.IsTable())
}
