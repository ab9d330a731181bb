package layout

import (
	"sort"
	"strings"

	"github.com/a3tai/pdf-autotag/internal/model"
)

// Grouping tolerances. Fragments are frequently single glyphs, so they are
// first clustered into baselines and the baselines into blocks.
const (
	lineYTolerance = 2.0  // max baseline distance within one line
	wordGapFactor  = 0.25 // horizontal gap beyond this fraction of the font size starts a new word
	blockGapFactor = 1.6  // baseline gap beyond this fraction of the font size starts a new block
	ascentFactor   = 0.8  // approximate ascent above the baseline
	descentFactor  = 0.2  // approximate descent below the baseline
)

// TextBlock is one visually contiguous run of text lines with its dominant
// styling. The bounding box uses a top-left origin.
type TextBlock struct {
	BBox        model.Rect
	Text        string
	MaxFontSize float64
	Bold        bool
}

type textLine struct {
	baseline    float64 // PDF coordinates, y grows upward
	x0, x1      float64
	maxFontSize float64
	bold        bool
	text        string
}

// GroupBlocks merges a page's positioned fragments into text blocks,
// top to bottom.
func GroupBlocks(page Page) []TextBlock {
	lines := groupLines(page.Words)
	if len(lines) == 0 {
		return nil
	}

	var blocks []TextBlock
	current := []textLine{lines[0]}
	for _, ln := range lines[1:] {
		prev := current[len(current)-1]
		gap := prev.baseline - ln.baseline
		limit := blockGapFactor * maxFloat(prev.maxFontSize, ln.maxFontSize)
		if gap <= limit {
			current = append(current, ln)
			continue
		}
		blocks = append(blocks, buildBlock(current, page.Height))
		current = []textLine{ln}
	}
	blocks = append(blocks, buildBlock(current, page.Height))
	return blocks
}

// groupLines clusters fragments by baseline and assembles each line's text
// left to right, inserting spaces at visible horizontal gaps.
func groupLines(words []Word) []textLine {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y // top of the page first
	})

	var clusters [][]Word
	current := []Word{sorted[0]}
	for _, w := range sorted[1:] {
		if current[len(current)-1].Y-w.Y <= lineYTolerance {
			current = append(current, w)
			continue
		}
		clusters = append(clusters, current)
		current = []Word{w}
	}
	clusters = append(clusters, current)

	lines := make([]textLine, 0, len(clusters))
	for _, cluster := range clusters {
		lines = append(lines, buildLine(cluster))
	}
	return lines
}

func buildLine(cluster []Word) textLine {
	sort.SliceStable(cluster, func(i, j int) bool {
		return cluster[i].X < cluster[j].X
	})

	ln := textLine{
		baseline: cluster[0].Y,
		x0:       cluster[0].X,
	}

	var sb strings.Builder
	lastEnd := cluster[0].X
	for i, w := range cluster {
		if i > 0 && w.X-lastEnd > wordGapFactor*maxFloat(w.FontSize, 1) {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
		lastEnd = w.X + w.W
		if lastEnd > ln.x1 {
			ln.x1 = lastEnd
		}
		if w.FontSize > ln.maxFontSize {
			ln.maxFontSize = w.FontSize
		}
		if w.Bold() {
			ln.bold = true
		}
	}
	ln.text = sb.String()
	return ln
}

func buildBlock(lines []textLine, pageHeight float64) TextBlock {
	b := TextBlock{}
	top := lines[0].baseline
	bottom := lines[0].baseline
	x0, x1 := lines[0].x0, lines[0].x1

	var parts []string
	for _, ln := range lines {
		parts = append(parts, ln.text)
		if ln.maxFontSize > b.MaxFontSize {
			b.MaxFontSize = ln.maxFontSize
		}
		if ln.bold {
			b.Bold = true
		}
		if ln.baseline > top {
			top = ln.baseline
		}
		if ln.baseline < bottom {
			bottom = ln.baseline
		}
		if ln.x0 < x0 {
			x0 = ln.x0
		}
		if ln.x1 > x1 {
			x1 = ln.x1
		}
	}
	b.Text = strings.TrimSpace(strings.Join(parts, " "))

	// Approximate the vertical extents from the baselines, then convert to
	// the top-left origin shared by all downstream stages.
	yTop := top + ascentFactor*b.MaxFontSize
	yBottom := bottom - descentFactor*b.MaxFontSize
	b.BBox = model.Rect{
		X0: x0,
		Y0: pageHeight - yTop,
		X1: x1,
		Y1: pageHeight - yBottom,
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
