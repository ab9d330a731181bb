package contentstream

import (
	"bytes"
	"fmt"

	"github.com/a3tai/pdf-autotag/internal/model"
)

// MCIDSource resolves the marked-content identifier assigned to a text
// structure item. The same source must feed the structure-tree builder so
// the identifiers in the rewritten stream and in the tree agree.
type MCIDSource interface {
	TextItemMCID(itemIndex int) (int, bool)
}

// Rewrite produces a new content stream with marked-content wrappers
// around every matched run. Bytes outside matched runs, and matched runs
// themselves, are copied through unchanged; only the begin/end operators
// are inserted. With no assignments the original bytes are returned as is.
func Rewrite(content []byte, assignments []Assignment, items []model.StructureItem, mcids MCIDSource) []byte {
	if len(assignments) == 0 {
		return content
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + len(assignments)*32)

	last := 0
	for _, a := range assignments {
		if a.Run.Start < last || a.Run.End > len(content) {
			// Runs must be in order and in bounds; drop anything that is not.
			continue
		}
		buf.Write(content[last:a.Run.Start])
		last = a.Run.End

		mcid, ok := -1, false
		if a.ItemIndex >= 0 {
			mcid, ok = mcids.TextItemMCID(a.ItemIndex)
		}
		if !ok {
			buf.Write(content[a.Run.Start:a.Run.End])
			continue
		}

		fmt.Fprintf(&buf, "/%s <</MCID %d>> BDC\n", items[a.ItemIndex].Kind, mcid)
		buf.Write(content[a.Run.Start:a.Run.End])
		buf.WriteString("\nEMC")
	}
	buf.Write(content[last:])

	return buf.Bytes()
}
