package structtree

import (
	"fmt"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/pdf-autotag/internal/document"
	"github.com/a3tai/pdf-autotag/internal/model"
)

// titleLimit caps the element title text stored in the tree.
const titleLimit = 100

// Builder grows a document's logical structure tree, one section per
// processed page.
type Builder struct {
	doc  *document.Document
	root *document.Elem
}

// NewBuilder ensures the document has a structure-tree root and is marked
// as tagged, and returns a builder targeting that root.
func NewBuilder(doc *document.Document) (*Builder, error) {
	root, err := doc.EnsureStructTreeRoot()
	if err != nil {
		return nil, err
	}
	if err := doc.SetMarked(); err != nil {
		return nil, err
	}
	return &Builder{doc: doc, root: root}, nil
}

// BuildPage creates the section and structure elements for one page.
// Failures creating an individual element are logged and skipped; the
// remaining items continue.
func (b *Builder) BuildPage(pageNr int, items []model.StructureItem, alloc *Allocator) error {
	if err := b.doc.SetStructParents(pageNr, pageNr-1); err != nil {
		return err
	}
	pageRef, err := b.doc.PageRef(pageNr)
	if err != nil {
		return err
	}

	sect, err := b.doc.NewStructElem("Sect", b.root, fmt.Sprintf("Page-%d", pageNr), nil, -1)
	if err != nil {
		return fmt.Errorf("failed to create section for page %d: %w", pageNr, err)
	}
	b.doc.AppendKid(b.root, sect)

	for i := range items {
		item := &items[i]
		if item.IsTable() {
			if err := b.buildTable(sect, item, alloc.CellMCIDs(i), pageRef); err != nil {
				log.Printf("Warning: failed to create table structure on page %d: %v", pageNr, err)
			}
			continue
		}

		mcid, ok := alloc.TextItemMCID(i)
		if !ok {
			continue
		}
		elem, err := b.doc.NewStructElem(string(item.Kind), sect, truncate(item.Text), pageRef, mcid)
		if err != nil {
			log.Printf("Warning: failed to create structure element on page %d: %v", pageNr, err)
			continue
		}
		b.doc.AppendKid(sect, elem)
	}

	return nil
}

// buildTable creates Table > TR > TH/TD elements, each cell referencing
// its allocated marked-content identifier.
func (b *Builder) buildTable(sect *document.Elem, item *model.StructureItem, mcids []int, pageRef *types.IndirectRef) error {
	table, err := b.doc.NewStructElem("Table", sect, "", nil, -1)
	if err != nil {
		return err
	}
	b.doc.AppendKid(sect, table)

	cellIdx := 0
	for _, row := range item.TableData {
		tr, err := b.doc.NewStructElem("TR", table, "", nil, -1)
		if err != nil {
			return err
		}
		b.doc.AppendKid(table, tr)

		for _, cell := range row {
			if cellIdx >= len(mcids) {
				return fmt.Errorf("cell count exceeds allocated identifiers")
			}
			role := "TD"
			if cell.IsHeader {
				role = "TH"
			}
			elem, err := b.doc.NewStructElem(role, tr, truncate(cell.Text), pageRef, mcids[cellIdx])
			if err != nil {
				return err
			}
			b.doc.AppendKid(tr, elem)
			cellIdx++
		}
	}
	return nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= titleLimit {
		return s
	}
	return string(r[:titleLimit])
}
