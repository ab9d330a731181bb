// Package document wraps the pdfcpu object model with the operations the
// autotagger needs: reading and replacing page content streams and growing
// the logical structure tree.
package document

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is an open PDF held in memory for mutation.
type Document struct {
	ctx *model.Context
}

// Elem is one indirect object in the structure tree: its reference plus
// the live dictionary, which stays mutable after registration.
type Elem struct {
	Ref  types.IndirectRef
	Dict types.Dict
}

// Open reads a PDF with relaxed validation and verifies its page tree.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return &Document{ctx: ctx}, nil
}

// Save writes the document to the given path.
func (d *Document) Save(path string) error {
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// PageRef returns the indirect reference of a page object. Pages are
// numbered from 1.
func (d *Document) PageRef(pageNr int) (*types.IndirectRef, error) {
	_, ref, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page %d: %w", pageNr, err)
	}
	return ref, nil
}

// PageContent returns the decoded content-stream bytes of a page. A
// Contents array is concatenated in order with a newline between parts.
// A page without contents yields an empty slice.
func (d *Document) PageContent(pageNr int) ([]byte, error) {
	pageDict, _, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page %d: %w", pageNr, err)
	}

	obj, found := pageDict.Find("Contents")
	if !found {
		return nil, nil
	}

	obj, err = d.ctx.Dereference(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference contents of page %d: %w", pageNr, err)
	}

	switch o := obj.(type) {
	case types.StreamDict:
		return d.streamBytes(&o, pageNr)
	case types.Array:
		var content []byte
		for _, entry := range o {
			sd, _, err := d.ctx.DereferenceStreamDict(entry)
			if err != nil || sd == nil {
				return nil, fmt.Errorf("failed to dereference contents array of page %d: %w", pageNr, err)
			}
			part, err := d.streamBytes(sd, pageNr)
			if err != nil {
				return nil, err
			}
			if len(content) > 0 {
				content = append(content, '\n')
			}
			content = append(content, part...)
		}
		return content, nil
	default:
		return nil, fmt.Errorf("unexpected contents type %T on page %d", obj, pageNr)
	}
}

func (d *Document) streamBytes(sd *types.StreamDict, pageNr int) ([]byte, error) {
	if err := sd.Decode(); err != nil {
		return nil, fmt.Errorf("failed to decode content stream of page %d: %w", pageNr, err)
	}
	return sd.Content, nil
}

// ReplacePageContent swaps a page's contents for a single new stream
// holding the given bytes.
func (d *Document) ReplacePageContent(pageNr int, content []byte) error {
	pageDict, _, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("failed to resolve page %d: %w", pageNr, err)
	}

	sd, err := d.ctx.XRefTable.NewStreamDictForBuf(content)
	if err != nil {
		return fmt.Errorf("failed to create content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to encode content stream: %w", err)
	}

	ref, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return fmt.Errorf("failed to register content stream: %w", err)
	}

	pageDict["Contents"] = *ref
	return nil
}

// SetStructParents records the page's structure-parent key.
func (d *Document) SetStructParents(pageNr, key int) error {
	pageDict, _, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("failed to resolve page %d: %w", pageNr, err)
	}
	pageDict["StructParents"] = types.Integer(key)
	return nil
}

// SetMarked flags the document as carrying tagged structure.
func (d *Document) SetMarked() error {
	catalog, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to access catalog: %w", err)
	}
	catalog["MarkInfo"] = types.Dict(map[string]types.Object{
		"Marked": types.Boolean(true),
	})
	return nil
}

// EnsureStructTreeRoot returns the document's structure-tree root,
// creating and registering it on the catalog if absent. The operation is
// idempotent; repeated calls return the same root.
func (d *Document) EnsureStructTreeRoot() (*Elem, error) {
	catalog, err := d.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to access catalog: %w", err)
	}

	if obj, found := catalog.Find("StructTreeRoot"); found {
		ref, ok := obj.(types.IndirectRef)
		if !ok {
			return nil, fmt.Errorf("StructTreeRoot is not an indirect reference")
		}
		dict, err := d.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference StructTreeRoot: %w", err)
		}
		return &Elem{Ref: ref, Dict: dict}, nil
	}

	dict := types.Dict(map[string]types.Object{
		"Type": types.Name("StructTreeRoot"),
		"K":    types.Array{},
	})
	ref, err := d.ctx.IndRefForNewObject(dict)
	if err != nil {
		return nil, fmt.Errorf("failed to register StructTreeRoot: %w", err)
	}
	catalog["StructTreeRoot"] = *ref

	return &Elem{Ref: *ref, Dict: dict}, nil
}

// NewStructElem creates and registers a structure element with the given
// role under the parent. Title and page reference are optional; mcid < 0
// gives the element an empty kids array instead of a marked-content
// reference.
func (d *Document) NewStructElem(role string, parent *Elem, title string, pageRef *types.IndirectRef, mcid int) (*Elem, error) {
	dict := types.Dict(map[string]types.Object{
		"Type": types.Name("StructElem"),
		"S":    types.Name(role),
		"P":    parent.Ref,
	})
	if mcid >= 0 {
		dict["K"] = types.Integer(mcid)
	} else {
		dict["K"] = types.Array{}
	}
	if title != "" {
		dict["T"] = stringLiteral(title)
	}
	if pageRef != nil {
		dict["Pg"] = *pageRef
	}

	ref, err := d.ctx.IndRefForNewObject(dict)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s structure element: %w", role, err)
	}
	return &Elem{Ref: *ref, Dict: dict}, nil
}

// ResolveElem returns the element behind an indirect reference.
func (d *Document) ResolveElem(ref types.IndirectRef) (*Elem, error) {
	dict, err := d.ctx.DereferenceDict(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference structure element: %w", err)
	}
	return &Elem{Ref: ref, Dict: dict}, nil
}

// AppendKid appends a child element to the parent's kids array.
func (d *Document) AppendKid(parent, kid *Elem) {
	kids, _ := parent.Dict["K"].(types.Array)
	parent.Dict["K"] = append(kids, kid.Ref)
}

func stringLiteral(s string) types.StringLiteral {
	if esc, err := types.Escape(s); err == nil && esc != nil {
		return types.StringLiteral(*esc)
	}
	return types.StringLiteral(s)
}
