// Package autotag orchestrates the tagging pipeline: layout analysis,
// content-stream matching and rewriting, and structure-tree building.
package autotag

import (
	"context"
	"fmt"
	"log"

	"github.com/a3tai/pdf-autotag/internal/contentstream"
	"github.com/a3tai/pdf-autotag/internal/document"
	"github.com/a3tai/pdf-autotag/internal/layout"
	"github.com/a3tai/pdf-autotag/internal/model"
	"github.com/a3tai/pdf-autotag/internal/structtree"
	"github.com/a3tai/pdf-autotag/internal/tables"
)

// Service runs the autotagging pipeline for single documents.
type Service struct {
	reader *layout.Reader
}

// NewService creates a service enforcing the given input size limit.
func NewService(maxFileSize int64) *Service {
	return &Service{reader: layout.NewReader(maxFileSize)}
}

// Summary reports what a run produced.
type Summary struct {
	Pages       int
	Items       int
	MatchedRuns int
	TaggedPages int
}

// Run tags inputPath into outputPath and writes the structure-item sidecar
// to sidecarPath. Per-page and per-item failures are logged and skipped;
// only opening, saving and sidecar writing are fatal.
func (s *Service) Run(ctx context.Context, inputPath, outputPath, sidecarPath string) (*Summary, error) {
	pages, err := s.reader.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	pageItems, allItems := s.analyzeLayout(pages)
	summary := &Summary{Pages: len(pages), Items: len(allItems)}

	doc, err := document.Open(inputPath)
	if err != nil {
		return nil, err
	}
	builder, err := structtree.NewBuilder(doc)
	if err != nil {
		return nil, err
	}

	for i, page := range pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items := pageItems[i]
		if len(items) == 0 {
			continue
		}
		matched, err := s.tagPage(doc, builder, page.Number, items)
		if err != nil {
			log.Printf("Warning: skipping page %d: %v", page.Number, err)
			continue
		}
		summary.MatchedRuns += matched
		summary.TaggedPages++
		log.Printf("Added %d marked content blocks to page %d", matched, page.Number)
	}

	if err := doc.Save(outputPath); err != nil {
		return nil, err
	}
	if err := WriteSidecar(sidecarPath, allItems); err != nil {
		return nil, fmt.Errorf("failed to write sidecar: %w", err)
	}

	return summary, nil
}

// analyzeLayout turns every page into its ordered structure-item sequence.
func (s *Service) analyzeLayout(pages []layout.Page) ([][]model.StructureItem, []model.StructureItem) {
	perPage := make([][]model.StructureItem, len(pages))
	var all []model.StructureItem

	for i, page := range pages {
		tableItems := tables.ExtractItems(page)
		blocks := layout.GroupBlocks(page)
		items := layout.BuildPageItems(page, blocks, tableItems)
		perPage[i] = items
		all = append(all, items...)
	}
	return perPage, all
}

// tagPage rewrites one page's content stream and builds its structure
// elements, both fed by the same identifier allocator.
func (s *Service) tagPage(doc *document.Document, builder *structtree.Builder, pageNr int, items []model.StructureItem) (int, error) {
	content, err := doc.PageContent(pageNr)
	if err != nil {
		return 0, err
	}
	if len(content) == 0 {
		return 0, fmt.Errorf("page has no content stream")
	}

	alloc := structtree.NewAllocator(items)

	runs := contentstream.ScanTextRuns(content)
	assignments := contentstream.MatchRuns(runs, items)
	rewritten := contentstream.Rewrite(content, assignments, items, alloc)

	if err := doc.ReplacePageContent(pageNr, rewritten); err != nil {
		return 0, err
	}
	if err := builder.BuildPage(pageNr, items, alloc); err != nil {
		return 0, err
	}

	matched := 0
	for _, a := range assignments {
		if a.ItemIndex >= 0 {
			matched++
		}
	}
	return matched, nil
}
