// Package layout reads positioned text from PDF pages and classifies it
// into structure items ordered top to bottom.
package layout

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Default page dimensions used when a page carries no resolvable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Word is one positioned text fragment in PDF coordinates (bottom-left
// origin, y grows upward). X is the left edge, Y the baseline and W the
// horizontal advance.
type Word struct {
	X        float64
	Y        float64
	W        float64
	FontSize float64
	Font     string
	Text     string
}

// Bold reports whether the fragment's font name indicates a bold face.
func (w Word) Bold() bool {
	return strings.Contains(w.Font, "Bold")
}

// Page is the raw layout content of one page.
type Page struct {
	Number int // 1-based
	Width  float64
	Height float64
	Words  []Word
}

// Reader extracts per-page positioned text from a PDF file.
type Reader struct {
	maxFileSize int64
}

// NewReader creates a reader enforcing the given input size limit.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{maxFileSize: maxFileSize}
}

// ReadFile opens a PDF and returns the layout content of every page.
// Pages whose content cannot be decoded are returned with no words so the
// page keeps its slot in the sequence.
func (r *Reader) ReadFile(path string) ([]Page, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := r.validatePDFFile(path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]Page, 0, pdfReader.NumPage())
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		p := pdfReader.Page(pageNum)

		page := Page{
			Number: pageNum,
			Width:  defaultPageWidth,
			Height: defaultPageHeight,
		}
		if p.V.IsNull() {
			pages = append(pages, page)
			continue
		}

		if w, h, ok := pageSize(p); ok {
			page.Width, page.Height = w, h
		}

		words, err := pageWords(p)
		if err != nil {
			// Keep the page with no words; downstream stages skip it.
			pages = append(pages, page)
			continue
		}
		page.Words = words
		pages = append(pages, page)
	}

	return pages, nil
}

// validatePDFFile performs basic validation on the input file.
func (r *Reader) validatePDFFile(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if r.maxFileSize > 0 && fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}
	return nil
}

// pageSize resolves the page MediaBox, walking up the page tree for
// inherited values.
func pageSize(p pdf.Page) (width, height float64, ok bool) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.IsNull() || mb.Len() != 4 {
			continue
		}
		width = mb.Index(2).Float64() - mb.Index(0).Float64()
		height = mb.Index(3).Float64() - mb.Index(1).Float64()
		if width > 0 && height > 0 {
			return width, height, true
		}
	}
	return 0, 0, false
}

// pageWords collects the positioned text fragments of a page. The pdf
// library panics on some malformed content streams, so decoding failures
// are converted into an error here.
func pageWords(p pdf.Page) (words []Word, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content extraction failed: %v", r)
		}
	}()

	content := p.Content()
	words = make([]Word, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		words = append(words, Word{
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
			Font:     t.Font,
			Text:     t.S,
		})
	}
	return words, nil
}
