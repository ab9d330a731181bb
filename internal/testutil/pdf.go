// Package testutil builds minimal single-page PDF files for tests, with
// object offsets computed rather than hard-coded so the cross-reference
// table stays valid as fixtures change.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Line is one text-showing statement in the fixture's content stream.
type Line struct {
	Text     string
	FontSize float64
	X, Y     float64
}

// ContentStream renders the BT..ET blocks for the given lines.
func ContentStream(lines ...Line) string {
	var sb strings.Builder
	for _, ln := range lines {
		fmt.Fprintf(&sb, "BT\n/F1 %g Tf\n%g %g Td\n(%s) Tj\nET\n",
			ln.FontSize, ln.X, ln.Y, escapeString(ln.Text))
	}
	return sb.String()
}

// PDFBytes assembles a complete one-page PDF (US Letter, WinAnsi
// Helvetica) whose content stream shows the given lines.
func PDFBytes(lines ...Line) []byte {
	return PDFBytesWithContent(ContentStream(lines...))
}

// PDFBytesWithContent assembles a complete one-page PDF around an
// arbitrary content stream.
func PDFBytesWithContent(content string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)
	addObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	addObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	addObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	addObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	addObj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica "+
		"/FirstChar 32 /LastChar 126 /Widths ["+
		strings.TrimSpace(strings.Repeat("500 ", 95))+
		"] /Encoding /WinAnsiEncoding >>")
	addObj(5, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content))

	xrefOffset := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes()
}

// WritePDFFile writes a fixture PDF to path.
func WritePDFFile(path string, lines ...Line) error {
	return os.WriteFile(path, PDFBytes(lines...), 0o644)
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
