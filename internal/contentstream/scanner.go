// Package contentstream locates text-showing operator ranges in raw page
// content streams, matches them to structure items by text similarity and
// rewrites the stream with marked-content wrappers around matched ranges.
package contentstream

import (
	"strings"
)

// TextRun is one BT..ET operator range in a content stream, byte offsets
// into the original stream, with the visible text its text-showing
// operators paint. Runs exist only for the duration of a page's
// match/rewrite pass.
type TextRun struct {
	Start int // offset of the BT token
	End   int // offset just past the ET token
	Text  string
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOperator
	tokString // literal string, decoded
	tokHexString
	tokName
	tokNumber
	tokArrayOpen
	tokArrayClose
	tokDictOpen
	tokDictClose
)

type token struct {
	kind  tokenKind
	start int
	end   int
	text  string // decoded value for tokString, raw for tokOperator
}

// ScanTextRuns walks the content stream and returns every BT..ET range in
// document order together with its extracted text. The scan is a forward
// pass tolerant of malformed input: anything it cannot make sense of is
// skipped, never an error, so a stream with no recognizable text yields
// no runs and the rewrite degrades to the identity.
func ScanTextRuns(content []byte) []TextRun {
	s := &scanner{data: content}

	var runs []TextRun
	btStart := -1
	var parts []string
	var lastString string
	var haveString bool
	var arrayStrings []string
	inArray := false

	clearOperands := func() {
		lastString = ""
		haveString = false
		arrayStrings = nil
	}

	for {
		tok := s.next()
		if tok.kind == tokEOF {
			break
		}

		switch tok.kind {
		case tokArrayOpen:
			inArray = true
			arrayStrings = nil
		case tokArrayClose:
			inArray = false
		case tokString:
			if inArray {
				arrayStrings = append(arrayStrings, tok.text)
			} else {
				lastString = tok.text
				haveString = true
			}
		case tokOperator:
			switch tok.text {
			case "BT":
				if btStart < 0 {
					btStart = tok.start
					parts = nil
				}
				clearOperands()
			case "ET":
				if btStart >= 0 {
					runs = append(runs, TextRun{
						Start: btStart,
						End:   tok.end,
						Text:  strings.TrimSpace(strings.Join(parts, " ")),
					})
					btStart = -1
				}
				clearOperands()
			case "Tj", "'", "\"":
				if btStart >= 0 && haveString {
					parts = append(parts, lastString)
				}
				clearOperands()
			case "TJ":
				if btStart >= 0 {
					parts = append(parts, arrayStrings...)
				}
				clearOperands()
			case "ID":
				// Inline image data is raw binary; skip to the closing EI
				// so stray bytes cannot be mistaken for operators.
				s.skipInlineImage()
				clearOperands()
			default:
				clearOperands()
			}
		}
	}

	return runs
}

type scanner struct {
	data []byte
	pos  int
}

func isWhitespace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) next() token {
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		switch {
		case isWhitespace(b):
			s.pos++
		case b == '%':
			s.skipComment()
		default:
			return s.scanToken()
		}
	}
	return token{kind: tokEOF, start: s.pos, end: s.pos}
}

func (s *scanner) skipComment() {
	for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
		s.pos++
	}
}

func (s *scanner) scanToken() token {
	start := s.pos
	b := s.data[s.pos]

	switch b {
	case '(':
		return s.scanLiteralString()
	case '<':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
			s.pos += 2
			return token{kind: tokDictOpen, start: start, end: s.pos}
		}
		return s.scanHexString()
	case '>':
		if s.pos+1 < len(s.data) && s.data[s.pos+1] == '>' {
			s.pos += 2
			return token{kind: tokDictClose, start: start, end: s.pos}
		}
		// Stray '>' without a partner; swallow it.
		s.pos++
		return token{kind: tokDictClose, start: start, end: s.pos}
	case '[':
		s.pos++
		return token{kind: tokArrayOpen, start: start, end: s.pos}
	case ']':
		s.pos++
		return token{kind: tokArrayClose, start: start, end: s.pos}
	case '{', '}', ')':
		s.pos++
		return token{kind: tokOperator, start: start, end: s.pos, text: string(b)}
	case '/':
		return s.scanName()
	}

	if b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9') {
		return s.scanNumber()
	}
	return s.scanOperator()
}

// scanLiteralString consumes a ( ... ) string, honoring nested parentheses
// and backslash escapes, and decodes the escapes into the token text.
func (s *scanner) scanLiteralString() token {
	start := s.pos
	s.pos++ // opening paren
	depth := 1

	var sb strings.Builder
	for s.pos < len(s.data) {
		b := s.data[s.pos]
		switch b {
		case '\\':
			s.pos++
			if s.pos >= len(s.data) {
				break
			}
			sb.WriteString(s.decodeEscape())
			continue
		case '(':
			depth++
			sb.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				s.pos++
				return token{kind: tokString, start: start, end: s.pos, text: sb.String()}
			}
			sb.WriteByte(b)
		default:
			// Bytes are treated one-per-character so matching stays
			// byte-exact for Latin-1 encoded operands.
			sb.WriteRune(rune(b))
		}
		s.pos++
	}
	return token{kind: tokString, start: start, end: s.pos, text: sb.String()}
}

// decodeEscape decodes one backslash escape with s.pos on the byte after
// the backslash, leaving s.pos past the escape.
func (s *scanner) decodeEscape() string {
	b := s.data[s.pos]
	switch b {
	case 'n':
		s.pos++
		return "\n"
	case 'r':
		s.pos++
		return "\r"
	case 't':
		s.pos++
		return "\t"
	case 'b':
		s.pos++
		return "\b"
	case 'f':
		s.pos++
		return "\f"
	case '\r':
		// Line continuation: backslash before EOL is dropped.
		s.pos++
		if s.pos < len(s.data) && s.data[s.pos] == '\n' {
			s.pos++
		}
		return ""
	case '\n':
		s.pos++
		return ""
	}

	if b >= '0' && b <= '7' {
		val := 0
		for i := 0; i < 3 && s.pos < len(s.data); i++ {
			d := s.data[s.pos]
			if d < '0' || d > '7' {
				break
			}
			val = val*8 + int(d-'0')
			s.pos++
		}
		return string(rune(val & 0xff))
	}

	// Unknown escape: the byte stands for itself (covers \( \) \\).
	s.pos++
	return string(rune(b))
}

func (s *scanner) scanHexString() token {
	start := s.pos
	s.pos++ // '<'
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		s.pos++
	}
	if s.pos < len(s.data) {
		s.pos++ // '>'
	}
	return token{kind: tokHexString, start: start, end: s.pos}
}

func (s *scanner) scanName() token {
	start := s.pos
	s.pos++ // '/'
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return token{kind: tokName, start: start, end: s.pos}
}

func (s *scanner) scanNumber() token {
	start := s.pos
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return token{kind: tokNumber, start: start, end: s.pos}
}

func (s *scanner) scanOperator() token {
	start := s.pos
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return token{kind: tokOperator, start: start, end: s.pos, text: string(s.data[start:s.pos])}
}

// skipInlineImage advances past inline image data to the byte after a
// whitespace-delimited EI operator.
func (s *scanner) skipInlineImage() {
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			(s.pos == 0 || isWhitespace(s.data[s.pos-1])) &&
			(s.pos+2 >= len(s.data) || isWhitespace(s.data[s.pos+2]) || isDelimiter(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}
