package template

import "strings"

// Span is one delimiter-wrapped occurrence found in template text.
type Span struct {
	// Name is the interior between the delimiters.
	Name string

	// Text is the full span including both delimiters.
	Text string
}

// spanNameByte reports whether c may appear inside a span name. The charset
// is wider than any naming grammar on purpose: case-mismatched and
// hyphenated spans must stay visible to validation even when the active
// grammar rejects them.
func spanNameByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
	case c >= 'a' && c <= 'z':
	case c >= '0' && c <= '9':
	case c == '_' || c == '-':
	default:
		return false
	}
	return true
}

// Scan returns the distinct delimiter-wrapped spans in text, in order of
// first occurrence. A span is the delimiter, one or more name bytes, and the
// delimiter again; anything else between two delimiters is plain text.
func Scan(text string, delim byte) []Span {
	var spans []Span
	seen := make(map[string]struct{})

	i := 0
	for i < len(text) {
		if text[i] != delim {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && spanNameByte(text[j]) {
			j++
		}
		if j == i+1 || j >= len(text) || text[j] != delim {
			// Empty interior or no closing delimiter here. The byte at j may
			// itself open a new span, so resume scanning from it.
			i = j
			continue
		}
		full := text[i : j+1]
		if _, dup := seen[full]; !dup {
			seen[full] = struct{}{}
			spans = append(spans, Span{Name: text[i+1 : j], Text: full})
		}
		i = j + 1
	}
	return spans
}

// ReplaceSpans rewrites text in a single left-to-right pass, calling resolve
// for each span and splicing in the returned value when ok is true. The
// substituted value is emitted verbatim and never re-scanned, so a value
// containing another span's literal text stays inert. Returns the rewritten
// text and the number of substitutions made.
func ReplaceSpans(text string, delim byte, resolve func(name string) (value string, ok bool)) (string, int) {
	var b strings.Builder
	b.Grow(len(text))
	replaced := 0

	i := 0
	for i < len(text) {
		if text[i] != delim {
			b.WriteByte(text[i])
			i++
			continue
		}
		j := i + 1
		for j < len(text) && spanNameByte(text[j]) {
			j++
		}
		if j == i+1 || j >= len(text) || text[j] != delim {
			b.WriteString(text[i:j])
			i = j
			continue
		}
		if value, ok := resolve(text[i+1 : j]); ok {
			b.WriteString(value)
			replaced++
		} else {
			b.WriteString(text[i : j+1])
		}
		i = j + 1
	}
	return b.String(), replaced
}
