package prerender

import "strings"

// SVG element delimiters. Matching is exact-case: the repaired defect comes
// from SVG-embedding libraries that emit lowercase markup.
const (
	svgOpenPrefix = "<svg"
	svgCloseTag   = "</svg>"
)

// SanitizeSVG repairs inline SVG fragments that contain the unclosed void
// form of the line-break element. Some SVG-embedding libraries emit "<br>"
// inside foreignObject content, which strict parsing of the final document
// rejects; inside each <svg>...</svg> span the tag is rewritten to its
// self-closed form "<br />".
//
// The scan is a single left-to-right pass with two states (outside an SVG
// span, inside one). Text outside any span is copied byte-for-byte. A span
// whose closing tag is missing is treated as not actually an SVG block and
// copied verbatim. The transform is idempotent.
func SanitizeSVG(html string) string {
	var out strings.Builder
	out.Grow(len(html))

	rest := html
	for rest != "" {
		open := indexSVGOpen(rest)
		if open == -1 {
			out.WriteString(rest)
			break
		}

		out.WriteString(rest[:open])
		rest = rest[open:]

		end := strings.Index(rest, svgCloseTag)
		if end == -1 {
			// Malformed: no closing tag. Copy verbatim, no rewrite.
			out.WriteString(rest)
			break
		}

		span := rest[:end+len(svgCloseTag)]
		out.WriteString(strings.ReplaceAll(span, "<br>", "<br />"))
		rest = rest[end+len(svgCloseTag):]
	}

	return out.String()
}

// indexSVGOpen returns the index of the next "<svg>" or "<svg ...>" opening
// tag in s, or -1. A bare "<svg" prefix followed by another name character
// (e.g. "<svgfoo>") is not an SVG tag.
func indexSVGOpen(s string) int {
	from := 0
	for {
		i := strings.Index(s[from:], svgOpenPrefix)
		if i == -1 {
			return -1
		}
		at := from + i
		next := at + len(svgOpenPrefix)
		if next >= len(s) {
			return -1
		}
		switch s[next] {
		case '>', ' ', '\t', '\n', '\r', '/':
			return at
		}
		from = next
	}
}
