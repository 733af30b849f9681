// Package mdterm renders markdown text to ANSI-styled terminal output
// using goldmark for parsing and fatih/color for styling.
//
// Diagnostic messages coming out of the render pipeline are markdown; this
// package is the terminal presentation for them. Styling degrades to plain
// text automatically when the output is not a TTY (color.NoColor).
package mdterm

import (
	"strings"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	boldStyle   = color.New(color.Bold)
	italicStyle = color.New(color.Italic)
	codeStyle   = color.New(color.FgCyan)
	linkStyle   = color.New(color.Underline)
)

// Render converts markdown source to a terminal-ready string. Block
// structure is flattened to newline-separated text; inline emphasis, code
// spans, and links map to ANSI styles.
func Render(source string) string {
	if source == "" {
		return ""
	}
	src := []byte(source)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	renderChildren(&b, doc, src)
	return strings.TrimRight(b.String(), "\n")
}

func renderChildren(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		renderNode(b, c, src)
	}
}

func renderNode(b *strings.Builder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		b.Write(node.Segment.Value(src))
		if node.HardLineBreak() {
			b.WriteByte('\n')
		} else if node.SoftLineBreak() {
			b.WriteByte(' ')
		}

	case *ast.CodeSpan:
		b.WriteString(codeStyle.Sprint(nodeText(node, src)))

	case *ast.Emphasis:
		style := italicStyle
		if node.Level >= 2 {
			style = boldStyle
		}
		var inner strings.Builder
		renderChildren(&inner, node, src)
		b.WriteString(style.Sprint(inner.String()))

	case *ast.Link:
		var inner strings.Builder
		renderChildren(&inner, node, src)
		b.WriteString(inner.String())
		b.WriteString(" (")
		b.WriteString(linkStyle.Sprint(string(node.Destination)))
		b.WriteByte(')')

	case *ast.AutoLink:
		b.WriteString(linkStyle.Sprint(string(node.URL(src))))

	case *ast.Heading:
		var inner strings.Builder
		renderChildren(&inner, node, src)
		b.WriteString(boldStyle.Sprint(inner.String()))
		b.WriteByte('\n')

	case *ast.Paragraph, *ast.TextBlock:
		renderChildren(b, n, src)
		b.WriteByte('\n')

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		writeCodeLines(b, n, src)

	case *ast.List:
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			var inner strings.Builder
			renderChildren(&inner, item, src)
			b.WriteString("  - ")
			b.WriteString(strings.TrimRight(inner.String(), "\n"))
			b.WriteByte('\n')
		}

	default:
		renderChildren(b, n, src)
	}
}

// nodeText concatenates the raw text segments under a node.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
	}
	return b.String()
}

// writeCodeLines emits a code block's lines indented and styled.
func writeCodeLines(b *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.WriteString("    ")
		b.WriteString(codeStyle.Sprint(strings.TrimRight(string(line.Value(src)), "\n")))
		b.WriteByte('\n')
	}
}
