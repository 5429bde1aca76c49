// Package render converts model-produced lightweight markup into safe
// HTML. Input text is HTML-escaped before any structural substitution,
// so markup in the source can never smuggle raw tags into the output.
package render

import (
	"html"
	"strings"
)

// NodeKind discriminates the parse-tree node types.
type NodeKind int

// Parse-tree node kinds.
const (
	KindDocument NodeKind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindText
	KindBold
	KindItalic
	KindCode
	KindBreak
)

// Node is one element of the parsed markup tree. Leaf text lives in
// Text; container kinds carry Children. Level is only meaningful for
// headings (1..3).
type Node struct {
	Kind     NodeKind
	Text     string
	Level    int
	Children []*Node
}

// Tree is a parsed document.
type Tree struct {
	Root *Node
}

// Render parses the markup subset and serializes it to HTML in one
// step. It never fails: unrecognized or unbalanced markup degrades to
// literal text.
func Render(input string) string {
	return Parse(input).HTML()
}

// Parse builds the document tree for input. Supported structure, one
// construct per line: "#"/"##"/"###" headings, "-" or "•" list items,
// and paragraph text with inline **bold**, *italic* and `code` spans.
// Blank lines separate paragraphs; a single newline inside a paragraph
// becomes a line break.
func Parse(input string) *Tree {
	root := &Node{Kind: KindDocument}
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")

	var paragraph *Node
	var list *Node
	flushParagraph := func() {
		if paragraph != nil {
			root.Children = append(root.Children, paragraph)
			paragraph = nil
		}
	}
	flushList := func() {
		if list != nil {
			root.Children = append(root.Children, list)
			list = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushParagraph()
			flushList()
			continue
		}

		if level, text, ok := headingLine(trimmed); ok {
			flushParagraph()
			flushList()
			root.Children = append(root.Children, &Node{
				Kind:     KindHeading,
				Level:    level,
				Children: parseInline(text),
			})
			continue
		}

		if item, ok := listLine(trimmed); ok {
			flushParagraph()
			if list == nil {
				list = &Node{Kind: KindList}
			}
			list.Children = append(list.Children, &Node{
				Kind:     KindListItem,
				Children: parseInline(item),
			})
			continue
		}

		flushList()
		if paragraph == nil {
			paragraph = &Node{Kind: KindParagraph}
		} else {
			paragraph.Children = append(paragraph.Children, &Node{Kind: KindBreak})
		}
		paragraph.Children = append(paragraph.Children, parseInline(trimmed)...)
	}
	flushParagraph()
	flushList()

	return &Tree{Root: root}
}

// headingLine reports whether trimmed is a heading and returns its
// level and text. Four or more leading hashes are not a heading.
func headingLine(trimmed string) (int, string, bool) {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 3 || level == len(trimmed) || trimmed[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(trimmed[level:]), true
}

// listLine reports whether trimmed is a list item and returns its text.
func listLine(trimmed string) (string, bool) {
	for _, marker := range []string{"- ", "• "} {
		if rest, ok := strings.CutPrefix(trimmed, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// parseInline splits text into text/bold/italic/code leaf runs. Spans
// never cross line boundaries; a delimiter with no closing partner is
// kept as literal text.
func parseInline(text string) []*Node {
	var nodes []*Node
	var plain strings.Builder
	flushPlain := func() {
		if plain.Len() > 0 {
			nodes = append(nodes, &Node{Kind: KindText, Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(text); {
		kind, open := spanAt(text, i)
		if kind == KindText {
			plain.WriteByte(text[i])
			i++
			continue
		}

		// Non-greedy: first closing delimiter after at least one
		// content byte ends the span.
		start := i + len(open)
		end := -1
		for j := start + 1; j+len(open) <= len(text); j++ {
			if text[j:j+len(open)] == open {
				end = j
				break
			}
		}
		if end < 0 {
			plain.WriteString(open)
			i = start
			continue
		}

		flushPlain()
		nodes = append(nodes, &Node{Kind: kind, Text: text[start:end]})
		i = end + len(open)
	}
	flushPlain()

	return nodes
}

// spanAt reports the inline span opening at offset i, if any. Bold
// wins over italic on "**".
func spanAt(text string, i int) (NodeKind, string) {
	switch {
	case strings.HasPrefix(text[i:], "**"):
		return KindBold, "**"
	case text[i] == '*':
		return KindItalic, "*"
	case text[i] == '`':
		return KindCode, "`"
	}
	return KindText, ""
}

// escape is the single escaping point for all user- and model-supplied
// text reaching the HTML serializer.
func escape(s string) string {
	return html.EscapeString(s)
}
