package render

import (
	"fmt"
	"strings"
)

// HTML serializes the tree. All leaf text is escaped at emission, so
// every code path to the output runs through the same escape.
func (t *Tree) HTML() string {
	var b strings.Builder
	for _, child := range t.Root.Children {
		writeNode(&b, child)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindHeading:
		fmt.Fprintf(b, "<h%d>", n.Level)
		writeChildren(b, n)
		fmt.Fprintf(b, "</h%d>", n.Level)
	case KindParagraph:
		b.WriteString("<p>")
		writeChildren(b, n)
		b.WriteString("</p>")
	case KindList:
		b.WriteString("<ul>")
		writeChildren(b, n)
		b.WriteString("</ul>")
	case KindListItem:
		b.WriteString("<li>")
		writeChildren(b, n)
		b.WriteString("</li>")
	case KindBold:
		b.WriteString("<strong>")
		b.WriteString(escape(n.Text))
		b.WriteString("</strong>")
	case KindItalic:
		b.WriteString("<em>")
		b.WriteString(escape(n.Text))
		b.WriteString("</em>")
	case KindCode:
		b.WriteString("<code>")
		b.WriteString(escape(n.Text))
		b.WriteString("</code>")
	case KindBreak:
		b.WriteString("<br>")
	case KindText:
		b.WriteString(escape(n.Text))
	}
}

func writeChildren(b *strings.Builder, n *Node) {
	for _, child := range n.Children {
		writeNode(b, child)
	}
}
