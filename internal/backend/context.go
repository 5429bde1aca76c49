package backend

import (
	"fmt"
	"strings"

	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
)

// DefaultMaxContextChars bounds the inlined syllabus context so the
// completion prompt stays inside model input limits.
const DefaultMaxContextChars = 24000

// ContextBuilder flattens the catalog into the plain-text syllabus
// context the completion tiers take inline. The rendering is
// deterministic, so it is built once and reused across requests.
type ContextBuilder struct {
	idx      *catalog.Index
	maxChars int

	rendered string
}

// NewContextBuilder prepares the flattened context for idx, truncated
// to maxChars at a subject boundary. Non-positive maxChars uses
// DefaultMaxContextChars.
func NewContextBuilder(idx *catalog.Index, maxChars int) *ContextBuilder {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}
	b := &ContextBuilder{idx: idx, maxChars: maxChars}
	b.rendered = b.render()
	return b
}

// Build returns the flattened syllabus context. Empty when the
// catalog has no subjects.
func (b *ContextBuilder) Build() string {
	return b.rendered
}

func (b *ContextBuilder) render() string {
	var out strings.Builder
	for _, subject := range b.idx.Subjects() {
		block := renderSubject(subject)
		// Truncate at a subject boundary rather than mid-entry.
		if out.Len()+len(block) > b.maxChars {
			break
		}
		out.WriteString(block)
	}
	return strings.TrimRight(out.String(), "\n")
}

func renderSubject(s catalog.Subject) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\nSubject: %s (%s)\n", s.Name, s.Code)
	if s.FullName != "" && s.FullName != s.Name {
		fmt.Fprintf(&b, "Full name: %s\n", s.FullName)
	}
	fmt.Fprintf(&b, "Credits: %d, Type: %s\n", s.Credits, s.Type)
	for _, unit := range s.Units {
		fmt.Fprintf(&b, "Unit %d: %s\n", unit.Number, unit.Title)
		if len(unit.Topics) > 0 {
			fmt.Fprintf(&b, "  Topics: %s\n", strings.Join(unit.Topics, ", "))
		}
	}
	return b.String()
}
