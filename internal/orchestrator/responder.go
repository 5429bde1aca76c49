package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studybuddy-ai/study-buddy-go/internal/backend"
	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
	"github.com/studybuddy-ai/study-buddy-go/internal/intent"
)

// Responder is the last tier: a deterministic answer built from the
// catalog alone. It has no failure mode; every query gets some answer,
// even over an empty catalog.
type Responder struct {
	idx      *catalog.Index
	resolver *intent.Resolver
}

// NewResponder builds the local responder over idx.
func NewResponder(idx *catalog.Index) *Responder {
	return &Responder{
		idx:      idx,
		resolver: intent.NewResolver(idx),
	}
}

// Classify exposes intent classification for callers that need the
// intent before deciding how to answer.
func (r *Responder) Classify(query string) intent.Intent {
	return r.resolver.Resolve(query)
}

// Respond builds the local answer for a classified query.
func (r *Responder) Respond(in intent.Intent, query string) (string, []backend.Source) {
	if r.idx.Len() == 0 {
		return "I don't have any subjects loaded right now, so I can't look that up. Please try again later.", nil
	}

	switch in.Kind {
	case intent.KindListSubjects:
		return r.listSubjects()
	case intent.KindUnitQuery:
		return r.unitAnswer(in)
	case intent.KindSyllabusQuery:
		if in.Subject != nil {
			return r.syllabusAnswer(in.Subject)
		}
		// "what is X" with no subject match reads as a topic lookup.
		if text, sources, ok := r.topicAnswer(intent.StripStopWords(query)); ok {
			return text, sources
		}
		return r.subjectsFallback("I couldn't match that to a subject I know.")
	case intent.KindTopicSearch:
		if text, sources, ok := r.topicAnswer(in.Fragment); ok {
			return text, sources
		}
		return r.subjectsFallback(fmt.Sprintf("I couldn't find any topic matching **%s** in the syllabus.", in.Fragment))
	default:
		if in.Subject != nil {
			return r.syllabusAnswer(in.Subject)
		}
		return r.subjectsFallback("I'm best at syllabus questions.")
	}
}

func (r *Responder) listSubjects() (string, []backend.Source) {
	var b strings.Builder
	b.WriteString("## Subjects\n\nHere is everything in the syllabus:\n")
	for _, s := range r.idx.Subjects() {
		fmt.Fprintf(&b, "- **%s** (%s): %d units, %d credits, %s\n",
			s.Name, s.Code, len(s.Units), s.Credits, s.Type)
	}
	b.WriteString("\nAsk me about any subject, unit, or topic!")
	return b.String(), nil
}

func (r *Responder) unitAnswer(in intent.Intent) (string, []backend.Source) {
	if in.Subject == nil {
		return r.subjectsFallback("I couldn't tell which subject that unit belongs to.")
	}
	s := in.Subject

	if in.UnitNumber == 0 {
		return r.syllabusAnswer(s)
	}

	unit := s.Unit(in.UnitNumber)
	if unit == nil {
		// Report what actually exists instead of a bare miss.
		return fmt.Sprintf("**%s** has %d units, so there is no Unit %d. Ask about units 1 to %d!",
			s.Name, len(s.Units), in.UnitNumber, len(s.Units)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s, Unit %d: %s\n\n", s.Name, unit.Number, unit.Title)
	if len(unit.Topics) > 0 {
		b.WriteString("Topics covered:\n")
		for _, topic := range unit.Topics {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
	} else {
		b.WriteString("No topics are listed for this unit.")
	}
	return b.String(), []backend.Source{{
		Subject: s.Name,
		Unit:    fmt.Sprintf("%d", unit.Number),
	}}
}

func (r *Responder) syllabusAnswer(s *catalog.Subject) (string, []backend.Source) {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", s.Name, s.Code)
	if s.FullName != "" && s.FullName != s.Name {
		fmt.Fprintf(&b, "*%s*\n\n", s.FullName)
	}
	fmt.Fprintf(&b, "%d credits, %s. Full syllabus:\n\n", s.Credits, s.Type)
	for _, unit := range s.Units {
		fmt.Fprintf(&b, "### Unit %d: %s\n", unit.Number, unit.Title)
		for _, topic := range unit.Topics {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), []backend.Source{{Subject: s.Name}}
}

// topicAnswer searches the catalog for fragment. The third return is
// false when the fragment is empty or nothing matches.
func (r *Responder) topicAnswer(fragment string) (string, []backend.Source, bool) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", nil, false
	}
	matches := r.idx.SearchTopics(fragment)
	if len(matches) == 0 {
		// Retry word by word, longest first, so filler around the
		// topic term ("backpropagation covered") still finds it.
		fragment, matches = searchByWord(r.idx, fragment)
	}
	if len(matches) == 0 {
		return "", nil, false
	}

	var b strings.Builder
	var sources []backend.Source
	fmt.Fprintf(&b, "I found **%s** in the syllabus:\n", fragment)
	seen := map[string]bool{}
	for _, m := range matches {
		key := fmt.Sprintf("%s/%d", m.SubjectCode, m.UnitNumber)
		if seen[key] {
			continue
		}
		seen[key] = true
		fmt.Fprintf(&b, "- **%s**, Unit %d (%s): %s\n", m.SubjectName, m.UnitNumber, m.UnitTitle, m.Topic)
		sources = append(sources, backend.Source{
			Subject: m.SubjectName,
			Unit:    fmt.Sprintf("%d", m.UnitNumber),
		})
	}

	// Mention what the first matching unit also covers, for context.
	first := matches[0]
	if s := r.idx.Resolve(first.SubjectName); s != nil {
		if unit := s.Unit(first.UnitNumber); unit != nil && len(unit.Topics) > 1 {
			fmt.Fprintf(&b, "\nUnit %d of %s also covers: %s",
				unit.Number, s.Name, strings.Join(siblingTopics(unit, first.Topic), ", "))
		}
	}
	return b.String(), sources, true
}

func (r *Responder) subjectsFallback(lead string) (string, []backend.Source) {
	var b strings.Builder
	b.WriteString(lead)
	b.WriteString(" These are the subjects I can help with:\n")
	for _, s := range r.idx.Subjects() {
		fmt.Fprintf(&b, "- **%s** (%s)\n", s.Name, s.Code)
	}
	return b.String(), nil
}

// searchByWord tries each word of fragment as its own search, longest
// word first. Words shorter than four characters are skipped; they are
// almost always filler.
func searchByWord(idx *catalog.Index, fragment string) (string, []catalog.TopicMatch) {
	words := strings.Fields(fragment)
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})
	for _, w := range words {
		if len(w) < 4 {
			continue
		}
		if matches := idx.SearchTopics(w); len(matches) > 0 {
			return w, matches
		}
	}
	return fragment, nil
}

func siblingTopics(unit *catalog.Unit, except string) []string {
	out := make([]string, 0, len(unit.Topics)-1)
	for _, t := range unit.Topics {
		if t != except {
			out = append(out, t)
		}
	}
	return out
}
