package catalog

import (
	"strings"

	"github.com/studybuddy-ai/study-buddy-go/internal/stringutil"
)

// Index is the immutable lookup structure over loaded subjects.
// All lookups preserve catalog order; there is no ranking.
type Index struct {
	subjects []Subject
}

// NewIndex creates an index over the given subjects. The slice is owned
// by the index after this call and must not be mutated by the caller.
func NewIndex(subjects []Subject) *Index {
	return &Index{subjects: subjects}
}

// Subjects returns all subjects in catalog order.
func (idx *Index) Subjects() []Subject {
	return idx.subjects
}

// Len returns the number of subjects in the catalog.
func (idx *Index) Len() int {
	return len(idx.subjects)
}

// FindByName resolves a query by case-insensitive containment against
// subject name, code, and full name, tried in that priority order.
// The first catalog-order match wins. Returns nil when nothing matches.
func (idx *Index) FindByName(query string) *Subject {
	q := stringutil.Fold(query)
	if q == "" {
		return nil
	}

	for i := range idx.subjects {
		if containsEither(q, stringutil.Fold(idx.subjects[i].Name)) {
			return &idx.subjects[i]
		}
	}
	for i := range idx.subjects {
		if containsEither(q, stringutil.Fold(idx.subjects[i].Code)) {
			return &idx.subjects[i]
		}
	}
	for i := range idx.subjects {
		if containsEither(q, stringutil.Fold(idx.subjects[i].FullName)) {
			return &idx.subjects[i]
		}
	}
	return nil
}

// containsEither matches a folded field against a folded query in both
// directions: the field appearing inside a full-sentence query, or the
// query being a partial prefix/infix of the field.
func containsEither(q, field string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(q, field) || strings.Contains(field, q)
}

// FindByAlias resolves a query through the static alias table, iterating
// aliases in declared order and returning on the first keyword hit.
// Keywords of up to three letters only match on word boundaries so that
// e.g. "explain" does not resolve to the "ai" alias.
func (idx *Index) FindByAlias(query string) *Subject {
	q := stringutil.Fold(query)
	if q == "" {
		return nil
	}

	for _, a := range subjectAliases {
		if len(a.Keyword) <= 3 {
			if !containsWord(q, a.Keyword) {
				continue
			}
		} else if !strings.Contains(q, a.Keyword) {
			continue
		}
		if s := idx.findExactName(a.Subject); s != nil {
			return s
		}
	}
	return nil
}

// Resolve applies the shared subject resolution order: exact/partial name
// match first, alias match second. No fuzzy or typo tolerance.
func (idx *Index) Resolve(query string) *Subject {
	if s := idx.FindByName(query); s != nil {
		return s
	}
	return idx.FindByAlias(query)
}

// Unit returns the given unit of the named subject, or nil if either the
// subject or the unit is absent.
func (idx *Index) Unit(subjectName string, number int) *Unit {
	s := idx.findExactName(subjectName)
	if s == nil {
		return nil
	}
	return s.Unit(number)
}

// SearchTopics returns every topic containing fragment, case-insensitive,
// in catalog order. An empty or whitespace-only fragment yields no
// matches; it must never match everything.
func (idx *Index) SearchTopics(fragment string) []TopicMatch {
	f := stringutil.Fold(fragment)
	if f == "" {
		return nil
	}

	var matches []TopicMatch
	for i := range idx.subjects {
		s := &idx.subjects[i]
		for j := range s.Units {
			u := &s.Units[j]
			for _, topic := range u.Topics {
				if stringutil.ContainsFold(topic, f) {
					matches = append(matches, TopicMatch{
						SubjectCode: s.Code,
						SubjectName: s.Name,
						UnitNumber:  u.Number,
						UnitTitle:   u.Title,
						Topic:       topic,
					})
				}
			}
		}
	}
	return matches
}

// Stats summarizes catalog size for readiness reporting.
func (idx *Index) Stats() (subjects, units, topics int) {
	subjects = len(idx.subjects)
	for i := range idx.subjects {
		units += len(idx.subjects[i].Units)
		for j := range idx.subjects[i].Units {
			topics += len(idx.subjects[i].Units[j].Topics)
		}
	}
	return subjects, units, topics
}

// findExactName returns the subject whose name equals name under folding.
func (idx *Index) findExactName(name string) *Subject {
	n := stringutil.Fold(name)
	for i := range idx.subjects {
		if stringutil.Fold(idx.subjects[i].Name) == n {
			return &idx.subjects[i]
		}
	}
	return nil
}

// containsWord reports whether q contains word delimited by non-letters.
func containsWord(q, word string) bool {
	idx := 0
	for {
		pos := strings.Index(q[idx:], word)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos == 0 || !isLetter(q[pos-1])
		afterPos := pos + len(word)
		after := afterPos >= len(q) || !isLetter(q[afterPos])
		if before && after {
			return true
		}
		idx = pos + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
