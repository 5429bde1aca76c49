// Package intent classifies raw user queries into catalog intents.
// Classification is a deterministic ordered rule table: each rule is a
// keyword predicate tried top to bottom, and the first hit wins. There is
// no fuzzy or typo tolerance; that is an accepted limitation, not a bug.
package intent

import (
	"regexp"
	"strings"

	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
	"github.com/studybuddy-ai/study-buddy-go/internal/stringutil"
)

// Kind identifies the classified intent of a query.
type Kind string

const (
	// KindListSubjects asks for the full subject listing.
	KindListSubjects Kind = "list_subjects"
	// KindUnitQuery asks about a specific unit of a subject.
	KindUnitQuery Kind = "unit_query"
	// KindSyllabusQuery asks for a subject's syllabus or an explanation.
	KindSyllabusQuery Kind = "syllabus_query"
	// KindTopicSearch asks where a topic is covered.
	KindTopicSearch Kind = "topic_search"
	// KindFreeform is the default for anything else.
	KindFreeform Kind = "freeform"
)

// Intent is the result of classifying one raw query.
type Intent struct {
	Kind Kind

	// Subject is the resolved catalog subject, nil when unresolved.
	Subject *catalog.Subject

	// UnitNumber is the requested unit for KindUnitQuery, 0 when the
	// query named no unit number.
	UnitNumber int

	// Fragment is the search fragment for KindTopicSearch.
	Fragment string
}

// unitNumberRe extracts the first unit number, e.g. "unit 3" or "Unit3".
var unitNumberRe = regexp.MustCompile(`(?i)unit\s*(\d+)`)

// topicStopWords are stripped from topic search queries before the
// remainder becomes the search fragment.
var topicStopWords = map[string]struct{}{
	"topic": {}, "where": {}, "find": {}, "is": {}, "the": {}, "in": {}, "which": {},
}

// Resolver classifies queries against a catalog index.
type Resolver struct {
	idx *catalog.Index
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(idx *catalog.Index) *Resolver {
	return &Resolver{idx: idx}
}

// rule pairs a predicate with the constructor for its intent. Rules are
// evaluated in declaration order; keep the order auditable, it is the
// tie-break policy ("unit" beats the syllabus trigger phrases because
// its rule comes first).
type rule struct {
	name  string
	match func(q string) bool
	build func(r *Resolver, raw, q string) Intent
}

var rules = []rule{
	{
		name: "list_subjects",
		match: func(q string) bool {
			return strings.Contains(q, "list") &&
				(strings.Contains(q, "subject") || strings.Contains(q, "all"))
		},
		build: func(_ *Resolver, _, _ string) Intent {
			return Intent{Kind: KindListSubjects}
		},
	},
	{
		name: "unit_query",
		match: func(q string) bool {
			return strings.Contains(q, "unit")
		},
		build: func(r *Resolver, raw, _ string) Intent {
			return Intent{
				Kind:       KindUnitQuery,
				Subject:    r.idx.Resolve(raw),
				UnitNumber: extractUnitNumber(raw),
			}
		},
	},
	{
		name: "syllabus_query",
		match: func(q string) bool {
			return strings.Contains(q, "syllabus") ||
				strings.Contains(q, "what is") ||
				strings.Contains(q, "show me") ||
				strings.Contains(q, "tell me about")
		},
		build: func(r *Resolver, raw, _ string) Intent {
			return Intent{Kind: KindSyllabusQuery, Subject: r.idx.Resolve(raw)}
		},
	},
	{
		name: "topic_search",
		match: func(q string) bool {
			return strings.Contains(q, "topic") ||
				strings.Contains(q, "where") ||
				strings.Contains(q, "find")
		},
		build: func(_ *Resolver, raw, _ string) Intent {
			return Intent{Kind: KindTopicSearch, Fragment: StripStopWords(raw)}
		},
	},
	{
		name:  "freeform",
		match: func(string) bool { return true },
		build: func(r *Resolver, raw, _ string) Intent {
			return Intent{Kind: KindFreeform, Subject: r.idx.Resolve(raw)}
		},
	},
}

// Resolve classifies a raw query. It always returns an Intent; an empty
// query classifies as an unresolved freeform.
func (r *Resolver) Resolve(raw string) Intent {
	q := stringutil.Fold(raw)
	for _, rl := range rules {
		if rl.match(q) {
			return rl.build(r, raw, q)
		}
	}
	// Unreachable: the freeform rule always matches.
	return Intent{Kind: KindFreeform}
}

// StripStopWords removes topic search trigger and filler words from a
// query, returning the trimmed remainder used as the search fragment.
func StripStopWords(raw string) string {
	words := strings.Fields(stringutil.Fold(raw))
	kept := make([]string, 0, len(words))
	for _, w := range words {
		trimmed := strings.Trim(w, "?!.,;:")
		if trimmed == "" {
			continue
		}
		if _, stop := topicStopWords[trimmed]; stop {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " ")
}

// extractUnitNumber returns the first "unit N" number in the query, or 0.
func extractUnitNumber(raw string) int {
	m := unitNumberRe.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n := 0
	for _, c := range m[1] {
		n = n*10 + int(c-'0')
		if n > 1000 {
			// Unit numbers are small; anything huge is noise.
			return 0
		}
	}
	return n
}
