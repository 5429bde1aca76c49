// Package catalog provides the read-only in-memory view over the subject,
// unit, and topic data that local query resolution runs against.
// Subjects are loaded once from JSON and never mutated afterwards.
package catalog

// SubjectType classifies how a subject is delivered.
type SubjectType string

// Known subject types. The catalog accepts unknown values as-is so new
// delivery formats do not break loading.
const (
	TypeTheory SubjectType = "theory"
	TypeLab    SubjectType = "lab"
)

// Subject is one catalog entry for an academic course.
// Units are ordered; unit numbers are unique within a subject and
// conventionally 1..N but need not be contiguous.
type Subject struct {
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	FullName string      `json:"fullName"`
	Credits  int         `json:"credits"`
	Type     SubjectType `json:"type"`
	Units    []Unit      `json:"units"`
}

// Unit is a numbered subdivision of a subject's syllabus.
// Topic order is presentation order and is preserved.
type Unit struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

// TopicMatch is a transient topic search hit. Matches are produced in
// catalog order and grouped by (SubjectCode, UnitNumber) before rendering.
type TopicMatch struct {
	SubjectCode string
	SubjectName string
	UnitNumber  int
	UnitTitle   string
	Topic       string
}

// Unit returns the unit with the given number, or nil if absent.
func (s *Subject) Unit(number int) *Unit {
	for i := range s.Units {
		if s.Units[i].Number == number {
			return &s.Units[i]
		}
	}
	return nil
}
