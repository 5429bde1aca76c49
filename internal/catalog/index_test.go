package catalog

import (
	"testing"
)

func testSubjects() []Subject {
	return []Subject{
		{
			Code:     "21CS301",
			Name:     "Machine Learning",
			FullName: "Machine Learning Techniques",
			Credits:  4,
			Type:     TypeTheory,
			Units: []Unit{
				{Number: 1, Title: "Introduction", Topics: []string{"Supervised Learning", "Unsupervised Learning"}},
				{Number: 2, Title: "Regression", Topics: []string{"Linear Regression", "Logistic Regression"}},
			},
		},
		{
			Code:     "21CS402",
			Name:     "Deep Learning",
			FullName: "Deep Learning and Neural Networks",
			Credits:  3,
			Type:     TypeTheory,
			Units: []Unit{
				{Number: 1, Title: "Perceptrons", Topics: []string{"MLP", "Activation Functions"}},
				{Number: 2, Title: "Optimization", Topics: []string{"Gradient Descent", "Momentum"}},
				{Number: 3, Title: "Training", Topics: []string{"Backpropagation", "Regularization", "Dropout"}},
				{Number: 4, Title: "CNNs", Topics: []string{"Convolutions", "Pooling"}},
				{Number: 5, Title: "RNNs", Topics: []string{"LSTM", "GRU"}},
			},
		},
		{
			Code:     "21CS403",
			Name:     "NLP",
			FullName: "Natural Language Processing",
			Credits:  3,
			Type:     TypeTheory,
			Units: []Unit{
				{Number: 1, Title: "Text Processing", Topics: []string{"Tokenization", "Stemming"}},
			},
		},
	}
}

func TestFindByNameEverySubject(t *testing.T) {
	idx := NewIndex(testSubjects())

	// Contract: the exact name of every catalog subject must resolve to
	// that subject.
	for _, s := range idx.Subjects() {
		got := idx.FindByName(s.Name)
		if got == nil || got.Code != s.Code {
			t.Errorf("FindByName(%q) did not return subject %s", s.Name, s.Code)
		}
	}
}

func TestFindByName(t *testing.T) {
	idx := NewIndex(testSubjects())

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"Name inside sentence", "show me deep learning unit 3", "21CS402"},
		{"Case insensitive", "DEEP LEARNING", "21CS402"},
		{"Partial name", "machine", "21CS301"},
		{"Course code", "what does 21CS403 cover", "21CS403"},
		{"Full name", "natural language processing syllabus", "21CS403"},
		{"No match", "quantum chromodynamics", ""},
		{"Empty query", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.FindByName(tt.query)
			if tt.wantCode == "" {
				if got != nil {
					t.Errorf("FindByName(%q) = %s, want nil", tt.query, got.Code)
				}
				return
			}
			if got == nil || got.Code != tt.wantCode {
				t.Errorf("FindByName(%q) = %v, want %s", tt.query, got, tt.wantCode)
			}
		})
	}
}

func TestFindByNamePriorityOrder(t *testing.T) {
	// Name matches take priority over code and full-name matches, first
	// catalog-order hit wins.
	idx := NewIndex([]Subject{
		{Code: "ML1", Name: "Learning Systems", Units: []Unit{{Number: 1}}},
		{Code: "Learning", Name: "Compilers", Units: []Unit{{Number: 1}}},
	})

	got := idx.FindByName("learning")
	if got == nil || got.Name != "Learning Systems" {
		t.Errorf("FindByName(learning) = %v, want name-priority match", got)
	}
}

func TestFindByAlias(t *testing.T) {
	idx := NewIndex(testSubjects())

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"Short alias", "tell me about ml", "21CS301"},
		{"Short alias word bounded", "explain gradient descent", ""},
		{"Long alias", "neural network basics", "21CS402"},
		{"Alias for NLP", "natural language stuff", "21CS403"},
		{"Unknown", "organic chemistry", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.FindByAlias(tt.query)
			if tt.wantCode == "" {
				if got != nil {
					t.Errorf("FindByAlias(%q) = %s, want nil", tt.query, got.Code)
				}
				return
			}
			if got == nil || got.Code != tt.wantCode {
				t.Errorf("FindByAlias(%q) = %v, want %s", tt.query, got, tt.wantCode)
			}
		})
	}
}

func TestResolveOrder(t *testing.T) {
	idx := NewIndex(testSubjects())

	// Exact/partial name resolution runs before aliases.
	if got := idx.Resolve("deep learning"); got == nil || got.Code != "21CS402" {
		t.Errorf("Resolve(deep learning) = %v", got)
	}
	// Alias-only resolution still works.
	if got := idx.Resolve("some dl question"); got == nil || got.Code != "21CS402" {
		t.Errorf("Resolve(some dl question) = %v", got)
	}
}

func TestUnit(t *testing.T) {
	idx := NewIndex(testSubjects())

	u := idx.Unit("Deep Learning", 3)
	if u == nil || u.Title != "Training" {
		t.Fatalf("Unit(Deep Learning, 3) = %v", u)
	}
	if idx.Unit("Deep Learning", 9) != nil {
		t.Error("Unit 9 should be absent")
	}
	if idx.Unit("Astrology", 1) != nil {
		t.Error("unknown subject should yield nil unit")
	}
}

func TestSearchTopics(t *testing.T) {
	idx := NewIndex(testSubjects())

	matches := idx.SearchTopics("regression")
	if len(matches) != 2 {
		t.Fatalf("SearchTopics(regression) = %d matches, want 2", len(matches))
	}
	// Catalog order preserved.
	if matches[0].Topic != "Linear Regression" || matches[1].Topic != "Logistic Regression" {
		t.Errorf("unexpected order: %v", matches)
	}
	if matches[0].SubjectCode != "21CS301" || matches[0].UnitNumber != 2 {
		t.Errorf("unexpected provenance: %+v", matches[0])
	}

	single := idx.SearchTopics("backpropagation")
	if len(single) != 1 || single[0].SubjectName != "Deep Learning" || single[0].UnitNumber != 3 {
		t.Errorf("SearchTopics(backpropagation) = %+v", single)
	}
}

func TestSearchTopicsEmptyFragment(t *testing.T) {
	idx := NewIndex(testSubjects())

	// Guard against accidental match-all.
	if got := idx.SearchTopics(""); len(got) != 0 {
		t.Errorf("SearchTopics(\"\") = %d matches, want 0", len(got))
	}
	if got := idx.SearchTopics("   "); len(got) != 0 {
		t.Errorf("SearchTopics(whitespace) = %d matches, want 0", len(got))
	}
}

func TestStats(t *testing.T) {
	idx := NewIndex(testSubjects())
	subjects, units, topics := idx.Stats()
	if subjects != 3 || units != 8 || topics != 17 {
		t.Errorf("Stats() = %d/%d/%d", subjects, units, topics)
	}
}
