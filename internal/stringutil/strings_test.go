package stringutil

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Lowercase passthrough", "machine learning", "machine learning"},
		{"Mixed case", "Deep Learning", "deep learning"},
		{"Surrounding space", "  NLP  ", "nlp"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{"Exact", "Machine Learning", "machine learning", true},
		{"Partial", "Machine Learning", "machine", true},
		{"Case insensitive", "machine learning", "LEARNING", true},
		{"No match", "Machine Learning", "compilers", false},
		{"Empty substr never matches", "Machine Learning", "", false},
		{"Empty haystack", "", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsFold(tt.s, tt.substr); got != tt.want {
				t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
			}
		})
	}
}
