package backend

import (
	"strings"
	"testing"

	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
)

func testIndex() *catalog.Index {
	return catalog.NewIndex([]catalog.Subject{
		{
			Code: "21CS401", Name: "Machine Learning", FullName: "Introduction to Machine Learning",
			Credits: 4, Type: catalog.TypeTheory,
			Units: []catalog.Unit{
				{Number: 1, Title: "Foundations", Topics: []string{"Supervised learning", "Linear regression"}},
				{Number: 2, Title: "Classification", Topics: []string{"Decision trees"}},
			},
		},
		{
			Code: "21CS402", Name: "Deep Learning", FullName: "Deep Learning and Neural Networks",
			Credits: 3, Type: catalog.TypeTheory,
			Units: []catalog.Unit{
				{Number: 3, Title: "Training", Topics: []string{"Backpropagation", "Gradient descent"}},
			},
		},
	})
}

func TestContextBuilderIncludesEverySubject(t *testing.T) {
	ctx := NewContextBuilder(testIndex(), 0).Build()

	for _, want := range []string{
		"Subject: Machine Learning (21CS401)",
		"Subject: Deep Learning (21CS402)",
		"Unit 3: Training",
		"Topics: Backpropagation, Gradient descent",
		"Credits: 4, Type: theory",
	} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q\n%s", want, ctx)
		}
	}
}

func TestContextBuilderTruncatesAtSubjectBoundary(t *testing.T) {
	idx := testIndex()
	full := NewContextBuilder(idx, 0).Build()
	firstSubject := NewContextBuilder(idx, len(full)-1).Build()

	if strings.Contains(firstSubject, "Deep Learning") {
		t.Errorf("truncated context should drop whole trailing subject:\n%s", firstSubject)
	}
	if !strings.Contains(firstSubject, "Machine Learning") {
		t.Errorf("truncated context should keep leading subject:\n%s", firstSubject)
	}
}

func TestContextBuilderEmptyCatalog(t *testing.T) {
	ctx := NewContextBuilder(catalog.NewIndex(nil), 0).Build()
	if ctx != "" {
		t.Errorf("empty catalog should render empty context, got %q", ctx)
	}
}

func TestBuildPromptSections(t *testing.T) {
	prompt := BuildPrompt(Request{
		Query:   "explain gradient descent",
		Context: "Subject: Deep Learning",
	})

	for _, want := range []string{
		"SYLLABUS CONTEXT:\nSubject: Deep Learning",
		"CONVERSATION HISTORY:\nNone",
		"STUDENT QUESTION: explain gradient descent",
		"Provide a helpful, accurate response:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutContext(t *testing.T) {
	prompt := BuildPrompt(Request{Query: "hi"})
	if !strings.Contains(prompt, "No specific context found. Answer based on general knowledge.") {
		t.Error("prompt should carry the no-context fallback")
	}
}

func TestUserPromptExcludesSystemFraming(t *testing.T) {
	up := UserPrompt(Request{Query: "hi"})
	if strings.Contains(up, "study buddy assistant") {
		t.Error("user prompt should not repeat the system framing")
	}
	if !strings.Contains(up, "STUDENT QUESTION: hi") {
		t.Error("user prompt should carry the question")
	}
}
