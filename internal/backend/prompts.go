package backend

import "strings"

// systemPrompt frames the assistant for the direct-completion tier.
const systemPrompt = `You are an intelligent, friendly SRM University study buddy assistant.

Your capabilities:
1. Answer questions about any subject in the syllabus
2. Help students prepare for exams (CT1, CT2, Semester)
3. Generate study notes and summaries
4. Explain complex topics simply
5. Create study plans

Guidelines:
- Be conversational and encouraging
- Use bullet points for clarity
- When explaining topics, relate to real-world examples
- For exam prep: CT1 = Units 1-2, CT2 = Units 3-4, Semester = All units
- Always cite which unit/subject the information is from

You have access to the SRM syllabus context provided below.`

// BuildPrompt assembles the single-string completion prompt from the
// system framing, the syllabus context, the recent conversation window
// and the current question.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(systemPrompt)

	b.WriteString("\n\nSYLLABUS CONTEXT:\n")
	if req.Context != "" {
		b.WriteString(req.Context)
	} else {
		b.WriteString("No specific context found. Answer based on general knowledge.")
	}

	b.WriteString("\n\nCONVERSATION HISTORY:\n")
	if len(req.History) == 0 {
		b.WriteString("None")
	} else {
		for i, turn := range req.History {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(string(turn.Role))
			b.WriteString(": ")
			b.WriteString(turn.Content)
		}
	}

	b.WriteString("\n\nSTUDENT QUESTION: ")
	b.WriteString(req.Query)
	b.WriteString("\n\nProvide a helpful, accurate response:")

	return b.String()
}

// SystemPrompt returns the shared system framing for chat-shaped APIs
// that separate the system message from the user message.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user message for chat-shaped APIs: syllabus
// context, history window and question, without the system framing.
func UserPrompt(req Request) string {
	full := BuildPrompt(req)
	return strings.TrimPrefix(full, systemPrompt+"\n\n")
}
