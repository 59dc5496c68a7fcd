package generator

import (
	"strings"
	"text/template"

	"github.com/sandevgo/recallbot/internal/core"
)

const (
	DefaultFacts   = "No personalized data available."
	DefaultMemory  = "No similar conversations found."
	DefaultHistory = "This is the beginning of the conversation."
	DefaultState   = "general_conversation"
)

// Template field names other code may depend on: facts, memory_context,
// history, state, prompt.
const promptTemplate = `
You are a personal AI assistant with long-term memory, personalization and multi-turn dialogue.

Facts about the user:
{{.facts}}

Relevant past conversation context:
{{.memory_context}}

Conversation history:
{{.history}}

Conversation state:
{{.state}}

User message:
{{.prompt}}

---

Respond naturally, using what you know about the user (name, preferences) where it helps.
Keep the tone friendly, concise and helpful.
`

const personalization = "\n\nYou are a friendly, context-aware personal AI assistant. " +
	"Use user facts (like name, preferences, and habits) to personalize replies. " +
	"Always sound natural and helpful. If the user's name is known, greet or refer to them personally."

const summaryPrompt = "You are a summarization engine. Summarize the following conversation:\n\n---\n%s\n---\n\nSummary:"

const extractionPrompt = `Extract entities and relationships from the text below as JSON.
Return ONLY valid JSON shaped like
{"entities": [{"name": "...", "type": "..."}], "relationships": [{"source": "...", "type": "...", "target": "..."}]}.
Refer to the author of the text as "user".
If nothing is found, return {"entities": [], "relationships": []}.

Text:
---%s---
`

var tmpl = template.Must(template.New("prompt").Option("missingkey=error").Parse(promptTemplate))

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// RenderPrompt fills the template, substituting placeholders for empty
// fields, and appends the personalization instruction.
func RenderPrompt(pc core.PromptContext) (string, error) {
	fields := map[string]string{
		"facts":          orDefault(pc.Facts, DefaultFacts),
		"memory_context": orDefault(pc.MemoryContext, DefaultMemory),
		"history":        orDefault(pc.History, DefaultHistory),
		"state":          orDefault(pc.State, DefaultState),
		"prompt":         pc.Prompt,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, fields); err != nil {
		return "", err
	}
	sb.WriteString(personalization)
	return sb.String(), nil
}
