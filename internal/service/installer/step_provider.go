package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type providerOption struct {
	id          string
	title       string
	envKey      string
	placeholder string
	plain       bool // not a secret, shown unmasked
	list        bool // comma-separated credential list
}

var providerOptions = []providerOption{
	{id: "gemini", title: "Google Gemini", envKey: "GEMINI_API_KEYS", placeholder: "AIza...,AIza...", list: true},
	{id: "cohere", title: "Cohere", envKey: "COHERE_API_KEY", placeholder: "co-..."},
	{id: "anthropic", title: "Anthropic", envKey: "ANTHROPIC_API_KEYS", placeholder: "sk-ant-...", list: true},
	{id: "openai", title: "OpenAI", envKey: "OPENAI_API_KEYS", placeholder: "sk-...", list: true},
	{id: "openrouter", title: "OpenRouter", envKey: "OPENROUTER_API_KEYS", placeholder: "sk-or-v1-...", list: true},
	{id: "ollama", title: "Ollama (local)", envKey: "OLLAMA_BASE_URL", placeholder: "http://localhost:11434", plain: true},
}

func optionByID(id string) (providerOption, bool) {
	for _, o := range providerOptions {
		if o.id == id {
			return o, true
		}
	}
	return providerOption{}, false
}

// ProviderStep selects the generation providers. List order is the
// fallback priority.
type ProviderStep struct {
	cursor   int
	selected map[string]bool
	err      string
}

func NewProviderStep() Step {
	return &ProviderStep{
		selected: map[string]bool{"gemini": true, "cohere": true},
	}
}

func (s *ProviderStep) Init(state *InstallState) tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(providerOptions)-1 {
			s.cursor++
		}
	case " ", "x":
		id := providerOptions[s.cursor].id
		s.selected[id] = !s.selected[id]
		s.err = ""
	case "enter":
		var chosen []string
		for _, o := range providerOptions {
			if s.selected[o.id] {
				chosen = append(chosen, o.id)
			}
		}
		if len(chosen) == 0 {
			s.err = "select at least one provider"
			return s, nil
		}
		state.Providers = chosen
		return nil, nil
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Select AI providers (space to toggle, enter to confirm):\n\n")
	for i, o := range providerOptions {
		mark := "[ ]"
		if s.selected[o.id] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, o.title)
		if s.cursor == i {
			b.WriteString(selStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	if s.err != "" {
		b.WriteString("\n" + errorStyle.Render(s.err) + "\n")
	}
	b.WriteString(hintStyle.Render("\nProviders are tried top to bottom.") + "\n")
	return b.String()
}
