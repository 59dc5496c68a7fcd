package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CredentialsStep asks for each selected provider's keys in turn.
type CredentialsStep struct {
	options []providerOption
	inputs  []textinput.Model
	idx     int
	err     string
}

func NewCredentialsStep() Step {
	return &CredentialsStep{}
}

func (s *CredentialsStep) Init(state *InstallState) tea.Cmd {
	s.options, s.inputs, s.idx = nil, nil, 0
	for _, id := range state.Providers {
		o, ok := optionByID(id)
		if !ok {
			continue
		}
		s.options = append(s.options, o)
		s.inputs = append(s.inputs, newCredentialInput(o))
	}
	if len(s.inputs) == 0 {
		return nil
	}
	s.inputs[0].Focus()
	return textinput.Blink
}

func newCredentialInput(o providerOption) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 48
	ti.Placeholder = o.placeholder
	if o.plain {
		ti.SetValue(o.placeholder)
	} else {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return ti
}

func (s *CredentialsStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	if s.idx >= len(s.inputs) {
		return nil, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		o := s.options[s.idx]
		value := strings.Join(splitList(s.inputs[s.idx].Value()), ",")
		if value == "" {
			s.err = o.title + " needs a value"
			return s, nil
		}
		if !o.list && !o.plain && strings.Contains(value, ",") {
			s.err = o.title + " takes a single key"
			return s, nil
		}

		state.EnvVars[o.envKey] = value
		s.err = ""
		s.inputs[s.idx].Blur()
		s.idx++
		if s.idx == len(s.inputs) {
			return nil, nil
		}
		s.inputs[s.idx].Focus()
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.inputs[s.idx], cmd = s.inputs[s.idx].Update(msg)
	return s, cmd
}

func (s *CredentialsStep) View(state *InstallState) string {
	if s.idx >= len(s.inputs) {
		return "No providers selected.\n"
	}

	o := s.options[s.idx]
	prompt := fmt.Sprintf("%s API key", o.title)
	switch {
	case o.plain:
		prompt = o.title + " base URL"
	case o.list:
		prompt = o.title + " API keys (comma separated, rotated on failure)"
	}

	out := fmt.Sprintf("[%d/%d] %s:\n\n%s\n", s.idx+1, len(s.inputs), prompt, s.inputs[s.idx].View())
	if s.err != "" {
		out += "\n" + errorStyle.Render(s.err) + "\n"
	}
	return out + "\n(press enter to confirm)\n"
}
