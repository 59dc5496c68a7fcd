package installer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type persistenceChoice struct {
	title   string
	persist bool
}

var persistenceChoices = []persistenceChoice{
	{title: "Keep vector memory on disk", persist: true},
	{title: "Keep vector memory in RAM only", persist: false},
}

// PersistenceStep decides whether similarity memory survives restarts.
// Facts, history and tasks always live in SQLite.
type PersistenceStep struct {
	cursor int
}

func NewPersistenceStep() Step {
	return &PersistenceStep{}
}

func (s *PersistenceStep) Init(state *InstallState) tea.Cmd {
	return nil
}

func (s *PersistenceStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
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
		if s.cursor < len(persistenceChoices)-1 {
			s.cursor++
		}
	case "enter":
		if persistenceChoices[s.cursor].persist {
			state.EnvVars["VECTOR_PERSIST"] = "true"
		} else {
			state.EnvVars["VECTOR_PERSIST"] = "false"
		}
		return nil, nil
	}
	return s, nil
}

func (s *PersistenceStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString("Where should conversation memory live?\n\n")
	for i, c := range persistenceChoices {
		if s.cursor == i {
			b.WriteString(selStyle.Render("> "+c.title) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+c.title) + "\n")
		}
	}
	return b.String()
}
