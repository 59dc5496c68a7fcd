package installer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/recallbot/internal/service/ui"
)

var (
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the wizard. Update returns nil when the step is
// complete.
type Step interface {
	Init(state *InstallState) tea.Cmd
	Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd)
	View(state *InstallState) string
}

func getSteps() []Step {
	return []Step{
		NewProviderStep(),
		NewCredentialsStep(),
		NewTelegramStep(),
		NewPersistenceStep(),
	}
}

// model runs the steps in order and writes the env file after the last.
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	envPath     string
	force       bool
	quitting    bool
	done        bool
	err         error
}

func newModel(envPath string, force bool) model {
	return model{
		steps:   getSteps(),
		state:   NewInstallState(),
		envPath: envPath,
		force:   force,
	}
}

func (m model) Init() tea.Cmd {
	return m.steps[0].Init(m.state)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting || m.done {
		return m, tea.Quit
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	if m.err != nil {
		return m, nil
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state)
	if next != nil {
		m.steps[m.currentStep] = next
		return m, cmd
	}

	m.currentStep++
	if m.currentStep < len(m.steps) {
		return m, m.steps[m.currentStep].Init(m.state)
	}

	if err := WriteEnv(m.envPath, Finalize(m.state), m.force); err != nil {
		m.currentStep = len(m.steps) - 1
		m.err = err
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m model) View() string {
	switch {
	case m.quitting:
		return "Setup cancelled.\n"
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press ctrl+c to quit)\n"
	case m.done:
		return "Configuration saved to " + m.envPath + "\n"
	}
	return ui.TitleStyle.Render("RecallBot setup") + "\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard asks for providers, credentials, Telegram and persistence
// settings and writes them to envPath.
func RunWizard(envPath string, force bool) (*InstallState, error) {
	p := tea.NewProgram(newModel(envPath, force), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	if final.quitting {
		return nil, fmt.Errorf("setup interrupted")
	}
	if final.err != nil {
		return nil, final.err
	}
	return final.state, nil
}
