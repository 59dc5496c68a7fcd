package installer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramStep collects the bot token and the allow list. An empty token
// skips Telegram entirely.
type TelegramStep struct {
	token   textinput.Model
	allowed textinput.Model
	askIDs  bool
	err     string
}

func NewTelegramStep() Step {
	token := textinput.New()
	token.CharLimit = 255
	token.Width = 48
	token.Placeholder = "123456789:ABCDEF... (empty to skip)"
	token.EchoMode = textinput.EchoPassword
	token.EchoCharacter = '*'

	allowed := textinput.New()
	allowed.CharLimit = 255
	allowed.Width = 48
	allowed.Placeholder = "123456789,987654321"

	return &TelegramStep{token: token, allowed: allowed}
}

func (s *TelegramStep) Init(state *InstallState) tea.Cmd {
	s.token.Focus()
	return textinput.Blink
}

func (s *TelegramStep) Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		if !s.askIDs {
			token := strings.TrimSpace(s.token.Value())
			if token == "" {
				return nil, nil
			}
			state.EnvVars["TELEGRAM_TOKEN"] = token
			s.askIDs = true
			s.token.Blur()
			s.allowed.Focus()
			return s, textinput.Blink
		}

		ids := splitList(s.allowed.Value())
		if len(ids) == 0 {
			s.err = "at least one user id is required"
			return s, nil
		}
		for _, id := range ids {
			if _, err := strconv.ParseInt(id, 10, 64); err != nil {
				s.err = "not a numeric user id: " + id
				return s, nil
			}
		}
		state.EnvVars["TELEGRAM_ALLOWED_IDS"] = strings.Join(ids, ",")
		return nil, nil
	}

	var cmd tea.Cmd
	if s.askIDs {
		s.allowed, cmd = s.allowed.Update(msg)
	} else {
		s.token, cmd = s.token.Update(msg)
	}
	return s, cmd
}

func (s *TelegramStep) View(state *InstallState) string {
	if !s.askIDs {
		return "Telegram bot token (optional):\n\n" + s.token.View() + "\n\n(press enter to confirm)\n"
	}
	out := "Telegram user ids allowed to talk to the bot:\n\n" + s.allowed.View() + "\n"
	if s.err != "" {
		out += "\n" + errorStyle.Render(s.err) + "\n"
	}
	return out + "\n(press enter to confirm)\n"
}
