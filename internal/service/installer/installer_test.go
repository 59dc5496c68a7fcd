package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drive(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	m.Init()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestWizard_FullRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runtime", ".env")

	m := drive(t, newModel(path, false),
		// gemini and cohere start selected; swap gemini for anthropic
		space, down, down, space, enter,
		// cohere key, then the anthropic key list
		typed("co-key"), enter,
		typed("sk-a, sk-b,"), enter,
		// telegram
		typed("123:ABC"), enter,
		typed("42, 7"), enter,
		// RAM only
		down, enter,
	)
	require.NoError(t, m.err)
	require.True(t, m.done)

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "cohere,anthropic", vars["LLM_PROVIDERS"])
	assert.Equal(t, "co-key", vars["COHERE_API_KEY"])
	assert.Equal(t, "sk-a,sk-b", vars["ANTHROPIC_API_KEYS"])
	assert.NotContains(t, vars, "GEMINI_API_KEYS")
	assert.Equal(t, "123:ABC", vars["TELEGRAM_TOKEN"])
	assert.Equal(t, "42,7", vars["TELEGRAM_ALLOWED_IDS"])
	assert.Equal(t, "true", vars["ENABLE_TELEGRAM"])
	assert.Equal(t, "false", vars["VECTOR_PERSIST"])
	assert.Equal(t, "Asia/Kolkata", vars["REFERENCE_TIMEZONE"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWizard_SkipTelegramAndKeepOllamaDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	m := drive(t, newModel(path, false),
		// deselect gemini and cohere, select ollama
		space, down, space, down, down, down, down, space, enter,
		enter, // accept the prefilled base URL
		enter, // no telegram token
		enter, // disk
	)
	require.True(t, m.done)

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", vars["LLM_PROVIDERS"])
	assert.Equal(t, "http://localhost:11434", vars["OLLAMA_BASE_URL"])
	assert.Equal(t, "false", vars["ENABLE_TELEGRAM"])
	assert.NotContains(t, vars, "TELEGRAM_TOKEN")
	assert.Equal(t, "true", vars["VECTOR_PERSIST"])
}

func TestProviderStep_RequiresSelection(t *testing.T) {
	m := drive(t, newModel(filepath.Join(t.TempDir(), ".env"), false),
		space, down, space, enter,
	)
	assert.Equal(t, 0, m.currentStep)
	assert.Contains(t, m.View(), "select at least one provider")
}

func TestCredentialsStep_RejectsEmptyAndMultipleSingleKey(t *testing.T) {
	m := drive(t, newModel(filepath.Join(t.TempDir(), ".env"), false),
		space, enter, // cohere only
		enter,
	)
	assert.Equal(t, 1, m.currentStep)
	assert.Contains(t, m.View(), "Cohere needs a value")

	m = drive(t, m, typed("a,b"), enter)
	assert.Equal(t, 1, m.currentStep)
	assert.Contains(t, m.View(), "single key")
	assert.NotContains(t, m.View(), "a,b")
}

func TestTelegramStep_ValidatesIDs(t *testing.T) {
	m := drive(t, newModel(filepath.Join(t.TempDir(), ".env"), false),
		space, enter, typed("co-key"), enter,
		typed("tok"), enter,
		enter,
	)
	assert.Equal(t, 2, m.currentStep)
	assert.Contains(t, m.View(), "at least one user id")

	m = drive(t, m, typed("me"), enter)
	assert.Contains(t, m.View(), "not a numeric user id: me")
	assert.Equal(t, 2, m.currentStep)
}

func TestWizard_ExistingFileNeedsForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEEP=1\n"), 0o600))

	answers := []tea.Msg{space, enter, typed("co-key"), enter, enter, enter}

	m := drive(t, newModel(path, false), answers...)
	assert.ErrorIs(t, m.err, ErrEnvExists)
	assert.False(t, m.done)

	m = drive(t, newModel(path, true), answers...)
	require.True(t, m.done)
	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.NotContains(t, vars, "KEEP")
}

func TestWizard_CtrlCQuits(t *testing.T) {
	m := drive(t, newModel(filepath.Join(t.TempDir(), ".env"), false),
		tea.KeyMsg{Type: tea.KeyCtrlC},
	)
	assert.True(t, m.quitting)
	assert.Equal(t, "Setup cancelled.\n", m.View())
}

func TestFinalize_DefaultsAndDerivedFlags(t *testing.T) {
	state := NewInstallState()
	vars := Finalize(state)
	assert.Equal(t, DefaultEnv(), vars)

	state.Providers = []string{"openai"}
	state.EnvVars["TELEGRAM_TOKEN"] = "t"
	vars = Finalize(state)
	assert.Equal(t, "openai", vars["LLM_PROVIDERS"])
	assert.Equal(t, "true", vars["ENABLE_TELEGRAM"])
}

func TestWriteEnv_Template(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, WriteEnv(path, TemplateEnv(), false))

	vars, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini,cohere", vars["LLM_PROVIDERS"])
	assert.Contains(t, vars, "GEMINI_API_KEYS")
	assert.Empty(t, vars["TELEGRAM_TOKEN"])
}
