package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECALL_RUNTIME_PATH", dir)

	c, err := ParseAppConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, c.GetRuntimePath())
	assert.Equal(t, 10, c.GetHistoryCapacity())
	assert.Equal(t, 5, c.MemoryTopK)
	assert.Equal(t, 800, c.MemoryContextChars)
	assert.Equal(t, TokenizerTiktoken, c.HistoryTokenizer)
	assert.Equal(t, "Asia/Kolkata", c.GetLocation().String())
	assert.Equal(t, filepath.Join(dir, "recallbot.db"), c.GetDatabasePath())
}

func TestParseAppConfig_BadTimezone(t *testing.T) {
	t.Setenv("RECALL_RUNTIME_PATH", t.TempDir())
	t.Setenv("REFERENCE_TIMEZONE", "Mars/Olympus")

	_, err := ParseAppConfig()
	assert.Error(t, err)
}

func TestProvidersConfig_Lists(t *testing.T) {
	t.Setenv("LLM_PROVIDERS", "gemini,anthropic,cohere")
	t.Setenv("GEMINI_API_KEYS", "k1,k2,k3")
	t.Setenv("AI_PROVIDER_FAILURE_TIMEOUT", "45s")

	c := &ProvidersConfig{}
	require.NoError(t, env.Parse(c))

	assert.Equal(t, []string{"gemini", "anthropic", "cohere"}, c.Providers)
	assert.Equal(t, []string{"k1", "k2", "k3"}, c.GeminiAPIKeys)
	assert.Equal(t, 45*time.Second, c.FailureCooldown)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5", "gemini-1.5-flash"}, c.GeminiModels)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(dir), "missing file is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECALL_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("RECALL_TEST_VALUE", "")
	os.Unsetenv("RECALL_TEST_VALUE")

	require.NoError(t, LoadEnvFile(dir))
	assert.Equal(t, "from-file", os.Getenv("RECALL_TEST_VALUE"))
}

func TestParseAppConfig_RejectsUnknownTokenizer(t *testing.T) {
	t.Setenv("RECALL_RUNTIME_PATH", t.TempDir())
	t.Setenv("HISTORY_TOKENIZER", "words")

	_, err := ParseAppConfig()
	assert.ErrorContains(t, err, "history tokenizer")
}
