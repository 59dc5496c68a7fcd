package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

var ErrEnvExists = errors.New(".env already exists")

// DefaultEnv is the provider-independent part of a fresh configuration.
func DefaultEnv() map[string]string {
	return map[string]string{
		"LLM_PROVIDERS":               "gemini,cohere",
		"AI_PROVIDER_FAILURE_TIMEOUT": "30s",
		"EMBEDDING_PROVIDER":          "hash",
		"VECTOR_PERSIST":              "true",
		"HISTORY_TOKENIZER":           "tiktoken",
		"REFERENCE_TIMEZONE":          "Asia/Kolkata",
		"ENABLE_CLI":                  "true",
		"ENABLE_TELEGRAM":             "false",
		"EXTRACTION_ENABLED":          "false",
	}
}

// TemplateEnv is DefaultEnv plus empty credential entries to fill in by
// hand.
func TemplateEnv() map[string]string {
	vars := DefaultEnv()
	for _, k := range []string{"GEMINI_API_KEYS", "COHERE_API_KEY", "TELEGRAM_TOKEN", "TELEGRAM_ALLOWED_IDS"} {
		vars[k] = ""
	}
	return vars
}

// Finalize merges wizard answers over the defaults and derives the
// provider list and transport flags.
func Finalize(state *InstallState) map[string]string {
	vars := DefaultEnv()
	for k, v := range state.EnvVars {
		vars[k] = v
	}
	if len(state.Providers) > 0 {
		vars["LLM_PROVIDERS"] = strings.Join(state.Providers, ",")
	}
	if vars["TELEGRAM_TOKEN"] != "" {
		vars["ENABLE_TELEGRAM"] = "true"
	}
	return vars
}

// WriteEnv writes vars to path with owner-only permissions. An existing
// file is kept unless force is set.
func WriteEnv(path string, vars map[string]string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create runtime directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w at %s", ErrEnvExists, path)
	}
	if err := godotenv.Write(vars, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}

// splitList trims every item of a comma list and drops empty ones.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
