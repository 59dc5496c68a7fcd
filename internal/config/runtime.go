package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func GetRuntimePath() string {
	path := os.Getenv("RECALL_RUNTIME_PATH")
	if path == "" {
		path = ".recallbot"
	}
	return resolveRuntimePath(path)
}

func resolveRuntimePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path)
}

// LoadEnvFile loads <runtime>/.env without overriding variables already set.
// A missing file is not an error.
func LoadEnvFile(runtimePath string) error {
	err := godotenv.Load(filepath.Join(runtimePath, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
