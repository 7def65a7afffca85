package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/kelsos/todos/internal/logger"
)

// LoadEnvironment loads variables from .env in the working directory and next to the binary.
// Variables already present in the environment are never overwritten.
func LoadEnvironment() []string {
	var loaded []string

	if err := godotenv.Load(); err == nil {
		loaded = append(loaded, ".env")
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Debug("Could not determine executable path: %v", err)
		return loaded
	}

	envPath := filepath.Join(filepath.Dir(execPath), ".env")
	if err := godotenv.Load(envPath); err == nil {
		loaded = append(loaded, envPath)
	}

	return loaded
}
