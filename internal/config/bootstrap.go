package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const FileName = "config.yml"

// DataDir resolves the data directory: JOBFINDER_DATA_DIR, then the user
// config dir, then ./data.
func DataDir() string {
	if d := strings.TrimSpace(os.Getenv("JOBFINDER_DATA_DIR")); d != "" {
		return d
	}
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "jobfinder")
	}
	return "data"
}

// EnsureUserConfig writes the built-in default into dataDir unless a config
// file is already there, and returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, FileName)

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, defaultYAML, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
