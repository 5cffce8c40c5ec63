package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DataPath returns path when set, otherwise fileName joined under dataDir.
//
// Relative explicit paths are kept as given so flags behave like the shell expects.
func DataPath(dataDir, path, fileName string) string {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	dataDir = strings.TrimSpace(dataDir)
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, fileName)
}
