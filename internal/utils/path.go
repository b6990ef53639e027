package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetClaskConfigDir returns the path to the clask configuration directory.
// The directory is located inside the user's configuration directory
// as <UserConfigDir>/.clask, unless overridden by CLASK_CONFIG_DIR.
func GetClaskConfigDir() (string, error) {
	if claskConfigDir := os.Getenv("CLASK_CONFIG_DIR"); claskConfigDir != "" {
		return claskConfigDir, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(cfg, ".clask"), nil
}
