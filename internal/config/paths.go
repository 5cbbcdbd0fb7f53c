package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expandHome expands a leading '~' so config and .env paths can be given as
// ~/.config/poultrydx.yaml.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
