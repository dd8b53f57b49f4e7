package utils

import (
	"os"
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(ExpandHome(relPath))
	if err != nil {
		return "", "", err
	}

	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}

// HistoryPath resolves the REPL history file. An empty configured path means
// ~/.exprcc_history; "" is returned when no home directory is known.
func HistoryPath(configured string) string {
	if configured != "" {
		full, _, err := GetPathInfo(configured)
		if err != nil {
			return configured
		}
		return full
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".exprcc_history")
}
