package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If HUBKIT_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.hubkit/logs/hubkit.log
func GetLogFilePath() string {
	if customPath := os.Getenv("HUBKIT_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "hubkit.log"
	}

	return filepath.Join(homeDir, ".hubkit", "logs", "hubkit.log")
}
