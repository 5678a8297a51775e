package utils

import (
	"fmt"
	"os"
)

// FormatFileSize formats file size in human readable format
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// EnsureDirectory creates dirPath if absent and checks it is a directory
func EnsureDirectory(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path '%s' exists but is not a directory", dirPath)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
