package platform

import (
	"fmt"
	"os"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist.
// An existing path that is not a directory is an error.
func CreateDirectoryIfNotExists(dirPath string) error {
	if IsDir(dirPath) {
		return nil
	}
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return fmt.Errorf("path exists and is not a directory: %s", dirPath)
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
