package reporting

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns the per-run directory under baseDir
func (p *DefaultPathManager) GetDefaultOutputDir(baseDir, runID string) string {
	base := strings.TrimSpace(baseDir)
	if base == "" {
		base = "results"
	}
	id := strings.TrimSpace(runID)
	if id == "" {
		id = "unknown"
	}
	return filepath.Join(base, id)
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputDir is a package-level convenience function
func DefaultOutputDir(baseDir, runID string) string {
	return NewDefaultPathManager().GetDefaultOutputDir(baseDir, runID)
}
