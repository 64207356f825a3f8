package switchbase

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkerFileName is the name of the recovery marker inside the git directory
const MarkerFileName = "hubkit-switch-base"

// Marker is the on-disk record of an unfinished switch-base. It holds the
// name of the temporary branch and nothing else.
type Marker struct {
	path string
}

// NewMarker returns the marker of the repository whose git directory is gitDir
func NewMarker(gitDir string) *Marker {
	return &Marker{path: filepath.Join(gitDir, MarkerFileName)}
}

// Path returns the marker location
func (m *Marker) Path() string {
	return m.path
}

// Exists reports whether an attempt is pending
func (m *Marker) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Read returns the recorded temporary branch
func (m *Marker) Read() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return "", fmt.Errorf("failed to read recovery marker: %w", err)
	}
	branch := strings.TrimSpace(string(data))
	if branch == "" {
		return "", fmt.Errorf("recovery marker %s is empty", m.path)
	}
	return branch, nil
}

// Write records branch as the temporary branch of the pending attempt
func (m *Marker) Write(branch string) error {
	if err := os.WriteFile(m.path, []byte(branch), 0600); err != nil {
		return fmt.Errorf("failed to write recovery marker: %w", err)
	}
	return nil
}

// Clear removes the marker. A missing marker is not an error.
func (m *Marker) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear recovery marker: %w", err)
	}
	return nil
}
