package testhelpers

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	binaryOnce       sync.Once
	binaryErr        error
)

// GetSharedBinaryPath returns the hubkit binary, building it on first use.
func GetSharedBinaryPath() (string, error) {
	binaryOnce.Do(func() {
		if sharedBinaryPath == "" {
			sharedBinaryPath, binaryErr = buildBinary()
		}
	})
	return sharedBinaryPath, binaryErr
}

// buildBinary builds ./cmd/hubkit into a temporary directory
func buildBinary() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "hubkit-test-binary-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "hubkit")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/hubkit")
	cmd.Dir = moduleRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("failed to build: %s: %w", string(output), err)
	}
	return binaryPath, nil
}

// findModuleRoot walks up from startDir to the directory holding go.mod
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// TestMain builds the binary once for a package of CLI tests and removes it
// after the tests ran.
func TestMain(m *testing.M) {
	path, err := GetSharedBinaryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build hubkit binary: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(filepath.Dir(path))
	os.Exit(code)
}

// CLIResult is the outcome of one hubkit invocation
type CLIResult struct {
	Output   string
	ExitCode int
}

// RunCLI runs the hubkit binary in the scene's repository. The scene's
// environment (config path, log file, non-interactive mode) is inherited.
func (s *Scene) RunCLI(t *testing.T, args ...string) CLIResult {
	t.Helper()
	path, err := GetSharedBinaryPath()
	if err != nil {
		t.Fatalf("hubkit binary not built: %v", err)
	}

	var out bytes.Buffer
	cmd := exec.Command(path, args...)
	cmd.Dir = s.Dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	cmd.Stdout = &out
	cmd.Stderr = &out

	result := CLIResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("failed to run hubkit: %v", err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	result.Output = out.String()
	return result
}
