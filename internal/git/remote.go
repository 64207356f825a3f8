package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	hubkiterrors "hubkit.dev/hubkit/internal/errors"
)

// Fetch updates the remote-tracking refs of a remote
func (r *realRunner) Fetch(ctx context.Context, remote string) error {
	if _, err := r.cmd.Run(ctx, "fetch", "--prune", remote); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

// RemoteExists reports whether a remote with this name is configured
func (r *realRunner) RemoteExists(ctx context.Context, remote string) (bool, error) {
	remotes, err := r.cmd.RunLines(ctx, "remote")
	if err != nil {
		return false, fmt.Errorf("failed to list remotes: %w", err)
	}
	for _, name := range remotes {
		if strings.TrimSpace(name) == remote {
			return true, nil
		}
	}
	return false, nil
}

// AddRemote adds a remote
func (r *realRunner) AddRemote(ctx context.Context, name, url string) error {
	if _, err := r.cmd.Run(ctx, "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// GetRemoteURL returns the fetch URL of a remote
func (r *realRunner) GetRemoteURL(ctx context.Context, remote string) (string, error) {
	url, err := r.cmd.Run(ctx, "config", "--get", "remote."+remote+".url")
	if err != nil {
		return "", fmt.Errorf("failed to get url of remote %s: %w", remote, err)
	}
	return url, nil
}

// RemoteBranchExists asks the remote itself (not the tracking refs) whether
// a branch exists.
func (r *realRunner) RemoteBranchExists(ctx context.Context, remote, branchName string) (bool, error) {
	_, err := r.cmd.Run(ctx, "ls-remote", "--exit-code", "--heads", remote, "refs/heads/"+branchName)
	if err == nil {
		return true, nil
	}

	// ls-remote exits with 2 when no matching ref was found
	var gitErr *hubkiterrors.GitCommandError
	var exitErr *exec.ExitError
	if errors.As(err, &gitErr) && errors.As(gitErr.Err, &exitErr) && exitErr.ExitCode() == 2 {
		return false, nil
	}
	return false, fmt.Errorf("failed to query %s for branch %s: %w", remote, branchName, err)
}

// EnsureRemote adds the remote unless one with the same name exists
func EnsureRemote(ctx context.Context, runner Runner, name, url string) error {
	exists, err := runner.RemoteExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return runner.AddRemote(ctx, name, url)
}

// RemoteRef returns the remote-tracking ref name for a branch
func RemoteRef(remote, branchName string) string {
	return remote + "/" + branchName
}
