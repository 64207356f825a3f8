package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	hubkiterrors "hubkit.dev/hubkit/internal/errors"
)

// GetRevision resolves rev to a commit SHA. A rev that does not resolve is
// reported as a BranchNotFoundError.
func (r *realRunner) GetRevision(ctx context.Context, rev string) (string, error) {
	sha, err := r.cmd.Run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil || sha == "" {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, hubkiterrors.NewBranchNotFoundError(rev))
	}
	return sha, nil
}

// GetMergeBase returns the best common ancestor of two revisions, or "" when
// their histories share no commit.
func (r *realRunner) GetMergeBase(ctx context.Context, rev1, rev2 string) (string, error) {
	base, err := r.cmd.Run(ctx, "merge-base", rev1, rev2)
	if err != nil {
		// merge-base exits 1 without output for unrelated histories
		var gitErr *hubkiterrors.GitCommandError
		var exitErr *exec.ExitError
		if errors.As(err, &gitErr) && errors.As(gitErr.Err, &exitErr) &&
			exitErr.ExitCode() == 1 && strings.TrimSpace(gitErr.Stdout) == "" {
			return "", nil
		}
		return "", fmt.Errorf("failed to find merge base of %s and %s: %w", rev1, rev2, err)
	}
	return base, nil
}

// GitDir returns the absolute path of the git metadata directory. Linked
// worktrees get their own directory.
func (r *realRunner) GitDir(ctx context.Context) (string, error) {
	dir, err := r.cmd.Run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("failed to locate git directory: %w", err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.cmd.WorkingDir(), dir)
	}
	return dir, nil
}

// IsWorkingTreeClean reports whether there are no staged, unstaged or
// untracked changes.
func (r *realRunner) IsWorkingTreeClean(ctx context.Context) (bool, error) {
	output, err := r.cmd.Run(ctx, "status", "--porcelain", "--untracked-files=normal")
	if err != nil {
		return false, fmt.Errorf("failed to get working tree status: %w", err)
	}
	return output == "", nil
}
