package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// Rebase runs `git rebase --onto onto upstream branchName`, leaving
// branchName checked out. A conflict leaves the rebase in progress so the
// user can resolve it.
func (r *realRunner) Rebase(ctx context.Context, onto, upstream, branchName string) (RebaseResult, error) {
	_, err := r.cmd.Run(ctx, "rebase", "--onto", onto, upstream, branchName)
	if err == nil {
		return RebaseDone, nil
	}

	// Check if rebase is in progress (conflict)
	if r.isRebaseInProgress(ctx) {
		return RebaseConflict, nil
	}
	return RebaseConflict, fmt.Errorf("rebase of %s onto %s failed: %w", branchName, onto, err)
}

// isRebaseInProgress checks if a rebase is currently in progress
func (r *realRunner) isRebaseInProgress(ctx context.Context) bool {
	// Check for .git/rebase-merge or .git/rebase-apply directories
	// This is more reliable than checking REBASE_HEAD which can persist after rebase
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return false
	}

	// Check for interactive rebase
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-merge")); err == nil {
		return true
	}
	// Check for non-interactive rebase
	if _, err := os.Stat(filepath.Join(gitDir, "rebase-apply")); err == nil {
		return true
	}
	return false
}
