package git

import (
	"context"
	"fmt"
)

// CheckoutBranch checks out an existing branch
func (r *realRunner) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.cmd.Run(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CreateBranchFrom creates branchName at startPoint and checks it out
func (r *realRunner) CreateBranchFrom(ctx context.Context, branchName, startPoint string) error {
	_, err := r.cmd.Run(ctx, "checkout", "-b", branchName, startPoint)
	if err != nil {
		return fmt.Errorf("failed to create branch %s from %s: %w", branchName, startPoint, err)
	}
	return nil
}

// CheckoutDetached checks out a revision in detached HEAD state
func (r *realRunner) CheckoutDetached(ctx context.Context, rev string) error {
	_, err := r.cmd.Run(ctx, "checkout", "--detach", rev)
	if err != nil {
		return fmt.Errorf("failed to checkout %s in detached state: %w", rev, err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch
func (r *realRunner) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.cmd.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// FastForwardBranch moves branchName forward to revision. The checked out
// branch is merged with --ff-only so the working tree follows; any other
// branch only has its ref updated.
func (r *realRunner) FastForwardBranch(ctx context.Context, branchName, revision string) error {
	current, err := r.GetCurrentBranch()
	if err != nil {
		return err
	}

	if current == branchName {
		if _, err := r.cmd.Run(ctx, "merge", "--ff-only", revision); err != nil {
			return fmt.Errorf("failed to fast-forward %s to %s: %w", branchName, revision, err)
		}
		return nil
	}

	sha, err := r.GetRevision(ctx, revision)
	if err != nil {
		return err
	}
	if _, err := r.cmd.Run(ctx, "update-ref", "refs/heads/"+branchName, sha); err != nil {
		return fmt.Errorf("failed to update branch ref %s: %w", branchName, err)
	}
	return nil
}
