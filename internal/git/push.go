package git

import (
	"context"
	"fmt"
)

// PushBranch pushes localRef to refs/heads/remoteBranch on remote.
// If force is true, uses --force (overwrites remote)
func (r *realRunner) PushBranch(ctx context.Context, remote, localRef, remoteBranch string, force bool) error {
	args := []string{"push"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, fmt.Sprintf("%s:refs/heads/%s", localRef, remoteBranch))

	if _, err := r.cmd.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push %s to %s/%s: %w", localRef, remote, remoteBranch, err)
	}
	return nil
}
