// Package sync brings a local branch and its remote counterpart together,
// refusing to act on diverged branches unless forced.
package sync

import (
	"hubkit.dev/hubkit/internal/errors"
	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/internal/runtime"
	"hubkit.dev/hubkit/internal/tui/style"
)

// Options contains options for the sync command
type Options struct {
	// Branch is the local branch; empty means the current branch
	Branch string
	// RemoteBranch defaults to Branch
	RemoteBranch string
	// Force overwrites the remote branch when the two have diverged
	Force bool
	// DryRun only reports the status
	DryRun bool
}

// Result reports what sync found and did
type Result struct {
	Branch       string
	RemoteBranch string
	Status       git.SyncStatus
	// Published is true when the remote branch did not exist yet
	Published bool
	Pulled    bool
	Pushed    bool
}

// Status fetches the remote and evaluates the branch without changing anything
func Status(ctx *runtime.Context, opts Options) (*Result, error) {
	result, err := prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	if result.Published {
		return result, nil
	}

	result.Status, err = git.EvaluateSyncStatus(ctx.Context, ctx.Git, ctx.Remote, result.Branch, result.RemoteBranch)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Action performs the sync operation
func Action(ctx *runtime.Context, opts Options) (*Result, error) {
	result, err := Status(ctx, opts)
	if err != nil {
		return nil, err
	}
	gctx := ctx.Context
	splog := ctx.Splog
	remoteRef := git.RemoteRef(ctx.Remote, result.RemoteBranch)
	branch := style.ColorBranchName(result.Branch, false)

	if opts.DryRun {
		splog.Info("%s is %s relative to %s, nothing was changed.", branch, style.ColorSyncStatus(result.Status.String()), remoteRef)
		return result, nil
	}

	if result.Published {
		splog.Info("Publishing %s to %s...", branch, remoteRef)
		if err := ctx.Git.PushBranch(gctx, ctx.Remote, result.Branch, result.RemoteBranch, false); err != nil {
			return nil, err
		}
		result.Pushed = true
		return result, nil
	}

	if err := result.Status.Guard(result.Branch, remoteRef, opts.Force); err != nil {
		return nil, err
	}

	switch result.Status {
	case git.StatusUpToDate:
		splog.Info("%s is up to date with %s.", branch, remoteRef)
	case git.StatusNeedPull:
		splog.Info("Fast-forwarding %s to %s...", branch, remoteRef)
		if err := ctx.Git.FastForwardBranch(gctx, result.Branch, remoteRef); err != nil {
			return nil, err
		}
		result.Pulled = true
	case git.StatusNeedPush:
		splog.Info("Pushing %s to %s...", branch, remoteRef)
		if err := ctx.Git.PushBranch(gctx, ctx.Remote, result.Branch, result.RemoteBranch, false); err != nil {
			return nil, err
		}
		result.Pushed = true
	case git.StatusDiverged:
		splog.Warn("%s and %s have diverged, overwriting %s.", branch, remoteRef, remoteRef)
		if err := ctx.Git.PushBranch(gctx, ctx.Remote, result.Branch, result.RemoteBranch, true); err != nil {
			return nil, err
		}
		result.Pushed = true
	}
	return result, nil
}

// prepare resolves the branch names and fetches the remote. A branch the
// remote does not have yet is marked as Published.
func prepare(ctx *runtime.Context, opts Options) (*Result, error) {
	branch := opts.Branch
	if branch == "" {
		current, err := ctx.Git.GetCurrentBranch()
		if err != nil {
			return nil, err
		}
		if current == "" {
			return nil, errors.NewPreconditionError("HEAD is detached, name the branch to sync")
		}
		branch = current
	}

	exists, err := ctx.Git.BranchExists(branch)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewBranchNotFoundError(branch)
	}

	remoteBranch := opts.RemoteBranch
	if remoteBranch == "" {
		remoteBranch = branch
	}
	result := &Result{Branch: branch, RemoteBranch: remoteBranch}

	ctx.Splog.Debug("fetching %s", ctx.Remote)
	if err := ctx.Git.Fetch(ctx.Context, ctx.Remote); err != nil {
		return nil, err
	}

	onRemote, err := ctx.Git.RemoteBranchExists(ctx.Context, ctx.Remote, remoteBranch)
	if err != nil {
		return nil, err
	}
	if !onRemote {
		result.Status = git.StatusNeedPush
		result.Published = true
	}
	return result, nil
}
