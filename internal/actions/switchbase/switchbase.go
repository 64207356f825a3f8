// Package switchbase moves a pull request onto a new base branch.
//
// The operation rebases the pull request's head onto the new base in a
// temporary branch and force-pushes the result. Progress is recorded in a
// marker file inside the git directory so an attempt stopped by a conflict
// or an interrupt is detected, and resumed or discarded, on the next run.
package switchbase

import (
	"errors"
	"fmt"
	"strings"

	hubkiterrors "hubkit.dev/hubkit/internal/errors"
	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/internal/github"
	"hubkit.dev/hubkit/internal/runtime"
	"hubkit.dev/hubkit/internal/tui/style"
)

// CommandName is used in messages that ask the user to run the command again
const CommandName = "switch-base"

// operationName names the operation in pending-operation errors
const operationName = "switch"

const tempBranchPrefix = "hubkit-switch-base"

// Options contains options for the switch-base command
type Options struct {
	// Number of the pull request
	Number int
	// NewBase is the branch the pull request should target
	NewBase string
	// Comment posts a note asking the author to reset their local branch
	Comment bool
}

// Result describes a finished switch-base
type Result struct {
	TempBranch string
	// Resumed is true when an earlier attempt was picked up
	Resumed bool
	// Rebased is false when the resumed temporary branch was pushed as is
	Rebased bool
	// Moved lists the commits of the pull request that were rebased
	Moved []git.Commit
	// LocalBranchExists is true when a local branch named like the head exists
	LocalBranchExists bool
}

// TempBranchName returns the temporary branch used for moving headRef of
// headRemote onto newBase
func TempBranchName(headRemote, headRef, newBase string) string {
	clean := func(s string) string {
		return strings.ReplaceAll(s, "/", "-")
	}
	return strings.Join([]string{tempBranchPrefix, clean(headRemote), clean(headRef), clean(newBase)}, "--")
}

type state int

const (
	stateStart state = iota
	stateRecoveryCheck
	stateReconcile
	stateRebasing
	statePush
	stateCleanup
	stateFinalize
	stateDone
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateRecoveryCheck:
		return "recovery-check"
	case stateReconcile:
		return "reconcile"
	case stateRebasing:
		return "rebasing"
	case statePush:
		return "push"
	case stateCleanup:
		return "cleanup"
	case stateFinalize:
		return "finalize"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type operation struct {
	ctx    *runtime.Context
	opts   Options
	client github.Client
	marker *Marker

	pr          *github.PullRequest
	headRemote  string
	tempBranch  string
	startBranch string
	pushed      bool
	result      Result
}

// Action performs the switch-base operation
func Action(ctx *runtime.Context, opts Options) (*Result, error) {
	if opts.Number <= 0 {
		return nil, hubkiterrors.NewPreconditionError("a pull request number is required")
	}
	if opts.NewBase == "" {
		return nil, hubkiterrors.NewPreconditionError("a new base branch is required")
	}

	client, err := ctx.GitHub()
	if err != nil {
		return nil, err
	}

	op := &operation{ctx: ctx, opts: opts, client: client}

	st := stateStart
	for st != stateDone {
		next, err := op.step(st)
		if err != nil {
			ctx.Splog.Debug("switch-base: %s failed: %v", st, err)
			return nil, err
		}
		ctx.Splog.Debug("switch-base: %s -> %s", st, next)
		st = next
	}
	return &op.result, nil
}

func (op *operation) step(st state) (state, error) {
	switch st {
	case stateStart:
		return op.start()
	case stateRecoveryCheck:
		return op.recoveryCheck()
	case stateReconcile:
		return op.reconcile()
	case stateRebasing:
		return op.rebase()
	case statePush:
		return op.push()
	case stateCleanup:
		return op.cleanup()
	case stateFinalize:
		return op.finalize()
	default:
		return stateDone, fmt.Errorf("unknown switch-base state %s", st)
	}
}

// start checks every precondition, then fetches the remotes. Nothing on disk
// changes before all checks passed.
func (op *operation) start() (state, error) {
	gctx := op.ctx.Context
	runner := op.ctx.Git
	remote := op.ctx.Remote

	pr, err := op.client.GetPullRequest(gctx, op.opts.Number)
	if err != nil {
		return stateDone, err
	}
	op.pr = pr

	if !pr.IsOpen() {
		status := pr.State
		if pr.Merged {
			status = "merged"
		}
		return stateDone, hubkiterrors.NewPreconditionError("pull request #%d is %s", pr.Number, status)
	}
	if pr.Base.Ref == op.opts.NewBase {
		return stateDone, hubkiterrors.NewPreconditionError("pull request #%d is already based on %s", pr.Number, op.opts.NewBase)
	}

	clean, err := runner.IsWorkingTreeClean(gctx)
	if err != nil {
		return stateDone, err
	}
	if !clean {
		return stateDone, hubkiterrors.NewPreconditionError("the working tree has uncommitted changes, commit or stash them first")
	}

	exists, err := runner.RemoteBranchExists(gctx, remote, op.opts.NewBase)
	if err != nil {
		return stateDone, err
	}
	if !exists {
		return stateDone, hubkiterrors.NewPreconditionError("branch %s does not exist on remote %s", op.opts.NewBase, remote)
	}

	op.headRemote = remote
	if pr.IsFork() {
		op.headRemote = pr.Head.User
		if err := git.EnsureRemote(gctx, runner, op.headRemote, pr.Head.SSHURL); err != nil {
			return stateDone, err
		}
	}

	op.ctx.Splog.Info("Fetching %s...", remote)
	if err := runner.Fetch(gctx, remote); err != nil {
		return stateDone, err
	}
	if op.headRemote != remote {
		op.ctx.Splog.Info("Fetching %s...", op.headRemote)
		if err := runner.Fetch(gctx, op.headRemote); err != nil {
			return stateDone, err
		}
	}

	gitDir, err := runner.GitDir(gctx)
	if err != nil {
		return stateDone, err
	}
	op.marker = NewMarker(gitDir)

	op.startBranch, err = runner.GetCurrentBranch()
	if err != nil {
		return stateDone, err
	}
	op.tempBranch = TempBranchName(op.headRemote, pr.Head.Ref, op.opts.NewBase)
	op.result.TempBranch = op.tempBranch

	return stateRecoveryCheck, nil
}

func (op *operation) recoveryCheck() (state, error) {
	if !op.marker.Exists() {
		return stateRebasing, nil
	}

	recorded, err := op.marker.Read()
	if err != nil {
		return stateDone, err
	}
	op.ctx.Splog.Debug("switch-base: marker records %s", recorded)

	if op.startBranch == recorded {
		if recorded != op.tempBranch {
			return stateDone, hubkiterrors.NewPendingOperationError(operationName, recorded)
		}
		op.result.Resumed = true
		return stateReconcile, nil
	}

	op.ctx.Splog.Warn("A previous switch-base did not finish (temporary branch %s).", style.ColorBranchName(recorded, false))

	abort, err := op.confirm(fmt.Sprintf("Abort the previous attempt and start over? This deletes branch %s", recorded), false)
	if err != nil {
		return stateDone, err
	}
	if abort {
		if err := op.discard(recorded); err != nil {
			return stateDone, err
		}
		return stateRebasing, nil
	}

	resume, err := op.confirm("Continue the previous attempt?", true)
	if err != nil {
		return stateDone, err
	}
	if !resume || recorded != op.tempBranch {
		return stateDone, hubkiterrors.NewPendingOperationError(operationName, recorded)
	}

	op.result.Resumed = true
	exists, err := op.ctx.Git.BranchExists(recorded)
	if err != nil {
		return stateDone, err
	}
	if !exists {
		op.ctx.Splog.Debug("switch-base: %s is gone, rebasing again", recorded)
		return stateRebasing, nil
	}
	if err := op.ctx.Git.CheckoutBranch(op.ctx.Context, recorded); err != nil {
		return stateDone, err
	}
	return stateReconcile, nil
}

// confirm treats a disabled prompt as declined
func (op *operation) confirm(message string, def bool) (bool, error) {
	answer, err := op.ctx.Prompter.Confirm(message, def)
	if errors.Is(err, hubkiterrors.ErrInteractiveDisabled) {
		return false, nil
	}
	return answer, err
}

// discard deletes the artifacts of an earlier attempt
func (op *operation) discard(branch string) error {
	exists, err := op.ctx.Git.BranchExists(branch)
	if err != nil {
		return err
	}
	if exists {
		if err := op.ctx.Git.DeleteBranch(op.ctx.Context, branch); err != nil {
			return err
		}
	}
	op.ctx.Splog.Info("Discarded previous attempt %s.", branch)
	return op.marker.Clear()
}

// reconcile decides whether the resumed temporary branch carries a finished
// rebase. A branch that diverged from the pull request head is pushed as is;
// anything else is rebased again from scratch.
func (op *operation) reconcile() (state, error) {
	exists, err := op.ctx.Git.BranchExists(op.tempBranch)
	if err != nil {
		return stateDone, err
	}
	if !exists {
		return stateRebasing, nil
	}

	status, err := git.EvaluateSyncStatus(op.ctx.Context, op.ctx.Git, op.headRemote, op.tempBranch, op.pr.Head.Ref)
	if err != nil {
		return stateDone, err
	}
	op.ctx.Splog.Debug("switch-base: %s is %s relative to %s", op.tempBranch, status, git.RemoteRef(op.headRemote, op.pr.Head.Ref))

	if status == git.StatusDiverged {
		return statePush, nil
	}
	return stateRebasing, nil
}

func (op *operation) rebase() (state, error) {
	gctx := op.ctx.Context
	runner := op.ctx.Git
	headRef := git.RemoteRef(op.headRemote, op.pr.Head.Ref)

	exists, err := runner.BranchExists(op.tempBranch)
	if err != nil {
		return stateDone, err
	}
	if exists {
		current, err := runner.GetCurrentBranch()
		if err != nil {
			return stateDone, err
		}
		if current == op.tempBranch {
			if err := runner.CheckoutDetached(gctx, headRef); err != nil {
				return stateDone, err
			}
		}
		if err := runner.DeleteBranch(gctx, op.tempBranch); err != nil {
			return stateDone, err
		}
	}

	if err := runner.CreateBranchFrom(gctx, op.tempBranch, headRef); err != nil {
		return stateDone, err
	}
	if err := op.marker.Write(op.tempBranch); err != nil {
		return stateDone, err
	}

	onto := git.RemoteRef(op.ctx.Remote, op.opts.NewBase)
	upstream := git.RemoteRef(op.ctx.Remote, op.pr.Base.Ref)
	commits, err := runner.CommitRange(gctx, upstream, op.tempBranch)
	if err != nil {
		return stateDone, err
	}
	op.ctx.Splog.Info("Rebasing %d commit(s) of %s onto %s...", len(commits),
		style.ColorBranchName(op.pr.Head.Ref, false), style.ColorBranchName(op.opts.NewBase, false))
	for _, c := range commits {
		op.ctx.Splog.Debug("  %s", c.Short())
	}
	op.result.Moved = commits

	result, err := runner.Rebase(gctx, onto, upstream, op.tempBranch)
	if err != nil {
		return stateDone, err
	}
	if result == git.RebaseConflict {
		return stateDone, hubkiterrors.NewRebaseConflictError(op.tempBranch,
			fmt.Sprintf("hubkit %s %d %s", CommandName, op.opts.Number, op.opts.NewBase))
	}

	op.result.Rebased = true
	return statePush, nil
}

func (op *operation) push() (state, error) {
	if op.pushed {
		return stateDone, fmt.Errorf("%s was already pushed", op.tempBranch)
	}

	op.ctx.Splog.Info("Pushing %s to %s...", op.tempBranch, git.RemoteRef(op.headRemote, op.pr.Head.Ref))
	if err := op.ctx.Git.PushBranch(op.ctx.Context, op.headRemote, op.tempBranch, op.pr.Head.Ref, true); err != nil {
		return stateDone, fmt.Errorf("failed to push %s: %w", op.pr.Head.Ref, err)
	}
	op.pushed = true
	return stateCleanup, nil
}

// cleanup leaves the temporary branch, deletes it and clears the marker
func (op *operation) cleanup() (state, error) {
	gctx := op.ctx.Context
	runner := op.ctx.Git

	returnTo := ""
	if op.startBranch != "" && op.startBranch != op.tempBranch {
		exists, err := runner.BranchExists(op.startBranch)
		if err != nil {
			return stateDone, err
		}
		if exists {
			returnTo = op.startBranch
		}
	}

	if returnTo != "" {
		err := runner.CheckoutBranch(gctx, returnTo)
		if err != nil {
			return stateDone, err
		}
	} else if err := runner.CheckoutDetached(gctx, git.RemoteRef(op.ctx.Remote, op.opts.NewBase)); err != nil {
		return stateDone, err
	}

	if err := runner.DeleteBranch(gctx, op.tempBranch); err != nil {
		return stateDone, err
	}
	if err := op.marker.Clear(); err != nil {
		return stateDone, err
	}
	return stateFinalize, nil
}

func (op *operation) finalize() (state, error) {
	gctx := op.ctx.Context
	newBase := op.opts.NewBase

	if err := op.client.UpdatePullRequest(gctx, op.pr.Number, github.UpdatePROptions{Base: &newBase}); err != nil {
		return stateDone, err
	}

	if op.opts.Comment {
		if err := op.client.CreateComment(gctx, op.pr.Number, ResetComment(newBase, op.headRemote, op.pr.Head.Ref)); err != nil {
			return stateDone, err
		}
	}

	exists, err := op.ctx.Git.BranchExists(op.pr.Head.Ref)
	if err != nil {
		return stateDone, err
	}
	op.result.LocalBranchExists = exists
	if exists {
		op.ctx.Splog.Warn("Local branch %s was left untouched.", style.ColorBranchName(op.pr.Head.Ref, false))
		op.ctx.Splog.Tip("Reset it with: git reset --hard %s", git.RemoteRef(op.headRemote, op.pr.Head.Ref))
	}

	op.ctx.Splog.Success("%s now targets %s.", style.ColorPRNumber(op.pr.Number), style.ColorBranchName(newBase, false))
	return stateDone, nil
}

// ResetComment is the note posted to the pull request when Comment is set
func ResetComment(newBase, remote, headRef string) string {
	return fmt.Sprintf("The base branch of this pull request was changed to `%s`. "+
		"Please reset your local branch (`git fetch && git reset --hard %s`) before pushing new commits.",
		newBase, git.RemoteRef(remote, headRef))
}
