// Package git provides a wrapper around git commands and go-git for repository operations.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	hubkiterrors "hubkit.dev/hubkit/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// CommandRunner handles execution of git commands
type CommandRunner struct {
	binary     string
	workingDir string
}

// NewCommandRunner creates a new CommandRunner executing git in workingDir
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{binary: "git", workingDir: workingDir}
}

// WorkingDir returns the directory commands are executed in
func (r *CommandRunner) WorkingDir() string {
	return r.workingDir
}

// Run executes a command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, args...)
}

// RunLines executes a command and returns output as lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// runInternal applies the default timeout and wraps failures in a GitCommandError
func (r *CommandRunner) runInternal(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	binary := r.binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", hubkiterrors.NewGitCommandError(binary, args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", hubkiterrors.NewGitCommandError(binary, args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RefReader resolves revisions without touching the working tree.
type RefReader interface {
	GetRevision(ctx context.Context, rev string) (string, error)
	GetMergeBase(ctx context.Context, rev1, rev2 string) (string, error)
}

// Runner defines the interface for git operations used by the actions.
// This allows the actions to be used with both real git and fake implementations.
type Runner interface {
	RefReader

	// Repository
	RepoRoot() string
	GitDir(ctx context.Context) (string, error)
	GetCurrentBranch() (string, error)
	BranchExists(branchName string) (bool, error)
	BranchNames() ([]string, error)
	ReadFileAtRef(refName, path string) ([]byte, error)
	IsWorkingTreeClean(ctx context.Context) (bool, error)
	CommitRange(ctx context.Context, base, head string) ([]Commit, error)

	// Remotes
	Fetch(ctx context.Context, remote string) error
	RemoteExists(ctx context.Context, remote string) (bool, error)
	AddRemote(ctx context.Context, name, url string) error
	GetRemoteURL(ctx context.Context, remote string) (string, error)
	RemoteBranchExists(ctx context.Context, remote, branchName string) (bool, error)

	// Branch Management
	CheckoutBranch(ctx context.Context, branchName string) error
	CreateBranchFrom(ctx context.Context, branchName, startPoint string) error
	CheckoutDetached(ctx context.Context, revision string) error
	DeleteBranch(ctx context.Context, branchName string) error

	// Git Operations
	Rebase(ctx context.Context, onto, upstream, branchName string) (RebaseResult, error)
	PushBranch(ctx context.Context, remote, localRef, remoteBranch string, force bool) error
	FastForwardBranch(ctx context.Context, branchName, revision string) error
}

// NewRealRunner returns the standard implementation of Runner for the
// repository containing dir.
func NewRealRunner(dir string) (Runner, error) {
	repo, err := OpenRepository(dir)
	if err != nil {
		return nil, err
	}
	return &realRunner{
		cmd:  NewCommandRunner(repo.GetRepoRoot()),
		repo: repo,
	}, nil
}

// realRunner implements Runner with the git binary for anything that writes
// and go-git for cheap reads of refs and objects.
type realRunner struct {
	cmd  *CommandRunner
	repo *Repository
}

func (r *realRunner) RepoRoot() string {
	return r.repo.GetRepoRoot()
}

func (r *realRunner) GetCurrentBranch() (string, error) {
	return r.repo.GetCurrentBranch()
}

func (r *realRunner) BranchExists(branchName string) (bool, error) {
	return r.repo.BranchExists(branchName)
}

func (r *realRunner) ReadFileAtRef(refName, path string) ([]byte, error) {
	return r.repo.ReadFileAtRef(refName, path)
}

func (r *realRunner) BranchNames() ([]string, error) {
	return r.repo.BranchNames()
}
