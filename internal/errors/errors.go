// Package errors provides sentinel errors and custom error types for the hubkit application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrBranchNotFound indicates that a branch or ref does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrDiverged indicates that a local branch and its remote counterpart have diverged
	ErrDiverged = errors.New("branches have diverged")

	// ErrPrecondition indicates that a command cannot start in the current state
	ErrPrecondition = errors.New("precondition failed")

	// ErrOperationPending indicates that an unfinished operation blocks a new one
	ErrOperationPending = errors.New("operation pending")

	// ErrInteractiveDisabled is returned when prompting is not possible
	ErrInteractiveDisabled = errors.New("interactive prompts are disabled")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// RebaseConflictError represents an error when a rebase stops on a conflict.
// The message tells the user how to finish the rebase by hand.
type RebaseConflictError struct {
	BranchName string
	Command    string
}

func (e *RebaseConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rebase conflict on branch %s\n", e.BranchName)
	b.WriteString("Resolve the conflicts manually, then:\n")
	b.WriteString("  1. git add <resolved files>\n")
	b.WriteString("  2. git rebase --continue\n")
	if e.Command != "" {
		fmt.Fprintf(&b, "  3. run \"%s\" again\n", e.Command)
	} else {
		b.WriteString("  3. run the same command again\n")
	}
	b.WriteString("Do NOT push the branch yourself, the command will do this once the rebase is finished.")
	return b.String()
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, command string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Command:    command,
	}
}

// DivergedError is returned when an operation refuses to act on diverged branches
type DivergedError struct {
	Local  string
	Remote string
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("local branch %s and %s have diverged; rebase or merge first, or use --force to overwrite the remote", e.Local, e.Remote)
}

// Is returns true if the target error is ErrDiverged
func (e *DivergedError) Is(target error) bool {
	return target == ErrDiverged
}

// NewDivergedError creates a new DivergedError
func NewDivergedError(local, remote string) *DivergedError {
	return &DivergedError{Local: local, Remote: remote}
}

// PreconditionError is returned before any side effect when a command cannot run
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Is returns true if the target error is ErrPrecondition
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// PendingOperationError reports an unfinished operation recorded on disk
type PendingOperationError struct {
	Operation string
	Branch    string
}

func (e *PendingOperationError) Error() string {
	return fmt.Sprintf("Cannot perform %s while another operation is still pending (temporary branch %s)", e.Operation, e.Branch)
}

// Is returns true if the target error is ErrOperationPending
func (e *PendingOperationError) Is(target error) bool {
	return target == ErrOperationPending
}

// NewPendingOperationError creates a new PendingOperationError
func NewPendingOperationError(operation, branch string) *PendingOperationError {
	return &PendingOperationError{Operation: operation, Branch: branch}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
