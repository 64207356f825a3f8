package git

import (
	"context"
	"fmt"

	hubkiterrors "hubkit.dev/hubkit/internal/errors"
)

// SyncStatus describes how a local branch relates to its remote counterpart
type SyncStatus int

const (
	// StatusUpToDate means both point at the same commit
	StatusUpToDate SyncStatus = iota
	// StatusNeedPull means the remote has commits the local branch lacks
	StatusNeedPull
	// StatusNeedPush means the local branch has commits the remote lacks
	StatusNeedPush
	// StatusDiverged means both sides have commits the other lacks
	StatusDiverged
)

func (s SyncStatus) String() string {
	switch s {
	case StatusUpToDate:
		return "up-to-date"
	case StatusNeedPull:
		return "need-pull"
	case StatusNeedPush:
		return "need-push"
	case StatusDiverged:
		return "diverged"
	default:
		return fmt.Sprintf("SyncStatus(%d)", int(s))
	}
}

// EvaluateSyncStatus compares localBranch with remote/remoteBranch.
// remoteBranch defaults to localBranch. Only read commands are used; the
// caller must fetch first or the comparison uses stale tracking refs.
// Refs that do not resolve are returned as errors. Branches whose histories
// share no commit have diverged.
func EvaluateSyncStatus(ctx context.Context, refs RefReader, remote, localBranch, remoteBranch string) (SyncStatus, error) {
	if remoteBranch == "" {
		remoteBranch = localBranch
	}
	remoteRef := RemoteRef(remote, remoteBranch)

	local, err := refs.GetRevision(ctx, localBranch)
	if err != nil {
		return StatusDiverged, err
	}
	remoteSha, err := refs.GetRevision(ctx, remoteRef)
	if err != nil {
		return StatusDiverged, err
	}

	if local == remoteSha {
		return StatusUpToDate, nil
	}

	base, err := refs.GetMergeBase(ctx, localBranch, remoteRef)
	if err != nil {
		return StatusDiverged, err
	}

	switch {
	case local == base:
		return StatusNeedPull, nil
	case remoteSha == base:
		return StatusNeedPush, nil
	default:
		return StatusDiverged, nil
	}
}

// Guard returns a DivergedError for StatusDiverged unless force is set.
// Every status other than diverged lets the caller continue.
func (s SyncStatus) Guard(localBranch, remoteRef string, force bool) error {
	if s == StatusDiverged && !force {
		return hubkiterrors.NewDivergedError(localBranch, remoteRef)
	}
	return nil
}
