package git

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// goGitMu serializes object walks, go-git does not allow concurrent packfile access
var goGitMu sync.Mutex

// Commit is a short description of a commit
type Commit struct {
	SHA     string
	Subject string
}

// Short returns the abbreviated SHA followed by the subject
func (c Commit) Short() string {
	sha := c.SHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return fmt.Sprintf("%s - %s", sha, c.Subject)
}

// CommitRange returns the commits reachable from head but not from base
// (base..head), newest first.
func (r *realRunner) CommitRange(ctx context.Context, base, head string) ([]Commit, error) {
	baseSha, err := r.GetRevision(ctx, base)
	if err != nil {
		return nil, err
	}
	headSha, err := r.GetRevision(ctx, head)
	if err != nil {
		return nil, err
	}
	return r.repo.commitRange(plumbing.NewHash(baseSha), plumbing.NewHash(headSha))
}

func (r *Repository) commitRange(baseHash, headHash plumbing.Hash) ([]Commit, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	hidden, err := r.ancestors(baseHash)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	visited := map[plumbing.Hash]bool{}
	queue := []plumbing.Hash{headHash}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]
		if visited[hash] || hidden[hash] {
			continue
		}
		visited[hash] = true

		commit, err := r.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
		}
		commits = append(commits, Commit{SHA: hash.String(), Subject: subject(commit)})
		queue = append(queue, commit.ParentHashes...)
	}
	return commits, nil
}

func (r *Repository) ancestors(hash plumbing.Hash) (map[plumbing.Hash]bool, error) {
	start, err := r.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}

	seen := map[plumbing.Hash]bool{}
	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history of %s: %w", hash, err)
	}
	return seen, nil
}

func subject(commit *object.Commit) string {
	return strings.TrimSpace(strings.Split(strings.TrimSpace(commit.Message), "\n")[0])
}
