package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. Useful for test setup code.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	sort.Strings(branches)
	sorted := append([]string{}, expected...)
	sort.Strings(sorted)

	require.Equal(t, sorted, branches, "Branches do not match")
}

// ExpectRemoteBranchAt asserts that remote/branch points at sha after a fetch.
func ExpectRemoteBranchAt(t *testing.T, repo *GitRepo, remote, branch, sha string) {
	t.Helper()

	require.NoError(t, repo.Fetch(remote))
	got, err := repo.GetRevision(remote + "/" + branch)
	require.NoError(t, err)
	require.Equal(t, sha, got, "%s/%s moved", remote, branch)
}
