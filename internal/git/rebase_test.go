package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/testhelpers"
)

func newRunner(t *testing.T, scene *testhelpers.Scene) git.Runner {
	t.Helper()
	runner, err := git.NewRealRunner(scene.Dir)
	require.NoError(t, err)
	return runner
}

func TestRebase(t *testing.T) {
	t.Run("moves the commits after upstream onto another branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.ReleaseBranchesSceneSetup)
		runner := newRunner(t, scene)

		result, err := runner.Rebase(context.Background(), "2.0", "1.0", "feature")
		require.NoError(t, err)
		require.Equal(t, git.RebaseDone, result)

		current, err := scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "feature", current)
		require.True(t, scene.Repo.IsAncestor("2.0", "feature"))
		require.False(t, scene.Repo.IsAncestor("1.0", "feature"))
	})

	t.Run("leaves a conflicting rebase in progress", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial content", "conflict")
		})
		forkPoint := testhelpers.Must(scene.Repo.GetRevision("main"))

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("branch1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("branch1 modification", "conflict"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("main modification", "conflict"))

		runner := newRunner(t, scene)
		result, err := runner.Rebase(context.Background(), "main", forkPoint, "branch1")
		require.NoError(t, err)
		require.Equal(t, git.RebaseConflict, result)
		require.True(t, scene.Repo.RebaseInProgress())
	})

	t.Run("reports an unknown upstream as an error", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := newRunner(t, scene)

		_, err := runner.Rebase(context.Background(), "main", "does-not-exist", "main")
		require.Error(t, err)
		require.False(t, scene.Repo.RebaseInProgress())
	})
}

func TestCommitRange(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.ReleaseBranchesSceneSetup)
	runner := newRunner(t, scene)
	ctx := context.Background()

	t.Run("lists commits of the branch newest first", func(t *testing.T) {
		require.NoError(t, scene.Repo.CheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("second", "second"))
		t.Cleanup(func() { _ = scene.Repo.CheckoutBranch("main") })

		commits, err := runner.CommitRange(ctx, "1.0", "feature")
		require.NoError(t, err)
		require.Len(t, commits, 2)
		require.Equal(t, "second", commits[0].Subject)
		require.Equal(t, "feature", commits[1].Subject)
		require.Equal(t, testhelpers.Must(scene.Repo.GetRevision("feature")), commits[0].SHA)
		require.Contains(t, commits[0].Short(), " - second")
	})

	t.Run("remote-tracking refs resolve", func(t *testing.T) {
		commits, err := runner.CommitRange(ctx, "upstream/main", "upstream/2.0")
		require.NoError(t, err)
		require.Len(t, commits, 1)
		require.Equal(t, "two", commits[0].Subject)
	})

	t.Run("nothing when head is contained in base", func(t *testing.T) {
		commits, err := runner.CommitRange(ctx, "1.0", "main")
		require.NoError(t, err)
		require.Empty(t, commits)
	})

	t.Run("unknown revision", func(t *testing.T) {
		_, err := runner.CommitRange(ctx, "main", "nope")
		require.Error(t, err)
	})
}
