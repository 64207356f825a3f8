package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hubkit.dev/hubkit/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m)
}

const githubURL = "git@github.com:owner/repo.git"

func TestVersion(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	result := scene.RunCLI(t, "--version")
	require.Equal(t, 0, result.ExitCode, result.Output)
	require.Contains(t, result.Output, "hubkit version dev")
}

func TestBranchConfigCommand(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.ReleaseBranchesSceneSetup)
	require.NoError(t, scene.Repo.UseGitHubURL("upstream", githubURL))
	scene.WriteConfig(t, `
repositories:
  github.com:
    owner/repo:
      branches:
        ":default": {sync-tags: false}
        "1.x": {maintained: false}
`)

	t.Run("current branch", func(t *testing.T) {
		result := scene.RunCLI(t, "branch-config")
		require.Equal(t, 0, result.ExitCode, result.Output)
		require.Contains(t, result.Output, "Branch:         main")
		require.Contains(t, result.Output, "Matched:        :default")
	})

	t.Run("named branch", func(t *testing.T) {
		result := scene.RunCLI(t, "branch-config", "1.0")
		require.Equal(t, 0, result.ExitCode, result.Output)
		require.Contains(t, result.Output, "Matched:        1.x")
		require.Contains(t, result.Output, "maintained:     no")
	})
}

func TestConfigValidateCommand(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	t.Run("valid", func(t *testing.T) {
		scene.WriteConfig(t, "repositories: {github.com: {owner/repo: {branches: {main: {}}}}}\n")
		result := scene.RunCLI(t, "config", "validate")
		require.Equal(t, 0, result.ExitCode, result.Output)
		require.Contains(t, result.Output, "is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		scene.WriteConfig(t, `
repositories:
  github.com:
    owner/repo:
      branches:
        /^1\.0$/: {}
`)
		result := scene.RunCLI(t, "config", "validate")
		require.NotEqual(t, 0, result.ExitCode)
		require.Contains(t, result.Output, "anchors")
		require.Contains(t, result.Output, "1 issue(s)")
	})
}

func TestSyncCommands(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.ReleaseBranchesSceneSetup)

	result := scene.RunCLI(t, "sync-status")
	require.Equal(t, 0, result.ExitCode, result.Output)
	require.Contains(t, result.Output, "main: up-to-date (upstream/main)")

	require.NoError(t, scene.Repo.CreateChangeAndCommit("local", "local"))

	result = scene.RunCLI(t, "sync-status")
	require.Equal(t, 0, result.ExitCode, result.Output)
	require.Contains(t, result.Output, "main: need-push (upstream/main)")

	result = scene.RunCLI(t, "sync", "--dry-run")
	require.Equal(t, 0, result.ExitCode, result.Output)
	require.Contains(t, result.Output, "nothing was changed")

	result = scene.RunCLI(t, "--quiet", "sync")
	require.Equal(t, 0, result.ExitCode, result.Output)
	require.NotContains(t, result.Output, "Pushing")

	result = scene.RunCLI(t, "sync-status", "-q")
	require.Equal(t, 0, result.ExitCode, result.Output)
	require.Contains(t, result.Output, "main: up-to-date (upstream/main)")
}

func TestSwitchBaseCommand(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.ReleaseBranchesSceneSetup)
	require.NoError(t, scene.Repo.UseGitHubURL("upstream", githubURL))

	gh := testhelpers.NewMockGitHubServerConfig()
	gh.AddPullRequest(1, "1.0", "feature", "")
	server := testhelpers.NewMockGitHubServer(t, gh)
	scene.WriteConfig(t, "github:\n  github.com:\n    api-token: secret\n    api-url: "+server.URL+"\n")

	t.Run("invalid number", func(t *testing.T) {
		result := scene.RunCLI(t, "switch-base", "one", "2.0")
		require.NotEqual(t, 0, result.ExitCode)
		require.Contains(t, result.Output, `invalid pull request number "one"`)
	})

	t.Run("unknown pull request", func(t *testing.T) {
		result := scene.RunCLI(t, "switch-base", "99", "2.0")
		require.NotEqual(t, 0, result.ExitCode)
	})

	t.Run("moves the pull request", func(t *testing.T) {
		result := scene.RunCLI(t, "switch-base", "#1", "2.0")
		require.Equal(t, 0, result.ExitCode, result.Output)
		require.Contains(t, result.Output, "now targets")

		require.Equal(t, "2.0", gh.PRs[1].GetBase().GetRef())
		require.NoError(t, scene.Repo.Fetch("upstream"))
		require.True(t, scene.Repo.IsAncestor("upstream/2.0", "upstream/feature"))
		require.False(t, scene.Repo.IsAncestor("upstream/1.0", "upstream/feature"))
	})
}
