package configcheck_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hubkit.dev/hubkit/internal/actions/configcheck"
	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/internal/tui"
	"hubkit.dev/hubkit/testhelpers"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestAction(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		out := &bytes.Buffer{}
		path := writeFile(t, "repositories: {github.com: {acme/app: {branches: {main: {upmerge: false}}}}}\n")

		result, err := configcheck.Action(tui.NewSplogWithWriter(out, false), configcheck.Options{Path: path})
		require.NoError(t, err)
		require.True(t, result.GlobalChecked)
		require.False(t, result.LocalChecked)
		require.Contains(t, out.String(), "is valid")
	})

	t.Run("every issue is printed", func(t *testing.T) {
		out := &bytes.Buffer{}
		path := writeFile(t, `
repositories:
  github.com:
    acme/app:
      branches:
        /^1\.0$/: {}
        ":default": {ignore-default: true}
`)

		result, err := configcheck.Action(tui.NewSplogWithWriter(out, false), configcheck.Options{Path: path})
		require.ErrorContains(t, err, "2 issue(s)")
		require.Len(t, result.Issues, 2)
		require.Contains(t, out.String(), "anchors")
		require.Contains(t, out.String(), "cannot be set on :default")
	})

	t.Run("unparseable file is an error", func(t *testing.T) {
		path := writeFile(t, "repositories: [\n")
		_, err := configcheck.Action(tui.NewSplogWithWriter(&bytes.Buffer{}, false), configcheck.Options{Path: path})
		require.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("missing file is reported but not an error", func(t *testing.T) {
		out := &bytes.Buffer{}
		result, err := configcheck.Action(tui.NewSplogWithWriter(out, false), configcheck.Options{Path: filepath.Join(t.TempDir(), "none.yml")})
		require.NoError(t, err)
		require.False(t, result.GlobalChecked)
		require.Contains(t, out.String(), "No configuration file")
	})

	t.Run("local override issues are included", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("init", "init"); err != nil {
				return err
			}
			if err := s.Repo.CreateAndCheckoutBranch("_hubkit"); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(s.Dir, "config.yml"), []byte("branches: {feature: {}}\n"), 0600); err != nil {
				return err
			}
			if err := s.Repo.RunGitCommand("add", "config.yml"); err != nil {
				return err
			}
			if err := s.Repo.RunGitCommand("commit", "-m", "config"); err != nil {
				return err
			}
			return s.Repo.CheckoutBranch("main")
		})
		runner, err := git.NewRealRunner(scene.Dir)
		require.NoError(t, err)

		out := &bytes.Buffer{}
		result, err := configcheck.Action(tui.NewSplogWithWriter(out, false), configcheck.Options{
			Path:  filepath.Join(t.TempDir(), "none.yml"),
			Local: runner,
		})
		require.Error(t, err)
		require.True(t, result.LocalChecked)
		require.Contains(t, out.String(), "branches.feature")
	})
}
