package switchbase_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hubkit.dev/hubkit/internal/actions/switchbase"
	hubkiterrors "hubkit.dev/hubkit/internal/errors"
	"hubkit.dev/hubkit/internal/git"
	githubpkg "hubkit.dev/hubkit/internal/github"
	"hubkit.dev/hubkit/internal/runtime"
	"hubkit.dev/hubkit/internal/tui"
	"hubkit.dev/hubkit/testhelpers"
)

const tempBranch = "hubkit-switch-base--upstream--feature--2.0"

type fakePrompter struct {
	answers []bool
	err     error
	asked   []string
}

func (p *fakePrompter) Confirm(message string, _ bool) (bool, error) {
	p.asked = append(p.asked, message)
	if p.err != nil {
		return false, p.err
	}
	if len(p.answers) == 0 {
		return false, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type fixture struct {
	scene    *testhelpers.Scene
	github   *testhelpers.MockGitHubServerConfig
	prompter *fakePrompter
	ctx      *runtime.Context
	output   *bytes.Buffer
	marker   *switchbase.Marker
}

func newFixture(t *testing.T, setup testhelpers.SceneSetup) *fixture {
	t.Helper()
	scene := testhelpers.NewScene(t, testhelpers.ReleaseBranchesSceneSetup)
	if setup != nil {
		require.NoError(t, setup(scene))
	}

	runner, err := git.NewRealRunner(scene.Dir)
	require.NoError(t, err)

	output := &bytes.Buffer{}
	rc := runtime.NewContext(context.Background(), runner, tui.NewSplogWithWriter(output, true))
	rc.Remote = "upstream"

	prompter := &fakePrompter{}
	rc.Prompter = prompter

	gh := testhelpers.NewMockGitHubServerConfig()
	gh.AddPullRequest(1, "1.0", "feature", "")
	client, owner, repo := testhelpers.NewMockGitHubClient(t, gh)
	rc.SetGitHub(githubpkg.NewClient(client, owner, repo))

	return &fixture{
		scene:    scene,
		github:   gh,
		prompter: prompter,
		ctx:      rc,
		output:   output,
		marker:   switchbase.NewMarker(filepath.Join(scene.Dir, ".git")),
	}
}

func (f *fixture) requireRebasedOnto(t *testing.T, branch, newBase, oldBase string) {
	t.Helper()
	repo := f.scene.Repo
	require.NoError(t, repo.Fetch("upstream"))
	require.True(t, repo.IsAncestor("upstream/"+newBase, "upstream/"+branch), "%s is not based on %s", branch, newBase)
	require.False(t, repo.IsAncestor("upstream/"+oldBase, "upstream/"+branch), "%s still contains %s", branch, oldBase)
}

func TestSwitchBase(t *testing.T) {
	t.Run("fresh run rebases, pushes and updates the pull request", func(t *testing.T) {
		f := newFixture(t, nil)

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)

		require.Equal(t, tempBranch, result.TempBranch)
		require.False(t, result.Resumed)
		require.True(t, result.Rebased)
		require.True(t, result.LocalBranchExists)
		require.Len(t, result.Moved, 1)
		require.Equal(t, "feature", result.Moved[0].Subject)

		f.requireRebasedOnto(t, "feature", "2.0", "1.0")
		require.False(t, f.marker.Exists())
		require.Equal(t, "2.0", f.github.PRs[1].GetBase().GetRef())
		require.Empty(t, f.github.Comments[1])
		require.Empty(t, f.prompter.asked)

		current, err := f.scene.Repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "main", current)
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature"})

		require.Contains(t, f.output.String(), "was left untouched")
		require.Contains(t, f.output.String(), "Reset it with: git reset --hard upstream/feature")
	})

	t.Run("posts the reset comment when asked", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0", Comment: true})
		require.NoError(t, err)
		require.Equal(t, []string{switchbase.ResetComment("2.0", "upstream", "feature")}, f.github.Comments[1])
	})

	t.Run("detaches at the new base when started on a detached HEAD", func(t *testing.T) {
		f := newFixture(t, func(s *testhelpers.Scene) error {
			return s.Repo.CheckoutDetached("main")
		})

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)

		head, err := f.scene.Repo.GetRevision("HEAD")
		require.NoError(t, err)
		base, err := f.scene.Repo.GetRevision("upstream/2.0")
		require.NoError(t, err)
		require.Equal(t, base, head)
	})

	t.Run("moves a pull request from a fork", func(t *testing.T) {
		f := newFixture(t, func(s *testhelpers.Scene) error {
			if _, err := s.Repo.CreateBareRemote("contributor"); err != nil {
				return err
			}
			return s.Repo.PushBranch("contributor", "feature")
		})
		f.github.AddPullRequest(2, "1.0", "feature", "contributor")

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 2, NewBase: "2.0"})
		require.NoError(t, err)
		require.Equal(t, "hubkit-switch-base--contributor--feature--2.0", result.TempBranch)

		repo := f.scene.Repo
		require.NoError(t, repo.Fetch("contributor"))
		require.NoError(t, repo.Fetch("upstream"))
		require.True(t, repo.IsAncestor("upstream/2.0", "contributor/feature"))
		require.True(t, repo.IsAncestor("upstream/1.0", "upstream/feature"), "upstream copy must stay untouched")
	})
}

func TestSwitchBasePreconditions(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		newBase string
		prepare func(t *testing.T, f *fixture)
	}{
		{
			name:    "closed pull request",
			number:  1,
			newBase: "2.0",
			prepare: func(_ *testing.T, f *fixture) {
				f.github.PRs[1].State = githubString("closed")
			},
		},
		{
			name:    "same base",
			number:  1,
			newBase: "1.0",
		},
		{
			name:    "new base missing on the remote",
			number:  1,
			newBase: "9.9",
		},
		{
			name:    "dirty working tree",
			number:  1,
			newBase: "2.0",
			prepare: func(t *testing.T, f *fixture) {
				require.NoError(t, os.WriteFile(filepath.Join(f.scene.Dir, "wip.txt"), []byte("wip"), 0600))
			},
		},
		{
			name:    "missing number",
			number:  0,
			newBase: "2.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			if tt.prepare != nil {
				tt.prepare(t, f)
			}
			before := testhelpers.Must(f.scene.Repo.GetRevision("upstream/feature"))

			_, err := switchbase.Action(f.ctx, switchbase.Options{Number: tt.number, NewBase: tt.newBase})
			require.ErrorIs(t, err, hubkiterrors.ErrPrecondition)

			require.False(t, f.marker.Exists())
			testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature"})
			testhelpers.ExpectRemoteBranchAt(t, f.scene.Repo, "upstream", "feature", before)
			require.Empty(t, f.github.Edits[1])
		})
	}
}

func TestSwitchBaseRecovery(t *testing.T) {
	const otherTemp = "hubkit-switch-base--upstream--other--3.0"

	withOtherAttempt := func(s *testhelpers.Scene) error {
		if err := s.Repo.CreateBranch(otherTemp); err != nil {
			return err
		}
		return switchbase.NewMarker(filepath.Join(s.Dir, ".git")).Write(otherTemp)
	}

	t.Run("declining both choices leaves everything as it was", func(t *testing.T) {
		f := newFixture(t, withOtherAttempt)
		f.prompter.answers = []bool{false, false}
		before := testhelpers.Must(f.scene.Repo.GetRevision("upstream/feature"))

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.ErrorIs(t, err, hubkiterrors.ErrOperationPending)
		require.Contains(t, err.Error(), "Cannot perform switch while another operation is still pending")

		require.Len(t, f.prompter.asked, 2)
		recorded, err := f.marker.Read()
		require.NoError(t, err)
		require.Equal(t, otherTemp, recorded)
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature", otherTemp})
		testhelpers.ExpectRemoteBranchAt(t, f.scene.Repo, "upstream", "feature", before)
		require.Empty(t, f.github.Edits[1])
	})

	t.Run("prompts disabled count as declined", func(t *testing.T) {
		f := newFixture(t, withOtherAttempt)
		f.prompter.err = hubkiterrors.ErrInteractiveDisabled

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.ErrorIs(t, err, hubkiterrors.ErrOperationPending)
		require.True(t, f.marker.Exists())
	})

	t.Run("continuing an attempt for another pull request is refused", func(t *testing.T) {
		f := newFixture(t, withOtherAttempt)
		f.prompter.answers = []bool{false, true}

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.ErrorIs(t, err, hubkiterrors.ErrOperationPending)
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature", otherTemp})
	})

	t.Run("aborting discards the previous attempt and starts fresh", func(t *testing.T) {
		f := newFixture(t, withOtherAttempt)
		f.prompter.answers = []bool{true}

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)
		require.False(t, result.Resumed)
		require.Len(t, f.prompter.asked, 1)

		require.False(t, f.marker.Exists())
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature"})
		f.requireRebasedOnto(t, "feature", "2.0", "1.0")
	})

	t.Run("continuing after the temporary branch was deleted rebases again", func(t *testing.T) {
		f := newFixture(t, func(s *testhelpers.Scene) error {
			return switchbase.NewMarker(filepath.Join(s.Dir, ".git")).Write(tempBranch)
		})
		f.prompter.answers = []bool{false, true}

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)
		require.True(t, result.Resumed)
		require.True(t, result.Rebased)
		require.Len(t, f.prompter.asked, 2)

		require.False(t, f.marker.Exists())
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature"})
		f.requireRebasedOnto(t, "feature", "2.0", "1.0")
	})

	t.Run("diverged temporary branch is pushed without rebasing again", func(t *testing.T) {
		f := newFixture(t, func(s *testhelpers.Scene) error {
			// A finished rebase left on the temporary branch
			if err := s.Repo.RunGitCommand("checkout", "-b", tempBranch, "feature"); err != nil {
				return err
			}
			if err := s.Repo.RunGitCommand("rebase", "--onto", "2.0", "1.0", tempBranch); err != nil {
				return err
			}
			return switchbase.NewMarker(filepath.Join(s.Dir, ".git")).Write(tempBranch)
		})
		rebased := testhelpers.Must(f.scene.Repo.GetRevision(tempBranch))

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)
		require.True(t, result.Resumed)
		require.False(t, result.Rebased)
		require.Empty(t, f.prompter.asked)

		testhelpers.ExpectRemoteBranchAt(t, f.scene.Repo, "upstream", "feature", rebased)
		require.False(t, f.marker.Exists())
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature"})
		require.Equal(t, "2.0", f.github.PRs[1].GetBase().GetRef())
	})

	t.Run("temporary branch without progress is rebased again", func(t *testing.T) {
		f := newFixture(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.RunGitCommand("checkout", "-b", tempBranch, "feature"); err != nil {
				return err
			}
			return switchbase.NewMarker(filepath.Join(s.Dir, ".git")).Write(tempBranch)
		})

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)
		require.True(t, result.Resumed)
		require.True(t, result.Rebased)

		f.requireRebasedOnto(t, "feature", "2.0", "1.0")
		require.False(t, f.marker.Exists())
	})
}

func TestSwitchBaseFailures(t *testing.T) {
	conflicting := func(s *testhelpers.Scene) error {
		repo := s.Repo
		for _, step := range []func() error{
			func() error { return repo.CheckoutBranch("2.0") },
			func() error { return repo.CreateChangeAndCommit("two", "shared") },
			func() error { return repo.PushBranch("upstream", "2.0") },
			func() error { return repo.CheckoutBranch("feature") },
			func() error { return repo.CreateChangeAndCommit("feature", "shared") },
			func() error { return repo.PushBranch("upstream", "feature") },
			func() error { return repo.CheckoutBranch("main") },
		} {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	}

	t.Run("rebase conflict keeps the marker and resumes after resolution", func(t *testing.T) {
		f := newFixture(t, conflicting)
		before := testhelpers.Must(f.scene.Repo.GetRevision("upstream/feature"))

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.ErrorIs(t, err, hubkiterrors.ErrRebaseConflict)
		require.Contains(t, err.Error(), "git rebase --continue")
		require.Contains(t, err.Error(), "Do NOT push")

		require.True(t, f.scene.Repo.RebaseInProgress())
		recorded, err := f.marker.Read()
		require.NoError(t, err)
		require.Equal(t, tempBranch, recorded)
		testhelpers.ExpectRemoteBranchAt(t, f.scene.Repo, "upstream", "feature", before)

		require.NoError(t, f.scene.Repo.ResolveConflictsWithTheirs())

		result, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.NoError(t, err)
		require.True(t, result.Resumed)
		require.False(t, result.Rebased)

		f.requireRebasedOnto(t, "feature", "2.0", "1.0")
		require.False(t, f.marker.Exists())
		testhelpers.ExpectBranches(t, f.scene.Repo, []string{"main", "1.0", "2.0", "feature"})
	})

	t.Run("rejected push keeps the marker", func(t *testing.T) {
		f := newFixture(t, func(s *testhelpers.Scene) error {
			return testhelpers.InstallHook(s.Dir+"-upstream.git", "pre-receive", "#!/bin/sh\nexit 1\n")
		})
		before := testhelpers.Must(f.scene.Repo.GetRevision("upstream/feature"))

		_, err := switchbase.Action(f.ctx, switchbase.Options{Number: 1, NewBase: "2.0"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to push feature")

		require.True(t, f.marker.Exists())
		exists, err := f.ctx.Git.BranchExists(tempBranch)
		require.NoError(t, err)
		require.True(t, exists)
		testhelpers.ExpectRemoteBranchAt(t, f.scene.Repo, "upstream", "feature", before)
		require.Empty(t, f.github.Edits[1])
	})
}

func TestTempBranchName(t *testing.T) {
	require.Equal(t, tempBranch, switchbase.TempBranchName("upstream", "feature", "2.0"))
	require.Equal(t, "hubkit-switch-base--upstream--fix-login--release-2.x",
		switchbase.TempBranchName("upstream", "fix/login", "release/2.x"))
}

func TestResetComment(t *testing.T) {
	require.Equal(t,
		"The base branch of this pull request was changed to `2.0`. Please reset your local branch (`git fetch && git reset --hard upstream/feature`) before pushing new commits.",
		switchbase.ResetComment("2.0", "upstream", "feature"))
}

func githubString(s string) *string {
	return &s
}
