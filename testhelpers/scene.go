// Package testhelpers provides testing utilities for hubkit, including a
// scene system, Git repository helpers, a mock GitHub server and custom assertions.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir        string
	Repo       *GitRepo
	ConfigPath string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a repository in a temporary directory. The hubkit
// configuration, log file and prompts are pointed at the scene so tests never
// touch the user's environment.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	root := t.TempDir()

	repo, err := NewGitRepo(filepath.Join(root, "repo"))
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:        repo.Dir,
		Repo:       repo,
		ConfigPath: filepath.Join(root, "config.yml"),
	}

	t.Setenv("HUBKIT_CONFIG", scene.ConfigPath)
	t.Setenv("HUBKIT_LOG_FILE", filepath.Join(root, "hubkit.log"))
	t.Setenv("HUBKIT_NO_INTERACTIVE", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", "/dev/null")
	t.Setenv("GIT_EDITOR", "true")

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// WriteConfig writes the global hubkit configuration of the scene.
func (s *Scene) WriteConfig(t *testing.T, contents string) {
	t.Helper()
	if err := os.WriteFile(s.ConfigPath, []byte(contents), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// ReleaseBranchesSceneSetup creates main, the release branches 1.0 and 2.0
// and a feature branch on top of 1.0, all pushed to a bare "upstream" remote.
// The current branch is main.
func ReleaseBranchesSceneSetup(scene *Scene) error {
	repo := scene.Repo
	steps := []func() error{
		func() error { return repo.CreateChangeAndCommit("init", "init") },
		func() error { return repo.CreateAndCheckoutBranch("1.0") },
		func() error { return repo.CreateChangeAndCommit("one", "one") },
		func() error { return repo.CheckoutBranch("main") },
		func() error { return repo.CreateAndCheckoutBranch("2.0") },
		func() error { return repo.CreateChangeAndCommit("two", "two") },
		func() error { return repo.CheckoutBranch("1.0") },
		func() error { return repo.CreateAndCheckoutBranch("feature") },
		func() error { return repo.CreateChangeAndCommit("feature", "feature") },
		func() error { return repo.CheckoutBranch("main") },
		func() error { _, err := repo.CreateBareRemote("upstream"); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	for _, branch := range []string{"main", "1.0", "2.0", "feature"} {
		if err := repo.PushBranch("upstream", branch); err != nil {
			return err
		}
	}
	return nil
}
