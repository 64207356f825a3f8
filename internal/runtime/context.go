package runtime

import (
	"context"
	"fmt"

	"hubkit.dev/hubkit/internal/config"
	"hubkit.dev/hubkit/internal/git"
	"hubkit.dev/hubkit/internal/github"
	"hubkit.dev/hubkit/internal/tui"
)

// GitHubFactory creates the gateway on first use
type GitHubFactory func(ctx context.Context) (github.Client, error)

// Context provides access to the repository, configuration and output for commands
type Context struct {
	Context context.Context

	Git      git.Runner
	Config   *config.Tree
	Local    *config.LocalTree
	Splog    *tui.Splog
	Prompter tui.Prompter
	RepoRoot string

	// Remote is the remote of the main repository
	Remote string
	// Repo identifies the main repository on its host
	Repo *github.RepoInfo

	github        github.Client
	githubFactory GitHubFactory
}

// NewContext creates a context around an already opened runner
func NewContext(ctx context.Context, runner git.Runner, splog *tui.Splog) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context:  ctx,
		Git:      runner,
		Config:   &config.Tree{},
		Splog:    splog,
		Prompter: tui.NewPrompter(),
		RepoRoot: runner.RepoRoot(),
	}
}

// SetGitHub sets the gateway directly
func (c *Context) SetGitHub(client github.Client) {
	c.github = client
}

// SetGitHubFactory defers gateway creation until GitHub is first called
func (c *Context) SetGitHubFactory(factory GitHubFactory) {
	c.githubFactory = factory
}

// GitHub returns the gateway, creating it on first use
func (c *Context) GitHub() (github.Client, error) {
	if c.github != nil {
		return c.github, nil
	}
	if c.githubFactory == nil {
		return nil, fmt.Errorf("no GitHub client configured")
	}
	client, err := c.githubFactory(c.Context)
	if err != nil {
		return nil, err
	}
	c.github = client
	return client, nil
}

// ResolveBranch resolves the configuration of branchName for this repository,
// using the local override when the checkout carries one
func (c *Context) ResolveBranch(branchName string) (*config.BranchConfig, error) {
	host, repository := "", ""
	if c.Repo != nil {
		host, repository = c.Repo.Hostname, c.Repo.FullName()
	}
	return config.ResolveWithLocal(c.Config, c.Local, host, repository, branchName)
}

// Options controls GetContext
type Options struct {
	// Dir is any directory inside the repository; empty means the working directory
	Dir string
	// ConfigPath overrides config.DefaultConfigPath
	ConfigPath string
	// Remote overrides the configured main remote
	Remote string
	// Splog receives output; nil creates a logger with the default log file
	Splog *tui.Splog
}

// GetContext opens the repository, loads the configuration tree and the
// local override, and identifies the main repository from its remote URL.
func GetContext(ctx context.Context, opts Options) (*Context, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if _, err := git.GetRepoRoot(dir); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	runner, err := git.NewRealRunner(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	splog := opts.Splog
	if splog == nil {
		splog, err = tui.NewSplogWithConfig(tui.GetLogFilePath())
		if err != nil {
			splog = tui.NewSplog()
		}
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	tree, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	rc := NewContext(ctx, runner, splog)
	rc.Config = tree

	rc.Remote, err = resolveRemote(ctx, runner, opts.Remote, tree)
	if err != nil {
		return nil, err
	}
	splog.Debug("using remote %s", rc.Remote)

	rc.Local, err = config.LoadLocal(runner, rc.Remote)
	if err != nil {
		return nil, fmt.Errorf("failed to load local configuration: %w", err)
	}

	rc.Repo, err = identifyRepository(ctx, runner, rc.Remote)
	if err != nil {
		// Commands that never talk to GitHub still work, the gateway reports the problem
		splog.Debug("%v", err)
		repoErr := err
		rc.SetGitHubFactory(func(context.Context) (github.Client, error) {
			return nil, repoErr
		})
		return rc, nil
	}

	info := rc.Repo
	host := tree.Host(info.Hostname)
	rc.SetGitHubFactory(func(ctx context.Context) (github.Client, error) {
		return github.NewClientForRepo(ctx, info, github.ClientOptions{
			Token:  host.APIToken,
			APIURL: host.APIURL,
		})
	})

	return rc, nil
}

func identifyRepository(ctx context.Context, runner git.Runner, remote string) (*github.RepoInfo, error) {
	remoteURL, err := runner.GetRemoteURL(ctx, remote)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL of remote %s: %w", remote, err)
	}
	info, err := github.ParseGitHubRemoteURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("remote %s is not a GitHub repository: %w", remote, err)
	}
	return info, nil
}

// resolveRemote picks the explicit remote, then the configured one. When
// neither is set and the default remote is missing, origin is used.
func resolveRemote(ctx context.Context, runner git.Runner, explicit string, tree *config.Tree) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if tree.Remote != "" {
		return tree.Remote, nil
	}

	exists, err := runner.RemoteExists(ctx, config.DefaultRemote)
	if err != nil {
		return "", err
	}
	if exists {
		return config.DefaultRemote, nil
	}
	return "origin", nil
}
