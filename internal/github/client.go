// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"
)

// PullRequestBranch is one side (base or head) of a pull request
type PullRequestBranch struct {
	Ref string
	SHA string
	// User is the login owning the branch's repository
	User string
	// Repo is the full name (owner/name) of the branch's repository
	Repo string
	// SSHURL is the clone URL of the branch's repository
	SSHURL string
}

// PullRequest contains the pull request fields the actions consume.
// This is a simplified struct to avoid coupling to go-github library
type PullRequest struct {
	Number  int
	HTMLURL string
	Title   string
	State   string
	Merged  bool
	Base    PullRequestBranch
	Head    PullRequestBranch
}

// IsOpen returns whether the pull request is open
func (p *PullRequest) IsOpen() bool {
	return strings.EqualFold(p.State, "open")
}

// IsFork returns whether the head branch lives in a different repository
func (p *PullRequest) IsFork() bool {
	return p.Head.Repo != "" && !strings.EqualFold(p.Head.Repo, p.Base.Repo)
}

// UpdatePROptions contains options for updating a pull request
type UpdatePROptions struct {
	Title *string
	Body  *string
	Base  *string
}

// Client is an interface for GitHub API interactions
type Client interface {
	// GetPullRequest fetches a pull request by number
	GetPullRequest(ctx context.Context, number int) (*PullRequest, error)

	// UpdatePullRequest updates an existing pull request
	UpdatePullRequest(ctx context.Context, number int, opts UpdatePROptions) error

	// CreateComment posts a comment on a pull request
	CreateComment(ctx context.Context, number int, body string) error

	// GetOwnerRepo returns the repository owner and name
	GetOwnerRepo() (owner, repo string)
}

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates a Client for owner/repo using an existing go-github client
func NewClient(client *github.Client, owner, repo string) *RealClient {
	return &RealClient{
		client: client,
		owner:  owner,
		repo:   repo,
	}
}

// GetOwnerRepo returns the repository owner and name
func (c *RealClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// GetPullRequest fetches a pull request by number
func (c *RealClient) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return toPullRequest(pr), nil
}

// UpdatePullRequest updates an existing pull request
func (c *RealClient) UpdatePullRequest(ctx context.Context, number int, opts UpdatePROptions) error {
	update := &github.PullRequest{}

	if opts.Title != nil {
		update.Title = opts.Title
	}
	if opts.Body != nil {
		update.Body = opts.Body
	}
	if opts.Base != nil {
		update.Base = &github.PullRequestBranch{
			Ref: opts.Base,
		}
	}

	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, update)
	if err != nil {
		return fmt.Errorf("failed to update pull request #%d: %w", number, err)
	}
	return nil
}

// CreateComment posts a comment on a pull request
func (c *RealClient) CreateComment(ctx context.Context, number int, body string) error {
	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to comment on pull request #%d: %w", number, err)
	}
	return nil
}

// toPullRequest converts a github.PullRequest to PullRequest
func toPullRequest(pr *github.PullRequest) *PullRequest {
	if pr == nil {
		return nil
	}

	return &PullRequest{
		Number:  pr.GetNumber(),
		HTMLURL: pr.GetHTMLURL(),
		Title:   pr.GetTitle(),
		State:   pr.GetState(),
		Merged:  pr.GetMerged(),
		Base:    toBranch(pr.GetBase()),
		Head:    toBranch(pr.GetHead()),
	}
}

func toBranch(branch *github.PullRequestBranch) PullRequestBranch {
	if branch == nil {
		return PullRequestBranch{}
	}
	return PullRequestBranch{
		Ref:    branch.GetRef(),
		SHA:    branch.GetSHA(),
		User:   branch.GetUser().GetLogin(),
		Repo:   branch.GetRepo().GetFullName(),
		SSHURL: branch.GetRepo().GetSSHURL(),
	}
}
