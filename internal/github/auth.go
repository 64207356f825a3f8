package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// ClientOptions configures NewClientForRepo
type ClientOptions struct {
	// Token overrides token discovery
	Token string
	// APIURL overrides the REST endpoint derived from the hostname
	APIURL string
}

// NewClientForRepo creates an authenticated Client for the repository
// described by info.
func NewClientForRepo(ctx context.Context, info *RepoInfo, opts ClientOptions) (*RealClient, error) {
	token := opts.Token
	if token == "" {
		var err error
		token, err = getGitHubToken(ctx, info.Hostname)
		if err != nil {
			return nil, fmt.Errorf("failed to get GitHub token: %w", err)
		}
	}

	client, err := createGitHubClient(ctx, info.Hostname, opts.APIURL, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return NewClient(client, info.Owner, info.Repo), nil
}

// createGitHubClient creates a GitHub client configured for the given hostname
// Supports both github.com and GitHub Enterprise instances
func createGitHubClient(ctx context.Context, hostname, apiURL, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if apiURL == "" && hostname != "github.com" {
		// GitHub Enterprise REST API: https://hostname/api/v3/
		apiURL = fmt.Sprintf("https://%s/api/v3/", hostname)
	}
	if apiURL == "" {
		return client, nil
	}

	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API URL %s: %w", apiURL, err)
	}
	client.BaseURL = baseURL
	return client, nil
}

// getGitHubToken gets GitHub token from environment or gh CLI
func getGitHubToken(ctx context.Context, hostname string) (string, error) {
	// Try environment variable first
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	// Try gh CLI
	// nolint:gosec // hostname comes from the repository's own remote
	output, err := exec.CommandContext(ctx, "gh", "auth", "token", "--hostname", hostname).Output()
	if err != nil {
		return "", fmt.Errorf("set GITHUB_TOKEN, configure github.%s.api-token or log in with gh: %w", hostname, err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}
