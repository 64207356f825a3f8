package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	mu sync.Mutex

	// PRs maps numbers to pull requests served by GET and updated by PATCH
	PRs map[int]*github.PullRequest
	// Comments records comment bodies posted per pull request number
	Comments map[int][]string
	// Edits records every PATCH body per pull request number
	Edits map[int][]map[string]interface{}
	// FailEdits makes PATCH requests fail with 422
	FailEdits bool
	// Owner and Repo for the mock server
	Owner string
	Repo  string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		PRs:      make(map[int]*github.PullRequest),
		Comments: make(map[int][]string),
		Edits:    make(map[int][]map[string]interface{}),
		Owner:    "owner",
		Repo:     "repo",
	}
}

// AddPullRequest registers a pull request from base/head branch names.
// A non-empty headOwner places the head branch in a fork owned by that user
func (c *MockGitHubServerConfig) AddPullRequest(number int, base, head, headOwner string) *github.PullRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	baseRepo := c.Owner + "/" + c.Repo
	headRepo := baseRepo
	headUser := c.Owner
	if headOwner != "" {
		headRepo = headOwner + "/" + c.Repo
		headUser = headOwner
	}

	pr := &github.PullRequest{
		Number:  github.Int(number),
		State:   github.String("open"),
		Title:   github.String("Pull request " + strconv.Itoa(number)),
		HTMLURL: github.String("https://github.com/" + baseRepo + "/pull/" + strconv.Itoa(number)),
		Base: &github.PullRequestBranch{
			Ref:  github.String(base),
			User: &github.User{Login: github.String(c.Owner)},
			Repo: &github.Repository{FullName: github.String(baseRepo), SSHURL: github.String("git@github.com:" + baseRepo + ".git")},
		},
		Head: &github.PullRequestBranch{
			Ref:  github.String(head),
			User: &github.User{Login: github.String(headUser)},
			Repo: &github.Repository{FullName: github.String(headRepo), SSHURL: github.String("git@github.com:" + headRepo + ".git")},
		},
	}
	c.PRs[number] = pr
	return pr
}

// NewMockGitHubServer creates an httptest server for the pull request and
// issue comment endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()
	prefix := "/repos/" + config.Owner + "/" + config.Repo

	mux.HandleFunc("GET "+prefix+"/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		number, _ := strconv.Atoi(r.PathValue("number"))

		config.mu.Lock()
		pr, ok := config.PRs[number]
		config.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, pr)
	})

	mux.HandleFunc("PATCH "+prefix+"/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		number, _ := strconv.Atoi(r.PathValue("number"))

		var update map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}

		config.mu.Lock()
		defer config.mu.Unlock()

		config.Edits[number] = append(config.Edits[number], update)
		if config.FailEdits {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"})
			return
		}

		pr, ok := config.PRs[number]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		// The API sends base as a plain branch name
		if base, ok := update["base"].(string); ok {
			baseCopy := *pr.Base
			baseCopy.Ref = github.String(base)
			pr.Base = &baseCopy
		}
		if title, ok := update["title"].(string); ok {
			pr.Title = github.String(title)
		}
		writeJSON(w, http.StatusOK, pr)
	})

	mux.HandleFunc("POST "+prefix+"/issues/{number}/comments", func(w http.ResponseWriter, r *http.Request) {
		number, _ := strconv.Atoi(r.PathValue("number"))

		var comment github.IssueComment
		if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}

		config.mu.Lock()
		config.Comments[number] = append(config.Comments[number], comment.GetBody())
		id := int64(len(config.Comments[number]))
		config.mu.Unlock()

		comment.ID = github.Int64(id)
		writeJSON(w, http.StatusCreated, comment)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	t.Helper()
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL

	return client, config.Owner, config.Repo
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
