// Package githubapi provides the GitHub collaborator client for
// stride-action: PR file listings, issue bodies, repository trees and
// comment publishing.
package githubapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v71/github"
)

// Client wraps the GitHub API for a single repository.
type Client struct {
	gh       *github.Client
	owner    string
	repo     string
	fullName string
}

// ChangedFile is one file changed in a pull request, in the order the API
// reports it.
type ChangedFile struct {
	Filename  string
	Status    string // added, modified, renamed, removed
	Additions int
	Deletions int
	Patch     string // empty for binary files
}

// TreeEntry is one tracked blob in the repository tree.
type TreeEntry struct {
	Path string
	Size int
}

// PullRequest carries the PR metadata the action consumes.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	HeadSHA string
	HeadRef string
	BaseRef string
	Author  string
	HTMLURL string
}

// RepoInfo carries repository metadata needed before analysis.
type RepoInfo struct {
	FullName      string
	Private       bool
	DefaultBranch string
	HTMLURL       string
}

// New creates a client for the "owner/repo" repository. An empty baseURL
// targets github.com; a non-empty one targets a GitHub Enterprise API root.
func New(token, repository, baseURL string) (*Client, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", repository)
	}

	gh := github.NewClient(nil).WithAuthToken(token)
	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", baseURL, err)
		}
	}

	return &Client{
		gh:       gh,
		owner:    owner,
		repo:     repo,
		fullName: repository,
	}, nil
}

// SetBaseURL points the client at a custom API root. Used in tests.
func (c *Client) SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c.gh.BaseURL = u
	return nil
}

// FullName returns the "owner/repo" identifier.
func (c *Client) FullName() string {
	return c.fullName
}

// GetRepoInfo retrieves repository metadata.
func (c *Client) GetRepoInfo(ctx context.Context) (*RepoInfo, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s: %w", c.fullName, err)
	}
	return &RepoInfo{
		FullName:      repo.GetFullName(),
		Private:       repo.GetPrivate(),
		DefaultBranch: repo.GetDefaultBranch(),
		HTMLURL:       repo.GetHTMLURL(),
	}, nil
}

// ListPRFiles lists the files changed in a pull request, preserving the
// API's ordering across pages. Removed files are dropped; there is nothing
// left to analyze in them.
func (c *Client) ListPRFiles(ctx context.Context, prNumber int) ([]ChangedFile, error) {
	var files []ChangedFile
	opts := &github.ListOptions{PerPage: 100}

	for {
		page, resp, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list files for PR #%d: %w", prNumber, err)
		}
		for _, f := range page {
			if f.GetStatus() == "removed" {
				continue
			}
			files = append(files, ChangedFile{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

// GetPullRequest retrieves pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get PR #%d: %w", number, err)
	}
	return &PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		HeadSHA: pr.GetHead().GetSHA(),
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
		Author:  pr.GetUser().GetLogin(),
		HTMLURL: pr.GetHTMLURL(),
	}, nil
}

// GetIssueBody retrieves an issue's description body. A nil body resolves
// to the empty string.
func (c *Client) GetIssueBody(ctx context.Context, number int) (string, error) {
	issue, _, err := c.gh.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return "", fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	return issue.GetBody(), nil
}

// GetFileContent retrieves a file's decoded content at a ref.
func (c *Client) GetFileContent(ctx context.Context, path, ref string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, opts)
	if err != nil {
		return "", fmt.Errorf("failed to get contents of %s@%s: %w", path, ref, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s@%s is not a file", path, ref)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode contents of %s@%s: %w", path, ref, err)
	}
	return content, nil
}

// ListTree lists every tracked blob at a ref, recursively.
func (c *Client) ListTree(ctx context.Context, ref string) ([]TreeEntry, error) {
	tree, _, err := c.gh.Git.GetTree(ctx, c.owner, c.repo, ref, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get tree at %s: %w", ref, err)
	}

	var entries []TreeEntry
	for _, e := range tree.Entries {
		if e.GetType() != "blob" {
			continue
		}
		entries = append(entries, TreeEntry{
			Path: e.GetPath(),
			Size: e.GetSize(),
		})
	}
	return entries, nil
}

// CreateComment posts a comment on an issue or pull request and returns
// its URL. GitHub exposes PR conversation comments through the issues
// endpoint, so one call serves both targets.
func (c *Client) CreateComment(ctx context.Context, number int, body string) (string, error) {
	comment, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number,
		&github.IssueComment{Body: github.Ptr(body)})
	if err != nil {
		return "", fmt.Errorf("failed to create comment on #%d: %w", number, err)
	}
	return comment.GetHTMLURL(), nil
}
