package event

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stride-gpt/stride-action/pkg/errors"
)

// eventPayload mirrors the subset of the GitHub webhook payload the action
// consumes. Field presence varies by event type; everything is optional
// except what Read validates explicitly.
type eventPayload struct {
	Action string `json:"action"`

	Comment struct {
		Body string `json:"body"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"comment"`

	Issue struct {
		Number int    `json:"number"`
		Body   string `json:"body"`
		// PullRequest is non-nil when the issue is actually a PR. Only its
		// presence matters.
		PullRequest *struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	} `json:"issue"`

	PullRequest struct {
		Number int    `json:"number"`
		Body   string `json:"body"`
	} `json:"pull_request"`

	Repository struct {
		FullName      string `json:"full_name"`
		DefaultBranch string `json:"default_branch"`
	} `json:"repository"`

	Sender struct {
		Login string `json:"login"`
	} `json:"sender"`
}

// Read produces the TriggerEvent for this run from the GitHub Actions
// environment: GITHUB_EVENT_NAME, GITHUB_REPOSITORY and the JSON payload
// at GITHUB_EVENT_PATH. Missing repository identity or event name is a
// context error; absent optional fields resolve to zero values.
func Read() (*TriggerEvent, error) {
	name := os.Getenv("GITHUB_EVENT_NAME")
	if name == "" {
		return nil, errors.ContextError("GITHUB_EVENT_NAME not found in environment", nil)
	}

	repo := os.Getenv("GITHUB_REPOSITORY")
	if repo == "" {
		return nil, errors.ContextError("GITHUB_REPOSITORY not found in environment", nil)
	}

	ev := &TriggerEvent{
		Name:       Name(name),
		Repository: repo,
		Ref:        os.Getenv("GITHUB_REF_NAME"),
		Actor:      os.Getenv("GITHUB_ACTOR"),
	}

	path := os.Getenv("GITHUB_EVENT_PATH")
	if path == "" {
		// workflow_dispatch runs can legitimately arrive without a payload
		// file; everything the payload would carry is optional there.
		return ev, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ContextError(fmt.Sprintf("failed to read event payload: %s", path), err)
	}

	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.ContextError("failed to parse event payload", err)
	}

	applyPayload(ev, &payload)
	return ev, nil
}

// applyPayload copies the payload fields relevant to the event type.
func applyPayload(ev *TriggerEvent, payload *eventPayload) {
	ev.Action = payload.Action
	if payload.Repository.DefaultBranch != "" {
		ev.DefaultBranch = payload.Repository.DefaultBranch
	}
	if payload.Sender.Login != "" {
		ev.Actor = payload.Sender.Login
	}

	switch ev.Name {
	case IssueComment:
		ev.CommentBody = payload.Comment.Body
		ev.IssueNumber = payload.Issue.Number
		ev.IssueBody = payload.Issue.Body
		ev.IsPullRequestComment = payload.Issue.PullRequest != nil
		if ev.IsPullRequestComment {
			ev.PRNumber = payload.Issue.Number
		}
	case PullRequest:
		ev.PRNumber = payload.PullRequest.Number
		ev.IssueBody = payload.PullRequest.Body
	}
}
