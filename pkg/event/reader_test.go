package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stride-gpt/stride-action/pkg/errors"
)

func writeEventFile(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_MissingEventName(t *testing.T) {
	t.Setenv("GITHUB_EVENT_NAME", "")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")

	_, err := Read()
	if !errors.IsType(err, errors.ErrContext) {
		t.Errorf("error = %v, want context error", err)
	}
}

func TestRead_MissingRepository(t *testing.T) {
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_REPOSITORY", "")

	_, err := Read()
	if !errors.IsType(err, errors.ErrContext) {
		t.Errorf("error = %v, want context error", err)
	}
}

func TestRead_WorkflowDispatchWithoutPayload(t *testing.T) {
	// Optional fields absent must not error; they resolve to zero values.
	t.Setenv("GITHUB_EVENT_NAME", "workflow_dispatch")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GITHUB_REF_NAME", "main")
	t.Setenv("GITHUB_EVENT_PATH", "")

	ev, err := Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ev.Name != WorkflowDispatch {
		t.Errorf("Name = %s, want workflow_dispatch", ev.Name)
	}
	if ev.CommentBody != "" || ev.PRNumber != 0 {
		t.Errorf("optional fields not zero: %+v", ev)
	}
}

func TestRead_IssueCommentOnPR(t *testing.T) {
	path := writeEventFile(t, `{
		"action": "created",
		"comment": {"body": "@stride-gpt analyze", "user": {"login": "alice"}},
		"issue": {
			"number": 12,
			"body": "PR description",
			"pull_request": {"url": "https://api.github.com/repos/owner/repo/pulls/12"}
		},
		"repository": {"full_name": "owner/repo", "default_branch": "main"}
	}`)

	t.Setenv("GITHUB_EVENT_NAME", "issue_comment")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GITHUB_EVENT_PATH", path)

	ev, err := Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !ev.IsPullRequestComment {
		t.Error("IsPullRequestComment = false, want true")
	}
	if ev.PRNumber != 12 || ev.IssueNumber != 12 {
		t.Errorf("numbers = %d/%d, want 12/12", ev.PRNumber, ev.IssueNumber)
	}
	if ev.CommentBody != "@stride-gpt analyze" {
		t.Errorf("CommentBody = %q", ev.CommentBody)
	}
	if ev.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want main", ev.DefaultBranch)
	}
}

func TestRead_IssueCommentOnPlainIssue(t *testing.T) {
	path := writeEventFile(t, `{
		"action": "created",
		"comment": {"body": "@stride-gpt analyze"},
		"issue": {"number": 7, "body": "Add a login endpoint"},
		"repository": {"full_name": "owner/repo", "default_branch": "main"}
	}`)

	t.Setenv("GITHUB_EVENT_NAME", "issue_comment")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GITHUB_EVENT_PATH", path)

	ev, err := Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ev.IsPullRequestComment {
		t.Error("IsPullRequestComment = true, want false")
	}
	if ev.PRNumber != 0 {
		t.Errorf("PRNumber = %d, want 0 for plain issue", ev.PRNumber)
	}
	if ev.IssueBody != "Add a login endpoint" {
		t.Errorf("IssueBody = %q", ev.IssueBody)
	}
}

func TestRead_PullRequestEvent(t *testing.T) {
	path := writeEventFile(t, `{
		"action": "synchronize",
		"pull_request": {"number": 42, "body": "PR body"},
		"repository": {"full_name": "owner/repo", "default_branch": "develop"}
	}`)

	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GITHUB_EVENT_PATH", path)

	ev, err := Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if ev.Name != PullRequest || ev.Action != "synchronize" {
		t.Errorf("event = %s/%s, want pull_request/synchronize", ev.Name, ev.Action)
	}
	if ev.PRNumber != 42 {
		t.Errorf("PRNumber = %d, want 42", ev.PRNumber)
	}
}

func TestRead_MalformedPayload(t *testing.T) {
	path := writeEventFile(t, `{not json`)

	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_REPOSITORY", "owner/repo")
	t.Setenv("GITHUB_EVENT_PATH", path)

	_, err := Read()
	if !errors.IsType(err, errors.ErrContext) {
		t.Errorf("error = %v, want context error", err)
	}
}

func TestAnalysisRef(t *testing.T) {
	ev := &TriggerEvent{Ref: "feature", DefaultBranch: "main"}
	if got := ev.AnalysisRef(); got != "main" {
		t.Errorf("AnalysisRef() = %q, want main", got)
	}

	ev = &TriggerEvent{Ref: "feature"}
	if got := ev.AnalysisRef(); got != "feature" {
		t.Errorf("AnalysisRef() = %q, want feature", got)
	}
}
