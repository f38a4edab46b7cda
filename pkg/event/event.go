// Package event reads the triggering GitHub Actions event into a typed
// TriggerEvent. Ambient event data is loosely typed; it is parsed exactly
// once here, at the boundary, with all optionality made explicit.
package event

// Name identifies the GitHub event that started the run.
type Name string

const (
	// WorkflowDispatch is a manually dispatched workflow run.
	WorkflowDispatch Name = "workflow_dispatch"
	// PullRequest is a pull_request open/update event.
	PullRequest Name = "pull_request"
	// IssueComment is a comment on an issue or pull request.
	IssueComment Name = "issue_comment"
)

// String returns the string representation of the event name.
func (n Name) String() string {
	return string(n)
}

// TriggerEvent is the raw ambient signal for one action run. It is built
// once by Read and never mutated afterwards.
type TriggerEvent struct {
	// Name is the GitHub event name, e.g. "issue_comment".
	Name Name

	// Action is the event subtype, e.g. "opened" or "synchronize" for
	// pull_request events. Empty when the event has no subtype.
	Action string

	// Repository is the "owner/repo" identifier.
	Repository string

	// Ref is the git ref the workflow ran against.
	Ref string

	// DefaultBranch is the repository default branch, when the payload
	// carries it.
	DefaultBranch string

	// PRNumber is the pull request number, 0 when the event has none.
	PRNumber int

	// IssueNumber is the issue (or PR, for comments) number, 0 when absent.
	IssueNumber int

	// IsPullRequestComment reports whether an issue_comment event's parent
	// is a pull request rather than a plain issue.
	IsPullRequestComment bool

	// CommentBody is the comment text for issue_comment events.
	CommentBody string

	// IssueBody is the issue or PR description body.
	IssueBody string

	// Actor is the user who triggered the event.
	Actor string
}

// AnalysisRef returns the ref a full-repository analysis should target:
// the default branch when known, otherwise the ref the workflow ran on.
func (e *TriggerEvent) AnalysisRef() string {
	if e.DefaultBranch != "" {
		return e.DefaultBranch
	}
	return e.Ref
}
