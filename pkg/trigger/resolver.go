package trigger

import (
	"strings"

	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/event"
)

// Mention is the literal token that activates comment-triggered analysis.
// Matching is case-sensitive.
const Mention = "@stride-gpt"

// dispatchKey pairs the configured trigger mode with the observed event
// name. The resolver is a lookup over this pair: every combination maps to
// exactly one outcome, either an intent or an unresolved-trigger error.
type dispatchKey struct {
	Mode  config.TriggerMode
	Event event.Name
}

// dispatch is the total mapping from (mode, event) to a resolution rule.
// Combinations absent from the table are unresolved by definition.
var dispatch = map[dispatchKey]func(ev *event.TriggerEvent) (*Intent, error){
	{config.ModeComment, event.IssueComment}:    resolveComment,
	{config.ModePR, event.PullRequest}:          resolvePullRequest,
	{config.ModeManual, event.WorkflowDispatch}: resolveManual,
}

// Resolve maps the configured mode and the trigger event to the single
// analysis intent for this run. It is pure: same inputs, same outcome.
func Resolve(mode config.TriggerMode, ev *event.TriggerEvent) (*Intent, error) {
	rule, ok := dispatch[dispatchKey{Mode: mode, Event: ev.Name}]
	if !ok {
		return nil, errors.UnresolvedTriggerError(string(mode), ev.Name.String())
	}
	return rule(ev)
}

// resolveComment handles issue_comment events in comment mode. Meta
// commands are scanned before the analyze token so that help/status never
// reach the payload builder.
func resolveComment(ev *event.TriggerEvent) (*Intent, error) {
	cmd, mentioned := ParseCommand(ev.CommentBody)
	if !mentioned {
		// A workflow fired on a comment that never mentions the bot is a
		// configuration mismatch, not a failure.
		return nil, errors.UnresolvedTriggerError(string(config.ModeComment), ev.Name.String())
	}

	switch cmd {
	case "help":
		return &Intent{
			Kind:          KindMetaCommand,
			Meta:          MetaHelp,
			IssueNumber:   ev.IssueNumber,
			IsPullRequest: ev.IsPullRequestComment,
		}, nil
	case "status":
		return &Intent{
			Kind:          KindMetaCommand,
			Meta:          MetaStatus,
			IssueNumber:   ev.IssueNumber,
			IsPullRequest: ev.IsPullRequestComment,
		}, nil
	case "analyze":
		if ev.IsPullRequestComment {
			return &Intent{
				Kind:          KindChangedFiles,
				PRNumber:      ev.PRNumber,
				IsPullRequest: true,
			}, nil
		}
		return &Intent{
			Kind:        KindFeatureDescription,
			Text:        ev.IssueBody,
			IssueNumber: ev.IssueNumber,
		}, nil
	default:
		return &Intent{
			Kind:          KindMetaCommand,
			Meta:          MetaUnknown,
			Command:       cmd,
			IssueNumber:   ev.IssueNumber,
			IsPullRequest: ev.IsPullRequestComment,
		}, nil
	}
}

// resolvePullRequest handles pull_request events in pr mode. Only opened
// and synchronize actions trigger analysis.
func resolvePullRequest(ev *event.TriggerEvent) (*Intent, error) {
	switch ev.Action {
	case "opened", "synchronize":
		return &Intent{
			Kind:          KindChangedFiles,
			PRNumber:      ev.PRNumber,
			IsPullRequest: true,
		}, nil
	default:
		return nil, errors.UnresolvedTriggerError(string(config.ModePR),
			ev.Name.String()+"/"+ev.Action)
	}
}

// resolveManual handles workflow_dispatch events in manual mode.
func resolveManual(ev *event.TriggerEvent) (*Intent, error) {
	return &Intent{
		Kind: KindFullRepository,
		Ref:  ev.AnalysisRef(),
	}, nil
}

// ParseCommand scans a comment body for the bot mention and returns the
// command word following it. The mention match is case-sensitive on the
// literal token; surrounding whitespace is ignored. The second return
// value reports whether the mention was present at all.
func ParseCommand(body string) (string, bool) {
	trimmed := strings.TrimSpace(body)
	idx := strings.Index(trimmed, Mention)
	if idx < 0 {
		return "", false
	}

	rest := strings.TrimSpace(trimmed[idx+len(Mention):])
	if rest == "" {
		return "", true
	}

	word := rest
	if i := strings.IndexFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}); i >= 0 {
		word = rest[:i]
	}
	return word, true
}
