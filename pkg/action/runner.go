// Package action orchestrates one stride-action run: read the trigger
// event, resolve the intent, build the payload, submit it for analysis
// and publish the report. Control flow is strictly linear; nothing is
// retained across invocations.
package action

import (
	"context"
	goerrors "errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/stride-gpt/stride-action/pkg/actions"
	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/event"
	"github.com/stride-gpt/stride-action/pkg/githubapi"
	"github.com/stride-gpt/stride-action/pkg/payload"
	"github.com/stride-gpt/stride-action/pkg/report"
	"github.com/stride-gpt/stride-action/pkg/stride"
	"github.com/stride-gpt/stride-action/pkg/trigger"
)

// Runner wires the action's components together for one invocation.
type Runner struct {
	cfg      *config.Config
	gh       *githubapi.Client
	stride   *stride.Client
	builder  *payload.Builder
	reporter *report.Reporter
	log      *zap.SugaredLogger
}

// New constructs a runner from validated configuration and the triggering
// event's repository.
func New(cfg *config.Config, repository string, log *zap.SugaredLogger) (*Runner, error) {
	gh, err := githubapi.New(cfg.GitHub.Token, repository, cfg.GitHub.BaseURL)
	if err != nil {
		return nil, errors.ConfigError("failed to create GitHub client", err)
	}

	sc := stride.NewClient(cfg.Stride, log)

	return &Runner{
		cfg:      cfg,
		gh:       gh,
		stride:   sc,
		builder:  payload.NewBuilder(gh, cfg.Limits, log),
		reporter: report.NewReporter(gh, cfg.GitHub.MaxCommentLength, log),
		log:      log.With("run_id", sc.RunID()),
	}, nil
}

// Run executes the action for the given trigger event. The returned error
// carries the exit-code decision: errors.IsFatal distinguishes real
// failures from logged no-ops like an unresolved trigger.
func (r *Runner) Run(ctx context.Context, ev *event.TriggerEvent) error {
	intent, err := trigger.Resolve(r.cfg.GitHub.TriggerMode, ev)
	if err != nil {
		if errors.IsType(err, errors.ErrUnresolvedTrigger) {
			// A mismatched trigger is not a failure of the run.
			r.log.Infow("no analysis to run", "reason", err.Error())
			actions.Notice("stride-action: %v", err)
		}
		return err
	}

	r.log.Infow("trigger resolved",
		"event", string(ev.Name), "actor", ev.Actor, "intent", intent.Kind.String())

	if intent.Kind == trigger.KindMetaCommand {
		return r.runMeta(ctx, intent)
	}

	// Free tier supports public repositories only; check before spending
	// quota or shipping private code upstream.
	info, err := r.gh.GetRepoInfo(ctx)
	if err != nil {
		return errors.ContextError("failed to read repository metadata", err)
	}
	if info.Private {
		authErr := errors.AuthError(
			"private repositories require a paid STRIDE-GPT plan, see https://stridegpt.ai/pricing", nil)
		r.postFailure(ctx, intent, authErr)
		return authErr
	}

	p, err := r.builder.Build(ctx, intent)
	if err != nil {
		r.postFailure(ctx, intent, err)
		return err
	}

	// A PR whose changes are all binary or excluded has nothing to
	// analyze; resolve it locally instead of spending quota upstream.
	if intent.Kind != trigger.KindFeatureDescription && len(p.Files) == 0 {
		r.log.Infow("no analyzable files in scope, skipping submission")
		actions.Notice("stride-action: no analyzable files in scope")
		return r.publish(ctx, intent, &stride.Result{})
	}

	actions.Notice("Starting threat analysis (%s)", scopeDescription(intent))
	result, err := r.stride.Analyze(ctx, p)
	if err != nil {
		if errors.IsType(err, errors.ErrRateLimit) {
			r.postLimit(ctx, intent, err)
			return err
		}
		r.postFailure(ctx, intent, err)
		return err
	}

	return r.publish(ctx, intent, result)
}

// runMeta handles help/status/unknown commands. They never reach the
// payload builder or the analyze endpoint.
func (r *Runner) runMeta(ctx context.Context, intent *trigger.Intent) error {
	switch intent.Meta {
	case trigger.MetaHelp:
		_, err := r.reporter.PostHelp(ctx, intent.IssueNumber)
		return err
	case trigger.MetaStatus:
		usage, err := r.stride.GetUsage(ctx)
		if err != nil {
			r.postFailure(ctx, intent, err)
			return err
		}
		_, err = r.reporter.PostStatus(ctx, intent.IssueNumber, usage)
		return err
	default:
		msg := fmt.Sprintf("Unknown command: %q. Use `@stride-gpt help` for available commands.",
			intent.Command)
		_, err := r.reporter.PostError(ctx, intent.IssueNumber, msg)
		return err
	}
}

// publish delivers the result: a comment for PR/issue scopes, the CI log
// for full-repository scans. Outputs are set in both cases.
func (r *Runner) publish(ctx context.Context, intent *trigger.Intent, result *stride.Result) error {
	scope := scopeDescription(intent)

	if intent.Kind == trigger.KindFullRepository {
		r.logResult(result, scope)
		if err := actions.SetOutput("threat-count", strconv.Itoa(result.ThreatCount)); err != nil {
			return errors.PublishError("failed to write threat-count output", err)
		}
		actions.Notice("Analysis completed successfully")
		return nil
	}

	target := commentTarget(intent)
	url, err := r.reporter.PostAnalysis(ctx, target, result, scope)
	if err != nil {
		// The comment channel failed after a retry, but the outputs file
		// still carries the result, so the run is not silently lost.
		r.log.Errorw("failed to publish report", "error", err)
		if outErr := actions.SetOutput("threat-count", strconv.Itoa(result.ThreatCount)); outErr != nil {
			return err
		}
		actions.Error("stride-action: report comment could not be posted: %v", err)
		return nil
	}

	if err := actions.SetOutput("threat-count", strconv.Itoa(result.ThreatCount)); err != nil {
		return errors.PublishError("failed to write threat-count output", err)
	}
	if err := actions.SetOutput("report-url", url); err != nil {
		return errors.PublishError("failed to write report-url output", err)
	}
	actions.Notice("Analysis completed successfully, %d threat(s) found", result.ThreatCount)
	return nil
}

// logResult prints a full-repository result into the workflow log as a
// collapsible group.
func (r *Runner) logResult(result *stride.Result, scope string) {
	actions.Group("STRIDE-GPT Security Analysis Results")
	actions.Log("Scope: %s", scope)
	actions.Log("Analysis ID: %s", result.AnalysisID)
	actions.Log("Threats found: %d", result.ThreatCount)
	for i, f := range result.Findings {
		actions.Log("")
		actions.Log("--- Threat %d ---", i+1)
		actions.Log("Category: %s", f.Category)
		actions.Log("Title: %s", f.Title)
		actions.Log("Severity: %s", f.Severity)
		if f.File != "" {
			actions.Log("Location: %s:%d", f.File, f.Line)
		}
		actions.Log("Description: %s", f.Description)
	}
	if result.LimitationNotice != "" {
		actions.Log("")
		actions.Log("Note: %s", result.LimitationNotice)
	}
	actions.EndGroup()
}

// postFailure surfaces a fatal error as a comment when the run has a
// comment target. Publishing here is best effort; the original error is
// what the caller reports.
func (r *Runner) postFailure(ctx context.Context, intent *trigger.Intent, cause error) {
	target := commentTarget(intent)
	if target == 0 {
		return
	}
	if _, err := r.reporter.PostError(ctx, target, cause.Error()); err != nil {
		r.log.Warnw("failed to post failure comment", "error", err)
	}
}

// postLimit surfaces a rate/usage limit as an informational comment.
func (r *Runner) postLimit(ctx context.Context, intent *trigger.Intent, cause error) {
	target := commentTarget(intent)
	if target == 0 {
		actions.Notice("stride-action: %v", cause)
		return
	}
	detail := cause.Error()
	var actErr *errors.ActionError
	if goerrors.As(cause, &actErr) {
		detail = actErr.Message
	}
	if _, err := r.reporter.PostLimitReached(ctx, target, detail); err != nil {
		r.log.Warnw("failed to post limit comment", "error", err)
	}
}

// commentTarget returns the issue/PR number a comment should land on, or
// 0 when the intent has no comment channel (manual runs).
func commentTarget(intent *trigger.Intent) int {
	switch intent.Kind {
	case trigger.KindChangedFiles:
		return intent.PRNumber
	case trigger.KindFeatureDescription, trigger.KindMetaCommand:
		return intent.IssueNumber
	default:
		return 0
	}
}

// scopeDescription names what the analysis covered, for the report header.
func scopeDescription(intent *trigger.Intent) string {
	switch intent.Kind {
	case trigger.KindChangedFiles:
		return fmt.Sprintf("Changed files in PR #%d", intent.PRNumber)
	case trigger.KindFeatureDescription:
		return "Feature description"
	case trigger.KindFullRepository:
		return fmt.Sprintf("Full repository at %s", intent.Ref)
	default:
		return "Unknown"
	}
}
