package report

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/stride"
)

// Publisher is the subset of the GitHub client the reporter depends on.
type Publisher interface {
	CreateComment(ctx context.Context, number int, body string) (string, error)
}

// Reporter publishes rendered reports as comments on issues and PRs.
type Reporter struct {
	gh     Publisher
	maxLen int
	log    *zap.SugaredLogger
}

// NewReporter creates a reporter. maxLen bounds the comment body; GitHub
// rejects comments above 65536 characters.
func NewReporter(gh Publisher, maxLen int, log *zap.SugaredLogger) *Reporter {
	return &Reporter{gh: gh, maxLen: maxLen, log: log}
}

// PostAnalysis renders the analysis result and posts it on the issue or
// PR, returning the comment URL.
func (r *Reporter) PostAnalysis(ctx context.Context, number int, result *stride.Result, scope string) (string, error) {
	return r.publish(ctx, number, RenderAnalysis(result, scope))
}

// PostHelp posts the canned help comment.
func (r *Reporter) PostHelp(ctx context.Context, number int) (string, error) {
	return r.publish(ctx, number, RenderHelp())
}

// PostStatus posts the usage status comment.
func (r *Reporter) PostStatus(ctx context.Context, number int, usage *stride.Usage) (string, error) {
	return r.publish(ctx, number, RenderStatus(usage))
}

// PostError posts a failure comment so the user sees why the run failed
// without opening the CI log.
func (r *Reporter) PostError(ctx context.Context, number int, message string) (string, error) {
	return r.publish(ctx, number, RenderError(message))
}

// PostLimitReached posts the usage-limit comment.
func (r *Reporter) PostLimitReached(ctx context.Context, number int, detail string) (string, error) {
	return r.publish(ctx, number, RenderLimitReached(detail))
}

// publish posts the comment, retrying once on failure before giving up.
func (r *Reporter) publish(ctx context.Context, number int, body string) (string, error) {
	if r.maxLen > 0 && len(body) > r.maxLen {
		marker := "\n\n*(comment truncated)*\n"
		keep := r.maxLen - len(marker)
		if keep <= 0 {
			// The limit leaves no room for the marker; keep what fits.
			keep = r.maxLen
			marker = ""
		}
		for keep > 0 && !utf8.RuneStart(body[keep]) {
			keep--
		}
		body = body[:keep] + marker
	}

	url, err := r.gh.CreateComment(ctx, number, body)
	if err == nil {
		return url, nil
	}
	r.log.Warnw("comment creation failed, retrying once", "number", number, "error", err)

	url, retryErr := r.gh.CreateComment(ctx, number, body)
	if retryErr != nil {
		return "", errors.PublishError("failed to post comment after retry", retryErr)
	}
	return url, nil
}
