package report

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/logging"
	"github.com/stride-gpt/stride-action/pkg/stride"
)

// fakePublisher records comments and fails the first n calls.
type fakePublisher struct {
	failFirst int
	calls     int
	bodies    []string
}

func (f *fakePublisher) CreateComment(ctx context.Context, number int, body string) (string, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return "", fmt.Errorf("boom")
	}
	f.bodies = append(f.bodies, body)
	return fmt.Sprintf("https://github.com/owner/repo/issues/%d#comment-%d", number, f.calls), nil
}

func TestPostAnalysis(t *testing.T) {
	pub := &fakePublisher{}
	r := NewReporter(pub, 65536, logging.NewNop())

	url, err := r.PostAnalysis(context.Background(), 3, &stride.Result{ThreatCount: 0}, "scope")
	if err != nil {
		t.Fatalf("PostAnalysis() error = %v", err)
	}
	if url == "" {
		t.Error("empty comment URL")
	}
	if len(pub.bodies) != 1 {
		t.Fatalf("comments posted = %d, want 1", len(pub.bodies))
	}
}

func TestPublish_RetriesOnce(t *testing.T) {
	pub := &fakePublisher{failFirst: 1}
	r := NewReporter(pub, 65536, logging.NewNop())

	_, err := r.PostHelp(context.Background(), 1)
	if err != nil {
		t.Fatalf("PostHelp() error = %v, want retry to succeed", err)
	}
	if pub.calls != 2 {
		t.Errorf("calls = %d, want 2", pub.calls)
	}
}

func TestPublish_FailsAfterRetry(t *testing.T) {
	pub := &fakePublisher{failFirst: 2}
	r := NewReporter(pub, 65536, logging.NewNop())

	_, err := r.PostHelp(context.Background(), 1)
	if !errors.IsType(err, errors.ErrPublish) {
		t.Errorf("error = %v, want publish error", err)
	}
	if pub.calls != 2 {
		t.Errorf("calls = %d, want exactly 2 (one retry)", pub.calls)
	}
}

func TestPublish_TruncatesLongComments(t *testing.T) {
	pub := &fakePublisher{}
	r := NewReporter(pub, 200, logging.NewNop())

	result := &stride.Result{
		ThreatCount: 1,
		Findings: []stride.Finding{
			{Severity: stride.SeverityHigh, Category: stride.CategoryTampering,
				Title: "T", Description: strings.Repeat("x", 1000)},
		},
	}
	if _, err := r.PostAnalysis(context.Background(), 1, result, "scope"); err != nil {
		t.Fatalf("PostAnalysis() error = %v", err)
	}
	if len(pub.bodies[0]) > 200 {
		t.Errorf("body length = %d, want <= 200", len(pub.bodies[0]))
	}
	if !strings.Contains(pub.bodies[0], "comment truncated") {
		t.Error("truncation marker missing")
	}
}

func TestPublish_TinyLimitDoesNotPanic(t *testing.T) {
	// A limit smaller than the truncation marker must clamp, not slice
	// with a negative bound.
	pub := &fakePublisher{}
	r := NewReporter(pub, 10, logging.NewNop())

	result := &stride.Result{
		ThreatCount: 1,
		Findings: []stride.Finding{
			{Severity: stride.SeverityHigh, Category: stride.CategorySpoofing,
				Title: "T", Description: strings.Repeat("x", 100)},
		},
	}
	if _, err := r.PostAnalysis(context.Background(), 1, result, "scope"); err != nil {
		t.Fatalf("PostAnalysis() error = %v", err)
	}
	if got := len(pub.bodies[0]); got > 10 {
		t.Errorf("body length = %d, want <= 10", got)
	}
}
