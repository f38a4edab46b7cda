package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/githubapi"
	"github.com/stride-gpt/stride-action/pkg/logging"
	"github.com/stride-gpt/stride-action/pkg/trigger"
)

// fakeGitHub implements the GitHub interface from fixed data.
type fakeGitHub struct {
	files     []githubapi.ChangedFile
	tree      []githubapi.TreeEntry
	contents  map[string]string
	issueBody string
}

func (f *fakeGitHub) FullName() string { return "owner/repo" }

func (f *fakeGitHub) GetPullRequest(ctx context.Context, number int) (*githubapi.PullRequest, error) {
	return &githubapi.PullRequest{Number: number, HeadSHA: "abc123"}, nil
}

func (f *fakeGitHub) ListPRFiles(ctx context.Context, prNumber int) ([]githubapi.ChangedFile, error) {
	return f.files, nil
}

func (f *fakeGitHub) GetFileContent(ctx context.Context, path, ref string) (string, error) {
	content, ok := f.contents[path]
	if !ok {
		return "", fmt.Errorf("no content for %s", path)
	}
	return content, nil
}

func (f *fakeGitHub) GetIssueBody(ctx context.Context, number int) (string, error) {
	return f.issueBody, nil
}

func (f *fakeGitHub) ListTree(ctx context.Context, ref string) ([]githubapi.TreeEntry, error) {
	return f.tree, nil
}

func testLimits() config.LimitsConfig {
	return config.LimitsConfig{
		MaxFileBytes:       1000,
		MaxDiffBytes:       100,
		MaxContentChars:    50,
		ExcludedExtensions: []string{".png", ".zip"},
	}
}

func TestBuild_ChangedFilesOrder(t *testing.T) {
	gh := &fakeGitHub{
		files: []githubapi.ChangedFile{
			{Filename: "b.py", Status: "modified", Patch: "@@ -1 +1 @@\n-x\n+y"},
			{Filename: "a.py", Status: "added", Patch: "@@ -0,0 +1 @@\n+z"},
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{Kind: trigger.KindChangedFiles, PRNumber: 5})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(p.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(p.Files))
	}
	// Ordering must match the PR's file-change ordering, not be re-sorted.
	if p.Files[0].Path != "b.py" || p.Files[1].Path != "a.py" {
		t.Errorf("file order = %s, %s; want b.py, a.py", p.Files[0].Path, p.Files[1].Path)
	}
	if p.Files[0].Kind != ContentDiff {
		t.Errorf("Kind = %s, want diff", p.Files[0].Kind)
	}
	if p.PRNumber != 5 || p.IntentKind != KindChangedFiles {
		t.Errorf("payload header = %+v", p)
	}
}

func TestBuild_ChangedFilesDeterministic(t *testing.T) {
	gh := &fakeGitHub{
		files: []githubapi.ChangedFile{
			{Filename: "main.go", Status: "modified", Patch: "@@ -1 +1 @@\n-a\n+b"},
			{Filename: "big.go", Status: "modified", Patch: strings.Repeat("+", 200)},
		},
		contents: map[string]string{
			"big.go": strings.Repeat("x", 80),
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())
	intent := &trigger.Intent{Kind: trigger.KindChangedFiles, PRNumber: 9}

	first, err := b.Build(context.Background(), intent)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := b.Build(context.Background(), intent)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("repeated builds against unchanged PR state differ")
	}
}

func TestBuild_ChangedFilesExclusions(t *testing.T) {
	gh := &fakeGitHub{
		files: []githubapi.ChangedFile{
			{Filename: "logo.png", Status: "added", Patch: ""},
			{Filename: "vendor.dat", Status: "modified", Patch: ""}, // binary, no patch
			{Filename: "ok.go", Status: "modified", Patch: "@@ -1 +1 @@\n-a\n+b"},
		},
		contents: map[string]string{
			"vendor.dat": "\x00\x01\xff\xfe", // not UTF-8
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{Kind: trigger.KindChangedFiles, PRNumber: 1})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Files) != 1 || p.Files[0].Path != "ok.go" {
		t.Errorf("Files = %+v, want only ok.go", p.Files)
	}
}

func TestBuild_MissingPatchFallsBackToContent(t *testing.T) {
	// The API omits the patch for text files whose diff is too large;
	// those must ship their full content, not vanish from the payload.
	gh := &fakeGitHub{
		files: []githubapi.ChangedFile{
			{Filename: "generated.go", Status: "modified", Patch: ""},
		},
		contents: map[string]string{
			"generated.go": "package generated",
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{Kind: trigger.KindChangedFiles, PRNumber: 1})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(p.Files))
	}
	f := p.Files[0]
	if f.Path != "generated.go" || f.Kind != ContentFull || f.Text != "package generated" {
		t.Errorf("file = %+v, want full content of generated.go", f)
	}
}

func TestBuild_OversizedDiffFallsBackToContent(t *testing.T) {
	gh := &fakeGitHub{
		files: []githubapi.ChangedFile{
			{Filename: "big.go", Status: "modified", Patch: strings.Repeat("+", 200)},
		},
		contents: map[string]string{
			"big.go": strings.Repeat("x", 80),
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{Kind: trigger.KindChangedFiles, PRNumber: 1})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(p.Files))
	}
	f := p.Files[0]
	if f.Kind != ContentFull {
		t.Errorf("Kind = %s, want full", f.Kind)
	}
	if !f.Truncated || len(f.Text) != 50 {
		t.Errorf("Truncated = %v, len = %d; want truncated to 50", f.Truncated, len(f.Text))
	}
}

func TestBuild_OversizedContentExcluded(t *testing.T) {
	gh := &fakeGitHub{
		files: []githubapi.ChangedFile{
			{Filename: "huge.go", Status: "modified", Patch: strings.Repeat("+", 200)},
		},
		contents: map[string]string{
			"huge.go": strings.Repeat("x", 2000), // above MaxFileBytes
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{Kind: trigger.KindChangedFiles, PRNumber: 1})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Files) != 0 {
		t.Errorf("Files = %+v, want none", p.Files)
	}
}

func TestBuild_FeatureDescription(t *testing.T) {
	b := NewBuilder(&fakeGitHub{}, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{
		Kind: trigger.KindFeatureDescription,
		Text: "  Add a login endpoint with email+password  ",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if p.Description != "Add a login endpoint with email+password" {
		t.Errorf("Description = %q", p.Description)
	}
	if p.IntentKind != KindFeatureDescription {
		t.Errorf("IntentKind = %s", p.IntentKind)
	}
}

func TestBuild_EmptyFeatureDescription(t *testing.T) {
	// A whitespace-only body never triggers the issue fetch fallback; the
	// fake would happily supply a body if asked.
	b := NewBuilder(&fakeGitHub{issueBody: "should not be fetched"}, testLimits(), logging.NewNop())

	for _, text := range []string{"   ", "\n\t\n"} {
		_, err := b.Build(context.Background(), &trigger.Intent{
			Kind:        trigger.KindFeatureDescription,
			Text:        text,
			IssueNumber: 12,
		})
		if !errors.IsType(err, errors.ErrEmptyContent) {
			t.Errorf("Build(%q) error = %v, want empty content error", text, err)
		}
	}

	_, err := b.Build(context.Background(), &trigger.Intent{Kind: trigger.KindFeatureDescription})
	if !errors.IsType(err, errors.ErrEmptyContent) {
		t.Errorf("Build() with no body and no issue = %v, want empty content error", err)
	}
}

func TestBuild_FeatureDescriptionFetchesMissingBody(t *testing.T) {
	// Pruned event payloads can arrive without the issue body; the builder
	// asks the API once before deciding there is nothing to analyze.
	gh := &fakeGitHub{issueBody: "Add rate limiting to the API"}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{
		Kind:        trigger.KindFeatureDescription,
		IssueNumber: 12,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if p.Description != "Add rate limiting to the API" {
		t.Errorf("Description = %q", p.Description)
	}

	gh.issueBody = "  \n "
	if _, err := b.Build(context.Background(), &trigger.Intent{
		Kind:        trigger.KindFeatureDescription,
		IssueNumber: 12,
	}); !errors.IsType(err, errors.ErrEmptyContent) {
		t.Errorf("error = %v, want empty content error", err)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// A two-byte rune straddling the cut point must not be split.
	s := strings.Repeat("a", 49) + "é" + strings.Repeat("b", 10)

	got, truncated := truncate(s, 50)
	if !truncated {
		t.Fatal("truncated = false, want true")
	}
	if len(got) != 49 || got != strings.Repeat("a", 49) {
		t.Errorf("truncate cut mid-rune: %q (len %d)", got, len(got))
	}

	whole, truncated := truncate("héllo", 100)
	if truncated || whole != "héllo" {
		t.Errorf("truncate(%q, 100) = %q, %v", "héllo", whole, truncated)
	}
}

func TestBuild_FullRepository(t *testing.T) {
	gh := &fakeGitHub{
		tree: []githubapi.TreeEntry{
			{Path: "main.go", Size: 20},
			{Path: "assets/logo.png", Size: 10},
			{Path: "huge.go", Size: 5000},
			{Path: "broken.go", Size: 10}, // unreadable, must be skipped
		},
		contents: map[string]string{
			"main.go": "package main",
		},
	}
	b := NewBuilder(gh, testLimits(), logging.NewNop())

	p, err := b.Build(context.Background(), &trigger.Intent{
		Kind: trigger.KindFullRepository,
		Ref:  "main",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(p.Files) != 1 || p.Files[0].Path != "main.go" {
		t.Errorf("Files = %+v, want only main.go", p.Files)
	}
	if p.Ref != "main" || p.IntentKind != KindFullRepository {
		t.Errorf("payload header = %+v", p)
	}
}
