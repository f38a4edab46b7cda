package payload

import (
	"context"
	"path"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/githubapi"
	"github.com/stride-gpt/stride-action/pkg/trigger"
)

// GitHub is the subset of the GitHub client the builder depends on.
type GitHub interface {
	FullName() string
	GetPullRequest(ctx context.Context, number int) (*githubapi.PullRequest, error)
	ListPRFiles(ctx context.Context, prNumber int) ([]githubapi.ChangedFile, error)
	GetFileContent(ctx context.Context, path, ref string) (string, error)
	GetIssueBody(ctx context.Context, number int) (string, error)
	ListTree(ctx context.Context, ref string) ([]githubapi.TreeEntry, error)
}

// Builder collects the input material for a resolved intent and
// serializes it into the request shape the analysis service expects.
type Builder struct {
	gh       GitHub
	limits   config.LimitsConfig
	log      *zap.SugaredLogger
	excluded map[string]bool
}

// NewBuilder creates a payload builder.
func NewBuilder(gh GitHub, limits config.LimitsConfig, log *zap.SugaredLogger) *Builder {
	excluded := make(map[string]bool, len(limits.ExcludedExtensions))
	for _, ext := range limits.ExcludedExtensions {
		excluded[strings.ToLower(ext)] = true
	}
	return &Builder{
		gh:       gh,
		limits:   limits,
		log:      log,
		excluded: excluded,
	}
}

// Build produces the payload for the given intent. Meta commands never
// reach the builder; they short-circuit to the reporter.
func (b *Builder) Build(ctx context.Context, intent *trigger.Intent) (*Payload, error) {
	switch intent.Kind {
	case trigger.KindChangedFiles:
		return b.buildChangedFiles(ctx, intent.PRNumber)
	case trigger.KindFeatureDescription:
		return b.buildFeatureDescription(ctx, intent)
	case trigger.KindFullRepository:
		return b.buildFullRepository(ctx, intent.Ref)
	default:
		return nil, errors.ValidationError("intent "+intent.Kind.String()+" has no payload", nil)
	}
}

// buildChangedFiles collects the PR's changed files in the order the API
// reports them. The ordering is the source of truth: repeated runs against
// an unchanged PR must produce byte-identical payloads.
func (b *Builder) buildChangedFiles(ctx context.Context, prNumber int) (*Payload, error) {
	pr, err := b.gh.GetPullRequest(ctx, prNumber)
	if err != nil {
		return nil, err
	}

	changed, err := b.gh.ListPRFiles(ctx, prNumber)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(changed))
	for _, cf := range changed {
		if b.isExcluded(cf.Filename) {
			b.log.Debugw("excluding file by extension", "file", cf.Filename)
			continue
		}

		if cf.Patch != "" && len(cf.Patch) <= b.limits.MaxDiffBytes {
			files = append(files, File{
				Path: cf.Filename,
				Kind: ContentDiff,
				Text: cf.Patch,
			})
			continue
		}

		// The API omits the patch both for binaries and for diffs above
		// its own size ceiling, so an empty patch is not enough to drop
		// the file. Fetch the current content and let the binary and size
		// checks decide.
		f, ok, err := b.fullContentFile(ctx, cf.Filename, pr.HeadSHA)
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, f)
		}
	}

	return &Payload{
		IntentKind: KindChangedFiles,
		Repository: b.repoMeta(),
		PRNumber:   prNumber,
		Files:      files,
	}, nil
}

// buildFeatureDescription passes the issue body through verbatim, trimmed.
// When the event payload carried no body at all, the issue is fetched once
// as a fallback; a body that is present but whitespace-only is rejected
// without any network call, since analysis on nothing is meaningless and
// would waste API quota.
func (b *Builder) buildFeatureDescription(ctx context.Context, intent *trigger.Intent) (*Payload, error) {
	text := intent.Text
	if text == "" && intent.IssueNumber > 0 {
		body, err := b.gh.GetIssueBody(ctx, intent.IssueNumber)
		if err != nil {
			return nil, err
		}
		text = body
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.EmptyContentError("issue body is empty, nothing to analyze")
	}
	return &Payload{
		IntentKind:  KindFeatureDescription,
		Repository:  b.repoMeta(),
		Description: trimmed,
	}, nil
}

// buildFullRepository enumerates every tracked file at ref with the same
// exclusion rules as changed-files mode. This is the only mode permitted
// to produce a large payload.
func (b *Builder) buildFullRepository(ctx context.Context, ref string) (*Payload, error) {
	entries, err := b.gh.ListTree(ctx, ref)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, entry := range entries {
		if b.isExcluded(entry.Path) {
			continue
		}
		if entry.Size > b.limits.MaxFileBytes {
			b.log.Debugw("excluding file above size ceiling",
				"file", entry.Path, "bytes", entry.Size)
			continue
		}

		f, ok, err := b.fullContentFile(ctx, entry.Path, ref)
		if err != nil {
			// Symlinks and submodule pointers surface as content errors;
			// skip them rather than failing the whole scan.
			b.log.Warnw("skipping unreadable file", "file", entry.Path, "error", err)
			continue
		}
		if ok {
			files = append(files, f)
		}
	}

	return &Payload{
		IntentKind: KindFullRepository,
		Repository: b.repoMeta(),
		Ref:        ref,
		Files:      files,
	}, nil
}

// fullContentFile fetches a file's current content and applies the binary
// and size checks. ok is false when the file carries nothing analyzable.
func (b *Builder) fullContentFile(ctx context.Context, name, ref string) (File, bool, error) {
	content, err := b.gh.GetFileContent(ctx, name, ref)
	if err != nil {
		return File{}, false, err
	}
	if !utf8.ValidString(content) {
		b.log.Debugw("excluding binary file", "file", name)
		return File{}, false, nil
	}
	if len(content) > b.limits.MaxFileBytes {
		b.log.Debugw("excluding file above size ceiling",
			"file", name, "bytes", len(content))
		return File{}, false, nil
	}
	text, truncated := truncate(content, b.limits.MaxContentChars)
	return File{
		Path:      name,
		Kind:      ContentFull,
		Text:      text,
		Truncated: truncated,
	}, true, nil
}

func (b *Builder) repoMeta() RepoMeta {
	full := b.gh.FullName()
	return RepoMeta{
		FullName: full,
		URL:      "https://github.com/" + full,
	}
}

func (b *Builder) isExcluded(filename string) bool {
	return b.excluded[strings.ToLower(path.Ext(filename))]
}

// truncate cuts s to at most max bytes on a rune boundary, reporting
// whether anything was dropped. A naive byte slice could split a rune and
// ship a mangled trailing character.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
