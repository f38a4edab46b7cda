// Package trigger decides the single analysis intent for one action run.
package trigger

// Kind tags the analysis intent variants.
type Kind int

const (
	// KindChangedFiles analyzes the files changed in a pull request.
	KindChangedFiles Kind = iota
	// KindFeatureDescription analyzes a free-text feature description
	// from an issue body.
	KindFeatureDescription
	// KindFullRepository analyzes every tracked file at a ref.
	KindFullRepository
	// KindMetaCommand is a help/status sub-command that short-circuits to
	// the reporter without touching the analysis API payload path.
	KindMetaCommand
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChangedFiles:
		return "changed_files"
	case KindFeatureDescription:
		return "feature_description"
	case KindFullRepository:
		return "full_repository"
	case KindMetaCommand:
		return "meta_command"
	default:
		return "unknown"
	}
}

// MetaKind identifies a meta sub-command.
type MetaKind string

const (
	// MetaHelp is the @stride-gpt help command.
	MetaHelp MetaKind = "help"
	// MetaStatus is the @stride-gpt status command.
	MetaStatus MetaKind = "status"
	// MetaUnknown is a @stride-gpt mention with an unrecognized command.
	MetaUnknown MetaKind = "unknown"
)

// Intent is the resolved analysis intent. Exactly one is produced per run;
// which fields are set depends on Kind.
type Intent struct {
	Kind Kind

	// PRNumber is set for KindChangedFiles.
	PRNumber int

	// Text is set for KindFeatureDescription: the issue body, verbatim.
	Text string

	// IssueNumber is set for KindFeatureDescription and KindMetaCommand.
	IssueNumber int

	// Ref is set for KindFullRepository.
	Ref string

	// Meta is set for KindMetaCommand.
	Meta MetaKind

	// Command carries the unrecognized command word for MetaUnknown.
	Command string

	// IsPullRequest reports whether the originating comment sits on a PR.
	// Used by the reporter to pick the comment endpoint.
	IsPullRequest bool
}
