// Package payload builds the analysis request body for the STRIDE API.
package payload

// Kind strings sent to the API as intent_kind.
const (
	KindChangedFiles       = "changed_files"
	KindFeatureDescription = "feature_description"
	KindFullRepository     = "full_repository"
)

// File content kinds.
const (
	ContentDiff = "diff"
	ContentFull = "full"
)

// Payload is the serialized analysis request. It is built once per run
// and sent as-is; retries never mutate it.
type Payload struct {
	IntentKind  string   `json:"intent_kind"`
	Repository  RepoMeta `json:"repository"`
	PRNumber    int      `json:"pr_number,omitempty"`
	Ref         string   `json:"ref,omitempty"`
	Files       []File   `json:"files,omitempty"`
	Description string   `json:"description,omitempty"`
}

// RepoMeta identifies the repository under analysis.
type RepoMeta struct {
	FullName string `json:"full_name"`
	URL      string `json:"url"`
}

// File is one unit of analyzable content: either a diff hunk or the
// file's (possibly truncated) full text.
type File struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"` // diff or full
	Text      string `json:"text"`
	Truncated bool   `json:"truncated,omitempty"`
}
