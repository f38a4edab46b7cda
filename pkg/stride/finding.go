// Package stride provides the client for the STRIDE-GPT threat-analysis
// API and the finding types it returns.
package stride

// Severity is a finding's severity level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank orders severities for display: Critical first, Info last. Unknown
// severities sort after Info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// The six STRIDE threat categories.
const (
	CategorySpoofing              = "Spoofing"
	CategoryTampering             = "Tampering"
	CategoryRepudiation           = "Repudiation"
	CategoryInformationDisclosure = "Information Disclosure"
	CategoryDenialOfService       = "Denial of Service"
	CategoryElevationOfPrivilege  = "Elevation of Privilege"
)

// Finding is one reported potential security issue. Read-only from the
// action's perspective.
type Finding struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Description string   `json:"description"`
	DreadScore  float64  `json:"dread_score,omitempty"`
}

// Result is a completed analysis response.
type Result struct {
	AnalysisID  string    `json:"analysis_id"`
	ThreatCount int       `json:"threat_count"`
	Findings    []Finding `json:"threats"`

	// Truncated reports that the API cut the finding list (free tier cap).
	Truncated        bool   `json:"truncated,omitempty"`
	UpgradeMessage   string `json:"upgrade_message,omitempty"`
	LimitationNotice string `json:"limitation_notice,omitempty"`

	// Usage carries the caller's quota counters when the API returns them.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage is the account's quota state.
type Usage struct {
	AnalysesUsed  int    `json:"analyses_used"`
	AnalysesLimit int    `json:"analyses_limit"`
	Plan          string `json:"plan"`
	PeriodStart   string `json:"period_start,omitempty"`
	PeriodEnd     string `json:"period_end,omitempty"`
	Account       string `json:"account,omitempty"`
}
