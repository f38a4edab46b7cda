// Package report renders threat findings into Markdown and publishes them
// as GitHub comments.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stride-gpt/stride-action/pkg/stride"
)

// severityEmoji maps severities to their report markers.
var severityEmoji = map[stride.Severity]string{
	stride.SeverityCritical: "🔴",
	stride.SeverityHigh:     "🟠",
	stride.SeverityMedium:   "🟡",
	stride.SeverityLow:      "🟢",
	stride.SeverityInfo:     "🔵",
}

// sortFindings orders findings for display: severity Critical→Info, then
// file path, then line. The sort is stable so equal keys keep the
// insertion order from the API response, making renders of the same
// finding set identical.
func sortFindings(findings []stride.Finding) []stride.Finding {
	sorted := make([]stride.Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return sorted
}

// RenderAnalysis turns an analysis result into the Markdown report body.
// scope describes what was analyzed, e.g. "Changed files in PR #12".
func RenderAnalysis(result *stride.Result, scope string) string {
	if result.ThreatCount == 0 {
		return renderNoThreats(result, scope)
	}

	findings := sortFindings(result.Findings)

	counts := map[stride.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}

	var b strings.Builder
	b.WriteString("## 🛡️ STRIDE Security Analysis\n\n")
	b.WriteString("### Summary\n")
	fmt.Fprintf(&b, "- **Threats Found**: %d\n", result.ThreatCount)
	fmt.Fprintf(&b, "- **Analysis Scope**: %s\n", scope)
	fmt.Fprintf(&b, "- **Severity Levels**: %d Critical, %d High, %d Medium, %d Low, %d Info\n",
		counts[stride.SeverityCritical], counts[stride.SeverityHigh],
		counts[stride.SeverityMedium], counts[stride.SeverityLow],
		counts[stride.SeverityInfo])
	b.WriteString("\n### Identified Threats\n\n")

	for _, f := range findings {
		emoji := severityEmoji[f.Severity]
		if emoji == "" {
			emoji = "🟡"
		}
		title := f.Title
		if title == "" {
			title = "Unknown Threat"
		}
		fmt.Fprintf(&b, "#### %s %s: %s\n", emoji, strings.ToUpper(string(f.Severity)), title)
		fmt.Fprintf(&b, "**Category**: %s\n", f.Category)
		if f.File != "" {
			if f.Line > 0 {
				fmt.Fprintf(&b, "**File**: `%s:%d`\n", f.File, f.Line)
			} else {
				fmt.Fprintf(&b, "**File**: `%s`\n", f.File)
			}
		}
		if f.DreadScore > 0 {
			fmt.Fprintf(&b, "**DREAD Score**: %.1f/10\n", f.DreadScore)
		}
		fmt.Fprintf(&b, "**Description**: %s\n\n", f.Description)
	}

	if result.Truncated && result.UpgradeMessage != "" {
		fmt.Fprintf(&b, "---\n\n⚠️ **%s**\n\n", result.UpgradeMessage)
	}
	if result.LimitationNotice != "" {
		fmt.Fprintf(&b, "> %s\n\n", result.LimitationNotice)
	}

	b.WriteString(usageFooter(result.Usage))
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// renderNoThreats is the zero-findings report.
func renderNoThreats(result *stride.Result, scope string) string {
	var b strings.Builder
	b.WriteString("## 🛡️ STRIDE Security Analysis\n\n")
	b.WriteString("### ✅ No Security Threats Detected\n\n")
	b.WriteString("No obvious security threats were found.\n\n")
	b.WriteString("### Analysis Details\n")
	fmt.Fprintf(&b, "- **Analysis Scope**: %s\n", scope)
	b.WriteString("- **Analysis Type**: STRIDE methodology\n")
	if result.LimitationNotice != "" {
		fmt.Fprintf(&b, "\n> %s\n", result.LimitationNotice)
	}
	b.WriteString(usageFooter(result.Usage))
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// RenderHelp is the canned response for @stride-gpt help.
func RenderHelp() string {
	return `## 🛡️ STRIDE-GPT Help

### Available Commands
- ` + "`@stride-gpt analyze`" + ` - Run security analysis on changed files
- ` + "`@stride-gpt help`" + ` - Show this help message
- ` + "`@stride-gpt status`" + ` - Check your usage limits

### Free Tier Limits
- **50 analyses per month** per GitHub account
- **5 threats maximum** per analysis
- **Public repositories only**

[View Pricing →](https://stridegpt.ai/pricing)
`
}

// RenderStatus formats the account's usage counters.
func RenderStatus(usage *stride.Usage) string {
	remaining := usage.AnalysesLimit - usage.AnalysesUsed
	if remaining < 0 {
		remaining = 0
	}

	var b strings.Builder
	b.WriteString("## 📊 STRIDE-GPT Usage Status\n\n")
	b.WriteString("### Current Month\n")
	fmt.Fprintf(&b, "- **Analyses Used**: %d of %d\n", usage.AnalysesUsed, usage.AnalysesLimit)
	fmt.Fprintf(&b, "- **Remaining**: %d\n", remaining)
	plan := usage.Plan
	if plan == "" {
		plan = "Free"
	}
	fmt.Fprintf(&b, "- **Plan**: %s\n", plan)
	if usage.PeriodStart != "" && usage.PeriodEnd != "" {
		fmt.Fprintf(&b, "- **Current Period**: %s to %s\n", usage.PeriodStart, usage.PeriodEnd)
	}
	return b.String()
}

// RenderError formats a user-facing failure comment. The message must
// identify what failed; the CI log carries the details.
func RenderError(message string) string {
	return fmt.Sprintf(`## ❌ STRIDE-GPT Error

%s

### Need Help?
- Use `+"`@stride-gpt help`"+` to see available commands
- Visit the [documentation](https://stridegpt.ai/docs)
`, message)
}

// RenderLimitReached is the comment posted when the usage or rate limit
// blocks an analysis.
func RenderLimitReached(detail string) string {
	var b strings.Builder
	b.WriteString("## 🛑 Analysis Limit Reached\n\n")
	b.WriteString(detail)
	b.WriteString("\n\nYour limit resets at the beginning of next month. ")
	b.WriteString("[Upgrade →](https://stridegpt.ai/pricing) to continue analyzing today.\n")
	return b.String()
}

// usageFooter appends the quota footer when the response carried counters.
func usageFooter(usage *stride.Usage) string {
	if usage == nil || usage.AnalysesLimit == 0 {
		return ""
	}
	return fmt.Sprintf("\n*You've used %d of %d analyses this month*\n",
		usage.AnalysesUsed, usage.AnalysesLimit)
}
