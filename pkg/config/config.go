// Package config provides configuration management for stride-action.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Project Config: ./.stride-gpt.yaml (searched upward from cwd)
// 3. Environment Variables: STRIDE_API_KEY, GITHUB_TOKEN, TRIGGER_MODE, ...
package config

import (
	"time"
)

// TriggerMode selects which class of CI event activates analysis.
type TriggerMode string

const (
	// ModeComment activates on @stride-gpt mentions in issue/PR comments.
	ModeComment TriggerMode = "comment"
	// ModePR activates on pull_request opened/synchronize events.
	ModePR TriggerMode = "pr"
	// ModeManual activates on workflow_dispatch and scans the whole repository.
	ModeManual TriggerMode = "manual"
)

// Config represents the complete action configuration.
type Config struct {
	Stride StrideConfig `yaml:"stride"`
	GitHub GitHubConfig `yaml:"github"`
	Limits LimitsConfig `yaml:"limits"`
	Global GlobalConfig `yaml:"global"`
}

// StrideConfig contains STRIDE-GPT API settings.
type StrideConfig struct {
	// APIKey is never read from a config file, only from STRIDE_API_KEY.
	APIKey         string `yaml:"-"`
	APIURL         string `yaml:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryDelayMS   int    `yaml:"retry_delay_ms"`
}

// Timeout returns the analysis submission timeout.
func (s StrideConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base delay between transient-error retries.
func (s StrideConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMS) * time.Millisecond
}

// GitHubConfig contains GitHub API settings.
type GitHubConfig struct {
	// Token is never read from a config file, only from GITHUB_TOKEN.
	Token            string      `yaml:"-"`
	TriggerMode      TriggerMode `yaml:"trigger_mode"`
	BaseURL          string      `yaml:"base_url"` // for GitHub Enterprise
	MaxCommentLength int         `yaml:"max_comment_length"`
}

// LimitsConfig bounds the size of analysis payloads. The ceilings are
// product decisions tied to the API's request-size limits and are
// deliberately configurable.
type LimitsConfig struct {
	// MaxFileBytes excludes files larger than this from payloads.
	MaxFileBytes int `yaml:"max_file_bytes"`
	// MaxDiffBytes switches a file from diff hunks to truncated full
	// content once its patch exceeds this size.
	MaxDiffBytes int `yaml:"max_diff_bytes"`
	// MaxContentChars truncates full file content to this many characters.
	MaxContentChars int `yaml:"max_content_chars"`
	// ExcludedExtensions lists file extensions treated as binary.
	ExcludedExtensions []string `yaml:"excluded_extensions"`
}

// GlobalConfig contains global settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// Default payload ceilings. Documented here because the external API does
// not publish hard limits; these keep free-tier requests comfortably under
// its observed rejection threshold.
const (
	DefaultMaxFileBytes    = 100 * 1024
	DefaultMaxDiffBytes    = 16 * 1024
	DefaultMaxContentChars = 20000
	DefaultTimeoutSeconds  = 60
	DefaultMaxRetries      = 2
	DefaultRetryDelayMS    = 2000
	DefaultAPIURL          = "https://api.stridegpt.ai"
	DefaultCommentLength   = 65536
)

// defaultExcludedExtensions covers common binary formats that carry no
// analyzable source text.
var defaultExcludedExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf",
	".zip", ".tar", ".gz", ".jar", ".exe", ".dll", ".so",
	".woff", ".woff2", ".ttf", ".eot", ".mp4", ".mp3",
	".bin", ".dat", ".lock",
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Stride.APIURL == "" {
		cfg.Stride.APIURL = DefaultAPIURL
	}
	if cfg.Stride.TimeoutSeconds == 0 {
		cfg.Stride.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Stride.MaxRetries == 0 {
		cfg.Stride.MaxRetries = DefaultMaxRetries
	}
	if cfg.Stride.RetryDelayMS == 0 {
		cfg.Stride.RetryDelayMS = DefaultRetryDelayMS
	}
	if cfg.GitHub.TriggerMode == "" {
		cfg.GitHub.TriggerMode = ModeComment
	}
	if cfg.GitHub.MaxCommentLength == 0 {
		cfg.GitHub.MaxCommentLength = DefaultCommentLength
	}
	if cfg.Limits.MaxFileBytes == 0 {
		cfg.Limits.MaxFileBytes = DefaultMaxFileBytes
	}
	if cfg.Limits.MaxDiffBytes == 0 {
		cfg.Limits.MaxDiffBytes = DefaultMaxDiffBytes
	}
	if cfg.Limits.MaxContentChars == 0 {
		cfg.Limits.MaxContentChars = DefaultMaxContentChars
	}
	if len(cfg.Limits.ExcludedExtensions) == 0 {
		cfg.Limits.ExcludedExtensions = defaultExcludedExtensions
	}
	if cfg.Global.LogLevel == "" {
		cfg.Global.LogLevel = "info"
	}
}
