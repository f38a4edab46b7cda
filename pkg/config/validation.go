package config

import (
	"fmt"

	"github.com/stride-gpt/stride-action/pkg/errors"
)

// minCommentLength is the smallest usable comment budget: anything below
// it cannot hold even the report header and the truncation marker.
const minCommentLength = 256

// Validate checks the configuration before any network call is made.
// Missing secrets and a malformed trigger mode are configuration errors;
// the operator must fix the workflow, so they fail the run immediately.
func (c *Config) Validate() error {
	if c.Stride.APIKey == "" {
		return errors.ConfigError(
			"STRIDE_API_KEY is required, get your free key at https://stridegpt.ai", nil)
	}
	if c.GitHub.Token == "" {
		return errors.ConfigError("GITHUB_TOKEN is required", nil)
	}

	switch c.GitHub.TriggerMode {
	case ModeComment, ModePR, ModeManual:
	default:
		return errors.ConfigError(
			fmt.Sprintf("invalid trigger mode %q (expected comment, pr or manual)", c.GitHub.TriggerMode), nil)
	}

	if c.Stride.TimeoutSeconds < 0 {
		return errors.ConfigError("timeout_seconds must not be negative", nil)
	}
	if c.Stride.MaxRetries < 0 {
		return errors.ConfigError("max_retries must not be negative", nil)
	}
	if c.Limits.MaxFileBytes <= 0 || c.Limits.MaxDiffBytes <= 0 || c.Limits.MaxContentChars <= 0 {
		return errors.ConfigError("payload size limits must be positive", nil)
	}
	if c.GitHub.MaxCommentLength < minCommentLength {
		return errors.ConfigError(
			fmt.Sprintf("max_comment_length must be at least %d", minCommentLength), nil)
	}

	return nil
}
