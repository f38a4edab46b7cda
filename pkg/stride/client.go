package stride

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stride-gpt/stride-action/pkg/config"
	"github.com/stride-gpt/stride-action/pkg/errors"
	"github.com/stride-gpt/stride-action/pkg/payload"
)

// Client submits analysis requests to the STRIDE-GPT API.
type Client struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	runID      string
	log        *zap.SugaredLogger
}

// NewClient creates a STRIDE API client from configuration. Each client
// carries a run-scoped correlation ID sent as X-Request-ID.
func NewClient(cfg config.StrideConfig, log *zap.SugaredLogger) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.APIURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay(),
		runID:      uuid.NewString(),
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		log: log,
	}
}

// SetBaseURL points the client at a custom API root. Used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimSuffix(url, "/")
}

// RunID returns the correlation ID for this run.
func (c *Client) RunID() string {
	return c.runID
}

// apiError is the API's error envelope.
type apiError struct {
	Detail string `json:"detail"`
}

// Analyze submits the payload and returns the findings. The request body
// is marshaled once and resent unchanged on retry; only transient
// network/5xx failures are retried, in a bounded loop with explicit
// attempt count and backoff delay.
func (c *Client) Analyze(ctx context.Context, p *payload.Payload) (*Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, errors.ValidationError("failed to serialize analysis payload", err)
	}

	var lastErr error
	attempts := c.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.log.Infow("retrying analysis submission",
				"attempt", attempt+1, "delay", delay.String())
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, errors.TransientError("analysis canceled while waiting to retry", ctx.Err())
			}
		}

		result, err := c.submit(ctx, body)
		if err == nil {
			return result, nil
		}
		if !errors.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// submit performs one POST to the analyze endpoint and classifies the
// response status into the action's error taxonomy.
func (c *Client) submit(ctx context.Context, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, errors.ValidationError("failed to create analysis request", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.TransientError("analysis request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var result Result
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, errors.ValidationError("failed to decode analysis response", err)
		}
		if result.ThreatCount == 0 {
			result.ThreatCount = len(result.Findings)
		}
		return &result, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.AuthError(c.errorDetail(resp,
			"invalid API key or insufficient permissions"), nil)

	case resp.StatusCode == http.StatusPaymentRequired:
		detail := c.errorDetail(resp, "monthly analysis limit reached, please upgrade your plan")
		if strings.Contains(strings.ToLower(detail), "private") {
			return nil, errors.AuthError(detail, nil)
		}
		return nil, errors.RateLimitError(detail, nil)

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.RateLimitError(c.errorDetail(resp,
			"rate limit exceeded, please try again later"), nil)

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		// Surfaced verbatim: the detail is the operator's only hint at
		// what the payload got wrong.
		return nil, errors.ValidationError(c.errorDetail(resp, "analysis payload rejected"), nil)

	case resp.StatusCode >= 500:
		return nil, errors.TransientError(
			fmt.Sprintf("analysis service returned status %d", resp.StatusCode), nil)

	default:
		return nil, errors.ValidationError(
			fmt.Sprintf("unexpected analysis response status %d", resp.StatusCode), nil)
	}
}

// GetUsage retrieves the account's current quota counters.
func (c *Client) GetUsage(ctx context.Context) (*Usage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/usage", nil)
	if err != nil {
		return nil, errors.TransientError("failed to create usage request", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.TransientError("usage request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errors.AuthError(c.errorDetail(resp, "invalid API key"), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.TransientError(
			fmt.Sprintf("usage endpoint returned status %d", resp.StatusCode), nil)
	}

	var usage Usage
	if err := json.NewDecoder(resp.Body).Decode(&usage); err != nil {
		return nil, errors.TransientError("failed to decode usage response", err)
	}
	return &usage, nil
}

// Health reports whether the API answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "stride-action/1.0")
	req.Header.Set("X-Request-ID", c.runID)
}

// errorDetail extracts the API error detail, falling back to a default
// message when the body is empty or unparseable.
func (c *Client) errorDetail(resp *http.Response, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil || len(data) == 0 {
		return fallback
	}
	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Detail == "" {
		return fallback
	}
	return apiErr.Detail
}
