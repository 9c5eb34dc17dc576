package description

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ssdpscan/internal/logging"
	"github.com/muurk/ssdpscan/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// MaxDocumentSize caps how much of a response body is read
	MaxDocumentSize = 1 << 20
)

// Client fetches device descriptions from the LOCATION of a search response
type Client struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff doubles RetryDelay after every attempt
	UseExponentialBackoff bool

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a description client with default settings
func NewClient() *Client {
	return &Client{
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		UserAgent:             version.UserAgent(),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Describe fetches and parses the description document at location.
//
// Network failures and 5xx responses are retried up to MaxRetries times.
// DNS failures, 4xx responses and documents that fail to parse are returned
// immediately. Every error is a *FetchError.
func (c *Client) Describe(ctx context.Context, location string) (*Description, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, newInvalidURLError(location, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, newInvalidURLError(location, fmt.Errorf("unsupported URL %q", location))
	}

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, currentDelay); err != nil {
				return nil, newNetworkError(location, "request cancelled", err)
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if c.MaxRetryDelay > 0 && currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		desc, err := c.describeAttempt(ctx, location, attempt)
		if err == nil {
			return desc, nil
		}

		lastErr = err
		if !IsRetryable(err) || ctx.Err() != nil {
			return nil, err
		}

		logging.Debug("Retrying description fetch",
			zap.String("location", location),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

// describeAttempt performs a single GET of the description
func (c *Client) describeAttempt(ctx context.Context, location string, attempt int) (*Description, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, newInvalidURLError(location, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, newNetworkError(location, "GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogHTTPRequest(req.Method, location, resp.StatusCode, attempt+1)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(location, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize))
	if err != nil {
		return nil, newNetworkError(location, "failed to read response body", err)
	}
	logging.LogRawBytes("description", body)

	desc, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, newParseError(location, err)
	}
	return desc, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
