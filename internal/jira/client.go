package jira

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/steveyegge/sprint-tasks/internal/debug"
)

// API constants
const (
	DefaultTimeout   = 30 * time.Second
	MaxResults       = 1000
	maxRetryAfter    = 30 * time.Second
	defaultUserAgent = "sprint-tasks"
)

// Client provides HTTP access to a Jira instance.
type Client struct {
	BaseURL          string
	Email            string
	APIToken         string
	UserAgent        string
	RateLimitRetries int
	HTTPClient       *http.Client

	newBackOff func() backoff.BackOff
	metrics    *instruments
}

// NewClient creates a client for https://<domain>. A domain that already
// carries a scheme is used as is.
func NewClient(domain, email, apiToken string) *Client {
	return &Client{
		BaseURL:          BaseURL("https", domain),
		Email:            email,
		APIToken:         apiToken,
		UserAgent:        defaultUserAgent,
		RateLimitRetries: 3,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		newBackOff: defaultBackOff,
		metrics:    newInstruments(),
	}
}

// BaseURL joins scheme and domain, leaving full URLs untouched.
func BaseURL(scheme, domain string) string {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), "/")
	if strings.Contains(domain, "://") {
		return domain
	}
	return scheme + "://" + domain
}

// WithEndpoint overrides the base URL, e.g. for a test server.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.BaseURL = strings.TrimSuffix(endpoint, "/")
	return c
}

// WithTimeout sets the per-request HTTP timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.HTTPClient.Timeout = d
	return c
}

// WithRateLimitRetries sets how many times a 429 response is retried.
func (c *Client) WithRateLimitRetries(n int) *Client {
	c.RateLimitRetries = n
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	c.UserAgent = ua
	return c
}

// WithBackOff replaces the retry schedule used for rate-limited requests.
func (c *Client) WithBackOff(fn func() backoff.BackOff) *Client {
	c.newBackOff = fn
	return c
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	return bo
}

// retryAfter prefers the server's Retry-After hint over the computed delay.
type retryAfter struct {
	backoff.BackOff
	hint time.Duration
}

func (r *retryAfter) NextBackOff() time.Duration {
	if r.hint > 0 {
		d := r.hint
		r.hint = 0
		return d
	}
	return r.BackOff.NextBackOff()
}

// doRequest executes an authenticated request and returns the response body.
// Rate-limited responses are retried; every other failure is returned as is.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if c.BaseURL == "" || c.BaseURL == "https://" || c.BaseURL == "http://" {
		return nil, fmt.Errorf("jira domain not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	apiURL := c.BaseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	schedule := &retryAfter{BackOff: c.newBackOff()}
	var respBody []byte
	attempt := 0

	op := func() error {
		attempt++
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		c.setHeaders(req)

		debug.Logf("jira: %s %s (attempt %d)\n", method, apiURL, attempt)
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read response: %w", err))
		}
		debug.Logf("jira: %s %s -> %s\n", method, path, resp.Status)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			se := &StatusError{
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(data),
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				schedule.hint = parseRetryAfter(resp.Header.Get("Retry-After"))
				return se
			}
			return backoff.Permanent(se)
		}

		respBody = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(schedule, uint64(c.RateLimitRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", BasicAuth(c.Email, c.APIToken))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}
