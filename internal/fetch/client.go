package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// ErrStatus is wrapped by StatusError for any non-2xx response.
var ErrStatus = errors.New("unexpected response status")

// Response is the status and raw body of one fetched document.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError describes a response that arrived but was not successful.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Check converts a non-2xx response into a *StatusError.
func Check(resp *Response) error {
	if resp.OK() {
		return nil
	}
	if resp == nil {
		return fmt.Errorf("empty response: %w", ErrStatus)
	}
	return &StatusError{URL: resp.URL, StatusCode: resp.StatusCode}
}

// Fetcher retrieves a document by URL. Non-2xx statuses are returned as a Response,
// transport failures as an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Client fetches documents over HTTP.
type Client struct {
	UserAgent  string
	httpClient *http.Client
}

// NewClient creates a client whose requests are bounded by timeout
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		UserAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch issues a GET for url and reads the whole body.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	return &Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
