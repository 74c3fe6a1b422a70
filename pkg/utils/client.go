package utils

import (
	"context"
	"net/http"
	"time"

	"github.com/kerbaras/threadgrab/pkg/data"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.77 Safari/537.36"

// Client is a read-only HTTP client shared by every request of a run.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient builds a Client. A zero timeout means requests never time out.
func NewClient(userAgent string, timeout time.Duration) *Client {
	return NewClientWith(&http.Client{Timeout: timeout}, userAgent)
}

// NewClientWith wraps an existing *http.Client.
func NewClientWith(hc *http.Client, userAgent string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{client: hc, userAgent: userAgent}
}

// UserAgent returns the User-Agent header value sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Get issues a GET for url. A response outside the 2xx range is closed and
// reported as *data.FetchError; on success the caller owns the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &data.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &data.FetchError{URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &data.FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
