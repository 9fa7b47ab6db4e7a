// ABOUTME: HTTP client for the external user service
// ABOUTME: Wraps the fetch-by-id and create-or-update calls as status+body request/response pairs
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// defaultBaseURL is the fixed endpoint of the external user service.
const defaultBaseURL = "https://dummyjson.com"

// Client issues the two remote calls. It holds no local state and performs no
// persistence; a call either returns the remote status and body or a
// TransportError.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the remote endpoint, mainly for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUser issues GET {base}/users/{id}. It returns whatever status and body
// the remote answered with; interpreting the status is the caller's job.
func (c *Client) FetchUser(ctx context.Context, externalID string) (int, []byte, error) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(externalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, &TransportError{Op: "fetch user", Err: err}
	}

	return c.do(req, "fetch user")
}

// CreateOrUpdateUser issues POST {base}/users/add with a JSON body.
func (c *Client) CreateOrUpdateUser(ctx context.Context, payload PushPayload) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/add", bytes.NewReader(body))
	if err != nil {
		return 0, nil, &TransportError{Op: "create or update user", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "create or update user")
}

func (c *Client) do(req *http.Request, op string) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}

	return resp.StatusCode, body, nil
}
