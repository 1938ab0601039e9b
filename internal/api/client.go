package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the default monitoring API base URL.
	BaseURL = "https://api.monitoring360.io/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is 10 requests per second per API documentation.
	RateLimit = 10.0

	// DefaultPerPage is the default page size for server listings.
	DefaultPerPage = 5000
)

// Client is a rate-limited HTTP client for the monitoring API.
//
// A successful server listing is cached for the lifetime of the client, so
// commands that both list and mutate within one invocation issue a single
// GET.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
	perPage    int

	servers []Server // cached listing, nil until first fetch
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the API token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithPerPage sets the page size requested for server listings.
func WithPerPage(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// NewClient creates a new monitoring API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		perPage:    DefaultPerPage,
	}

	// Check for API token in environment
	if token := os.Getenv("M360_API_KEY"); token != "" {
		c.token = token
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// do executes one authenticated request against the API.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	if err := checkHTTPErrors(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// Servers fetches the list of monitored servers.
//
// The decoded list is cached: repeated calls within one invocation return
// the same snapshot without touching the network.
func (c *Client) Servers(ctx context.Context) ([]Server, error) {
	if c.servers != nil {
		return c.servers, nil
	}

	query := url.Values{}
	query.Set("perpage", strconv.Itoa(c.perPage))

	resp, err := c.do(ctx, http.MethodGet, "/servers", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var wrapper serversResponse
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("%w: parsing server list: %v", ErrInvalidResponse, err)
	}

	c.servers = wrapper.Servers
	if c.servers == nil {
		c.servers = []Server{}
	}
	return c.servers, nil
}

// UpdateServerTags replaces the tags of the server with the given ID.
func (c *Client) UpdateServerTags(ctx context.Context, serverID string, tags []string) error {
	resp, err := c.do(ctx, http.MethodPut, "/server/"+serverID, nil, tagsRequest{Tags: tags})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.ServerID = serverID
		}
		return err
	}
	resp.Body.Close()
	return nil
}
