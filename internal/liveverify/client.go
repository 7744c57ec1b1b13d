package liveverify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client handles HTTP requests to the regulator website with rate limiting.
// Safe for concurrent use; one instance is shared across queries.
type Client struct {
	httpClient  *http.Client
	rateLimiter chan struct{}
	baseURL     *url.URL
	userAgent   string
	timeout     time.Duration
}

// NewClient creates a rate-limited client for the regulator website. timeout
// applies per call, independent of any pipeline deadline on the context.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond int) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	rateLimiter := make(chan struct{}, requestsPerSecond)
	for i := 0; i < requestsPerSecond; i++ {
		rateLimiter <- struct{}{}
	}

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(requestsPerSecond))
		defer ticker.Stop()

		for range ticker.C {
			select {
			case rateLimiter <- struct{}{}:
			default:
			}
		}
	}()

	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:       10,
				IdleConnTimeout:    30 * time.Second,
				DisableCompression: false,
			},
		},
		rateLimiter: rateLimiter,
		baseURL:     parsed,
		userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		timeout:     timeout,
	}, nil
}

// BaseURL returns the configured base URL of the regulator website.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResolveURL resolves a possibly relative link against the base URL.
func (c *Client) ResolveURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.baseURL.ResolveReference(ref).String()
}

// Get performs a rate-limited GET and returns the parsed document. The
// per-call timeout is layered onto the caller's context so a slow page can
// never consume the whole pipeline deadline.
func (c *Client) Get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	select {
	case <-c.rateLimiter:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// Close cleans up the client resources
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
