// Package scrape is the HTTP client shared by providers. It paces requests
// per client, sends a browser user agent and turns transport, status and
// decoding failures into *LoadError.
package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent is a mobile Chrome user agent; several sources serve
// lighter markup to it.
const DefaultUserAgent = "Mozilla/5.0 (Linux; Android 10; Mobile) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.5735.131 Mobile Safari/537.36"

const maxBodySize = 64 << 20

// Options configures a Client.
type Options struct {
	Timeout     time.Duration // default 60s
	MinInterval time.Duration // minimum spacing between requests
	UserAgent   string
	Jar         http.CookieJar
}

// Client fetches pages for one provider.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Jar:     opts.Jar,
		},
		userAgent: opts.UserAgent,
		limiter:   newRateLimiter(opts.MinInterval),
	}
}

// RequestOption adjusts an outgoing request.
type RequestOption func(*http.Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Get returns the body of a successful GET request.
func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) ([]byte, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// Document fetches and parses an HTML page.
func (c *Client) Document(ctx context.Context, rawURL string, opts ...RequestOption) (*goquery.Document, error) {
	body, err := c.Get(ctx, rawURL, opts...)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: fmt.Errorf("parse html: %w", err)}
	}
	if base, err := url.Parse(rawURL); err == nil {
		doc.Url = base
	}
	return doc, nil
}

// JSON fetches rawURL and decodes the body into v.
func (c *Client) JSON(ctx context.Context, rawURL string, v any, opts ...RequestOption) error {
	body, err := c.Get(ctx, rawURL, opts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &LoadError{URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Cookies returns the cookies the client's jar holds for rawURL.
func (c *Client) Cookies(rawURL string) []*http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// AbsoluteURL resolves ref against base. Unparseable input is returned
// trimmed and unchanged.
func AbsoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// PlainText strips markup from an HTML fragment.
func PlainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
