// Package fetcher provides HTTP fetching with optional browser rendering fallback.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result contains the fetched HTML and metadata.
type Result struct {
	HTML        string
	FinalURL    string // URL after following redirects
	UsedBrowser bool
	FetchTime   time.Duration
}

// Options configures the fetcher behavior.
type Options struct {
	UserAgent       string
	TimeoutSeconds  int
	ChromePath      string // Path to Chrome binary (empty = auto-detect)
	BrowserFallback bool   // fall back to headless Chrome on blocked pages
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		TimeoutSeconds: 30,
	}
}

// Client fetches pages using the configured options.
type Client struct {
	opts Options
	http *http.Client
}

// New creates a Client. Zero-valued option fields take their defaults.
func New(opts Options) *Client {
	def := DefaultOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = def.TimeoutSeconds
	}
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: time.Duration(opts.TimeoutSeconds) * time.Second},
	}
}

// Timeout returns the configured timeout duration.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.opts.TimeoutSeconds) * time.Second
}

// Simple fetches a URL using standard HTTP (fast, low bandwidth).
func (c *Client) Simple(ctx context.Context, url string) (*Result, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Result{
		HTML:      string(body),
		FinalURL:  resp.Request.URL.String(),
		FetchTime: time.Since(start),
	}, nil
}

// Smart fetches a URL using the best available method: plain HTTP first,
// then the headless browser when the response looks bot-blocked and the
// fallback is enabled.
func (c *Client) Smart(ctx context.Context, url string) (*Result, error) {
	result, err := c.Simple(ctx, url)
	if err == nil {
		blocked, _ := IsBlocked(result.HTML)
		if !blocked {
			return result, nil
		}
	}

	if !c.opts.BrowserFallback {
		if err != nil {
			return nil, err
		}
		_, reason := IsBlocked(result.HTML)
		return result, fmt.Errorf("blocked: %s", reason)
	}

	result, err = c.withBrowser(ctx, url)
	if err != nil {
		return nil, err
	}
	if blocked, reason := IsBlocked(result.HTML); blocked {
		return result, fmt.Errorf("blocked: %s", reason)
	}
	return result, nil
}

// IsBlocked checks if the HTML indicates a blocked/challenged page.
func IsBlocked(html string) (bool, string) {
	if strings.Contains(html, "unusual traffic from your computer") ||
		strings.Contains(html, "detected unusual traffic") {
		return true, "Google CAPTCHA"
	}
	if strings.Contains(html, "recaptcha") && len(html) < 10000 {
		return true, "reCAPTCHA challenge"
	}
	if strings.Contains(html, "Just a moment...") ||
		strings.Contains(html, "Checking your browser") ||
		strings.Contains(html, "cf-browser-verification") {
		return true, "Cloudflare challenge"
	}
	if strings.Contains(html, "Before you continue") && strings.Contains(html, "consent.google") {
		return true, "Google consent page"
	}
	// DataDome bot protection (used by Reuters, WSJ, etc.)
	if strings.Contains(html, "captcha-delivery.com") || strings.Contains(html, "DataDome") {
		return true, "DataDome bot protection"
	}
	if strings.Contains(html, "perimeterx") || strings.Contains(html, "px-captcha") {
		return true, "PerimeterX bot protection"
	}
	return false, ""
}
