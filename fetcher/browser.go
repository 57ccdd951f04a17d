package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// stealthScript masks the most common automation signals so challenge
// pages resolve instead of looping.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
window.chrome = { runtime: {}, loadTimes: function() {}, csi: function() {}, app: {} };
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
`

// withBrowser fetches a URL using headless Chrome to execute JavaScript.
// Slower than Simple, but survives JS challenges and rendered content.
func (c *Client) withBrowser(ctx context.Context, targetURL string) (*Result, error) {
	start := time.Now()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("headless", "new"),
		chromedp.UserAgent(c.opts.UserAgent),
		chromedp.WindowSize(1920, 1080),
	}
	if c.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	// Browser fetches need more headroom than plain HTTP.
	timeout := c.Timeout()
	if timeout < 30*time.Second {
		timeout = 45 * time.Second
	} else {
		timeout += 15 * time.Second
	}
	runCtx, cancel := context.WithTimeout(allocCtx, timeout)
	defer cancel()

	runCtx, cancel = chromedp.NewContext(runCtx)
	defer cancel()

	var html string
	var finalURL string
	err := chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		// If a Cloudflare challenge is still resolving, give it time.
		chromedp.ActionFunc(func(ctx context.Context) error {
			var title string
			if err := chromedp.Title(&title).Do(ctx); err != nil {
				return nil
			}
			if title == "Just a moment..." {
				return chromedp.Sleep(5 * time.Second).Do(ctx)
			}
			return nil
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch: %w", err)
	}

	return &Result{
		HTML:        html,
		FinalURL:    finalURL,
		UsedBrowser: true,
		FetchTime:   time.Since(start),
	}, nil
}
