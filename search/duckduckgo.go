package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DuckDuckGo implements the Provider interface using the DuckDuckGo HTML
// endpoint. It needs no credential, so it serves as the keyless fallback.
type DuckDuckGo struct {
	client *http.Client
}

// NewDuckDuckGo creates a new DuckDuckGo search provider.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		client: &http.Client{},
	}
}

// Name returns the provider name.
func (d *DuckDuckGo) Name() string {
	return "DuckDuckGo"
}

// Search performs a DuckDuckGo search and returns parsed results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) (*Response, error) {
	searchURL := fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Set headers to look like a browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	organic, err := parseDuckDuckGo(string(body))
	if err != nil {
		return nil, err
	}

	return &Response{Organic: organic}, nil
}

// parseDuckDuckGo extracts organic results from DuckDuckGo HTML.
func parseDuckDuckGo(htmlContent string) ([]Organic, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var organic []Organic

	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			if hasClass(n, "result") || hasClass(n, "results_links") {
				if o, ok := extractOrganic(n); ok {
					organic = append(organic, o)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findResults(c)
		}
	}
	findResults(doc)

	// Deduplicate by URL, first occurrence wins
	seen := make(map[string]bool)
	var unique []Organic
	for _, o := range organic {
		if !seen[o.Link] {
			seen[o.Link] = true
			o.Position = len(unique) + 1
			unique = append(unique, o)
		}
	}

	return unique, nil
}

// extractOrganic extracts a single result from a result div.
func extractOrganic(n *html.Node) (Organic, bool) {
	var o Organic

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			if hasClass(node, "result__a") {
				o.Title = collapseSpace(textContent(node))
				o.Link = unwrapRedirect(attrValue(node, "href"))
			}
			if hasClass(node, "result__snippet") {
				o.Snippet = collapseSpace(textContent(node))
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return o, o.Link != "" && o.Title != ""
}

// unwrapRedirect extracts the target URL from DuckDuckGo's redirect wrapper.
func unwrapRedirect(href string) string {
	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if uddg := u.Query().Get("uddg"); uddg != "" {
				return uddg
			}
		}
	}
	return href
}

// hasClass checks if a node has a specific class.
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// textContent extracts all text content from a node.
func textContent(n *html.Node) string {
	var text strings.Builder

	var extract func(*html.Node)
	extract = func(node *html.Node) {
		if node.Type == html.TextNode {
			text.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)

	return text.String()
}

var spaceRE = regexp.MustCompile(`\s+`)

// collapseSpace normalizes whitespace in text.
func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}
