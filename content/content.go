// Package content extracts readable text and navigable links from fetched
// webpages.
package content

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is the normalized content record for one viewed webpage.
type Page struct {
	Title         string
	SiteName      string
	Excerpt       string // first line of the extracted text
	TruncatedText string // bounded to the summary length, ellipsis-marked
	FullText      string // unbounded
	SourceURL     string
	Links         []Link // deduplicated, document order, capped
}

// Ellipsis marks truncated text in page views.
const Ellipsis = "…"

// Extractor turns raw HTML into a Page.
type Extractor struct {
	summaryLen int // characters of text shown per view
	linkLimit  int // links stored per page
}

// NewExtractor creates an extractor with the given bounds.
func NewExtractor(summaryLen, linkLimit int) *Extractor {
	return &Extractor{summaryLen: summaryLen, linkLimit: linkLimit}
}

// Extract parses rawHTML fetched from sourceURL into a Page. A page that
// fails rich extraction still comes back with whatever the document
// exposes; only an unusable source URL or unparseable input is an error.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*Page, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("parsing source URL: %w", err)
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	page := &Page{
		Title:     pageTitle(doc, base),
		SiteName:  siteName(doc, base),
		SourceURL: sourceURL,
	}

	// Prefer the article body; fall back outward until something has text.
	page.FullText = extractText(contentRoot(root))
	if page.FullText == "" {
		if body := findElement(root, "body"); body != nil {
			page.FullText = extractText(body)
		}
	}

	page.Excerpt = firstLine(page.FullText)
	page.TruncatedText = Truncate(page.FullText, e.summaryLen)

	links := ExtractLinks(doc, base)
	if len(links) > e.linkLimit {
		links = links[:e.linkLimit]
	}
	page.Links = links

	return page, nil
}

// pageTitle resolves the page title through the usual fallbacks.
func pageTitle(doc *goquery.Document, base *url.URL) string {
	candidates := []string{
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
		base.Hostname(),
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(wsRE.ReplaceAllString(c, " ")); c != "" {
			return c
		}
	}
	return base.String()
}

func siteName(doc *goquery.Document, base *url.URL) string {
	if name := strings.TrimSpace(doc.Find(`meta[property="og:site_name"]`).AttrOr("content", "")); name != "" {
		return name
	}
	return base.Hostname()
}

// contentRoot finds the most article-like element to extract text from.
func contentRoot(root *html.Node) *html.Node {
	for _, tag := range []string{"article", "main", "body"} {
		if n := findElement(root, tag); n != nil {
			return n
		}
	}
	return root
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// Elements whose text is chrome, not content.
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"nav": true, "aside": true, "header": true, "footer": true,
	"form": true, "iframe": true, "svg": true, "button": true,
}

// Elements that end a line of text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "blockquote": true, "pre": true,
	"ul": true, "ol": true, "table": true, "br": true, "hr": true,
}

// extractText walks the subtree and renders it as plain text, one line per
// block element, list items bulleted.
func extractText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipElements[n.Data] {
				return
			}
			if n.Data == "li" {
				sb.WriteString("- ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			sb.WriteString("\n")
		}
	}
	walk(n)

	return tidyText(sb.String())
}

// tidyText trims each line and collapses runs of blank lines.
func tidyText(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(wsRE.ReplaceAllString(line, " "))
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// Truncate bounds s to max characters, appending the ellipsis marker when
// anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + Ellipsis
}

// Chunk returns the slice of s from offset to offset+size in characters.
// It returns "" once offset reaches or passes the end of s.
func Chunk(s string, offset, size int) string {
	runes := []rune(s)
	if offset >= len(runes) || offset < 0 || size <= 0 {
		return ""
	}
	end := offset + size
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[offset:end])
}
