package content

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is a navigable link extracted from a page.
type Link struct {
	Text string
	URL  string // absolute
}

// Schemes that cannot be navigated by the browsing engine.
var skipSchemes = []string{"javascript:", "mailto:", "tel:", "sms:", "data:", "blob:"}

// Non-document file extensions that are pointless to open in a text view.
var skipExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".bmp": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true, ".7z": true,
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true,
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".pdf": true,
	".exe": true, ".dmg": true, ".iso": true,
}

var wsRE = regexp.MustCompile(`\s+`)

// ExtractLinks walks every anchor in the document, resolves hrefs against
// baseURL, filters out non-navigable targets, and deduplicates by absolute
// URL with first occurrence winning, in document order.
func ExtractLinks(doc *goquery.Document, baseURL *url.URL) []Link {
	var links []Link
	seen := make(map[string]bool)

	add := func(text, absolute string) {
		if seen[absolute] {
			return
		}
		seen[absolute] = true
		links = append(links, Link{Text: text, URL: absolute})
	}

	citations := wikipediaCitations(doc, baseURL)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		// Inline citation markers on reference-heavy wiki pages point at
		// internal anchors; swap in the cited external URL when we have one.
		if target, ok := citations[strings.TrimPrefix(href, "#")]; ok && strings.HasPrefix(href, "#") {
			add(linkText(a, target), target)
			return
		}

		absolute, ok := resolveNavigable(href, baseURL)
		if !ok {
			return
		}
		add(linkText(a, absolute), absolute)
	})

	// The reference list's own external links are navigable in their own
	// right, still deduplicated against everything above.
	for _, ref := range referenceExternals(doc, baseURL) {
		add(ref.Text, ref.URL)
	}

	return links
}

// resolveNavigable resolves href against base and reports whether the
// result is something the engine can open.
func resolveNavigable(href string, base *url.URL) (string, bool) {
	lower := strings.ToLower(href)
	for _, scheme := range skipSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}
	// Same-page fragment
	if strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}

	if ext := strings.ToLower(path.Ext(abs.Path)); skipExtensions[ext] {
		return "", false
	}

	return abs.String(), true
}

// linkText derives display text for an anchor. Visible text wins; otherwise
// an ordered fallback chain is tried until something non-empty turns up.
func linkText(a *goquery.Selection, absolute string) string {
	candidates := []func() string{
		func() string { return a.Text() },
		func() string { t, _ := a.Attr("title"); return t },
		func() string { t, _ := a.Attr("aria-label"); return t },
		func() string { t, _ := a.Find("img").Attr("alt"); return t },
		func() string {
			if u, err := url.Parse(absolute); err == nil {
				return u.Hostname()
			}
			return ""
		},
	}

	for _, candidate := range candidates {
		text := strings.TrimSpace(wsRE.ReplaceAllString(candidate(), " "))
		if len(text) >= 2 {
			return text
		}
	}
	return "Link"
}

// isWikipedia reports whether the page belongs to the wiki family that
// uses cite_note reference anchors.
func isWikipedia(base *url.URL) bool {
	if base == nil {
		return false
	}
	host := strings.ToLower(base.Hostname())
	return strings.HasSuffix(host, ".wikipedia.org") || host == "wikipedia.org"
}

// wikipediaCitations maps cite_note anchor IDs to the first external URL
// cited in the corresponding reference-list entry.
func wikipediaCitations(doc *goquery.Document, base *url.URL) map[string]string {
	if !isWikipedia(base) {
		return nil
	}

	cites := make(map[string]string)
	doc.Find("ol.references li[id]").Each(func(_ int, li *goquery.Selection) {
		id, _ := li.Attr("id")
		if !strings.HasPrefix(id, "cite_note") {
			return
		}
		href, ok := li.Find("a.external[href]").First().Attr("href")
		if !ok {
			return
		}
		if abs, ok := resolveNavigable(href, base); ok {
			cites[id] = abs
		}
	})
	return cites
}

// referenceExternals collects the external links listed in a wiki page's
// reference section.
func referenceExternals(doc *goquery.Document, base *url.URL) []Link {
	if !isWikipedia(base) {
		return nil
	}

	var refs []Link
	doc.Find("ol.references a.external[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs, ok := resolveNavigable(href, base)
		if !ok {
			return
		}
		refs = append(refs, Link{Text: linkText(a, abs), URL: abs})
	})
	return refs
}
