package content

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractLinksFiltering(t *testing.T) {
	html := `<html><body>
		<a href="https://example.com/page">Article</a>
		<a href="javascript:void(0)">JS</a>
		<a href="mailto:x@example.com">Mail</a>
		<a href="tel:+1555">Call</a>
		<a href="#section-2">Jump</a>
		<a href="/photo.jpg">Photo</a>
		<a href="/archive.zip">Download</a>
		<a href="/docs/report.pdf.html">Not actually a PDF</a>
		<a href="/relative/path">Relative</a>
	</body></html>`

	links := ExtractLinks(parseDoc(t, html), mustURL(t, "https://example.com/start"))

	var urls []string
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	assert.Equal(t, []string{
		"https://example.com/page",
		"https://example.com/docs/report.pdf.html",
		"https://example.com/relative/path",
	}, urls)
}

func TestExtractLinksDedup(t *testing.T) {
	html := `<html><body>
		<a href="https://example.com/a">First mention</a>
		<a href="https://example.com/b">Other</a>
		<a href="https://example.com/a">Second mention</a>
	</body></html>`

	links := ExtractLinks(parseDoc(t, html), mustURL(t, "https://example.com/"))

	require.Len(t, links, 2)
	assert.Equal(t, "First mention", links[0].Text)
	assert.Equal(t, "https://example.com/a", links[0].URL)
	assert.Equal(t, "https://example.com/b", links[1].URL)
}

func TestLinkTextFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "visible text wins",
			html: `<a href="https://example.com/x" title="Titled">Visible</a>`,
			want: "Visible",
		},
		{
			name: "title attribute",
			html: `<a href="https://example.com/x" title="Titled"></a>`,
			want: "Titled",
		},
		{
			name: "aria label",
			html: `<a href="https://example.com/x" aria-label="Labelled"></a>`,
			want: "Labelled",
		},
		{
			name: "image alt",
			html: `<a href="https://example.com/x"><img src="i.png" alt="A diagram"></a>`,
			want: "A diagram",
		},
		{
			name: "hostname fallback",
			html: `<a href="https://fallback.example.net/x"></a>`,
			want: "fallback.example.net",
		},
		{
			name: "whitespace collapsed",
			html: "<a href=\"https://example.com/x\">spread \n\t out</a>",
			want: "spread out",
		},
		{
			name: "single char too short",
			html: `<a href="https://example.com/x">x</a>`,
			want: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := ExtractLinks(parseDoc(t, "<html><body>"+tt.html+"</body></html>"),
				mustURL(t, "https://example.com/"))
			require.Len(t, links, 1)
			assert.Equal(t, tt.want, links[0].Text)
		})
	}
}

func TestExtractLinksWikipediaCitations(t *testing.T) {
	html := `<html><body>
		<p>Claim<sup class="reference"><a href="#cite_note-1">[1]</a></sup></p>
		<a href="/wiki/Other_article">Other article</a>
		<ol class="references">
			<li id="cite_note-1">
				<a class="external" href="https://source.example.org/paper">The cited paper</a>
			</li>
			<li id="cite_note-2">
				<a class="external" href="https://other.example.org/study">Another study</a>
			</li>
		</ol>
	</body></html>`

	links := ExtractLinks(parseDoc(t, html), mustURL(t, "https://en.wikipedia.org/wiki/Topic"))

	var urls []string
	for _, l := range links {
		urls = append(urls, l.URL)
	}

	// The inline citation resolves to its external target, the wiki link
	// resolves normally, and the reference list's second external link is
	// appended without duplicating the first.
	assert.Equal(t, []string{
		"https://source.example.org/paper",
		"https://en.wikipedia.org/wiki/Other_article",
		"https://other.example.org/study",
	}, urls)
}

func TestExtractLinksNonWikipediaFragmentsDropped(t *testing.T) {
	html := `<html><body>
		<p><sup><a href="#cite_note-1">[1]</a></sup></p>
		<ol class="references">
			<li id="cite_note-1"><a class="external" href="https://x.example.org/">Ref</a></li>
		</ol>
	</body></html>`

	links := ExtractLinks(parseDoc(t, html), mustURL(t, "https://example.com/article"))
	assert.Empty(t, links, "citation handling only applies to the wiki family")
}
