package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="The Real Title">
	<meta property="og:site_name" content="Example News">
</head>
<body>
	<nav><a href="/nav">Navigation junk</a></nav>
	<article>
		<h1>The Real Title</h1>
		<p>Opening paragraph of the article.</p>
		<p>Second paragraph with a <a href="/more">related story</a>.</p>
		<ul><li>point one</li><li>point two</li></ul>
	</article>
	<footer>Footer junk</footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	e := NewExtractor(1500, 15)
	page, err := e.Extract(articleHTML, "https://news.example.com/story/1")
	require.NoError(t, err)

	assert.Equal(t, "The Real Title", page.Title)
	assert.Equal(t, "Example News", page.SiteName)
	assert.Equal(t, "https://news.example.com/story/1", page.SourceURL)

	assert.Equal(t, "The Real Title", page.Excerpt, "excerpt is the first line of extracted text")
	assert.Contains(t, page.FullText, "Opening paragraph of the article.")
	assert.Contains(t, page.FullText, "- point one")
	assert.NotContains(t, page.FullText, "Navigation junk")
	assert.NotContains(t, page.FullText, "Footer junk")

	// Links come from the whole document, article or not, but the nav link
	// and the body link both resolve against the page URL.
	var urls []string
	for _, l := range page.Links {
		urls = append(urls, l.URL)
	}
	assert.Contains(t, urls, "https://news.example.com/more")
}

func TestExtractTruncation(t *testing.T) {
	long := strings.Repeat("words and more words. ", 200)
	html := "<html><body><article><p>" + long + "</p></article></body></html>"

	e := NewExtractor(100, 15)
	page, err := e.Extract(html, "https://example.com/")
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(page.TruncatedText, Ellipsis))
	assert.Equal(t, 100, len([]rune(page.TruncatedText))-len([]rune(Ellipsis)))
	assert.Greater(t, len(page.FullText), len(page.TruncatedText))
}

func TestExtractShortTextNotTruncated(t *testing.T) {
	e := NewExtractor(1500, 15)
	page, err := e.Extract("<html><body><p>Short.</p></body></html>", "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "Short.", page.TruncatedText)
}

func TestExtractLinkCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		sb.WriteString(`<a href="https://example.com/p` + strings.Repeat("x", i+1) + `">Link text</a>`)
	}
	sb.WriteString("</body></html>")

	e := NewExtractor(1500, 15)
	page, err := e.Extract(sb.String(), "https://example.com/")
	require.NoError(t, err)
	assert.Len(t, page.Links, 15)
}

func TestExtractFallsBackToBodyText(t *testing.T) {
	// No article or main, minimal markup: title and raw text still come out.
	html := `<html><head><title>Bare Page</title></head><body>just some text</body></html>`
	e := NewExtractor(1500, 15)
	page, err := e.Extract(html, "https://example.com/bare")
	require.NoError(t, err)

	assert.Equal(t, "Bare Page", page.Title)
	assert.Equal(t, "example.com", page.SiteName)
	assert.Contains(t, page.FullText, "just some text")
}

func TestExtractBadSourceURL(t *testing.T) {
	e := NewExtractor(1500, 15)
	_, err := e.Extract("<html></html>", "://not a url")
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab"+Ellipsis, Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0), "zero max disables truncation")
}

func TestChunk(t *testing.T) {
	text := "0123456789"

	assert.Equal(t, "0123", Chunk(text, 0, 4))
	assert.Equal(t, "4567", Chunk(text, 4, 4))
	assert.Equal(t, "89", Chunk(text, 8, 4))
	assert.Equal(t, "", Chunk(text, 10, 4), "exhausted")
	assert.Equal(t, "", Chunk(text, 12, 4))
	assert.Equal(t, "", Chunk(text, 0, 0))
}
