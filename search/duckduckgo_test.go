package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddgFixture = `<html><body>
<div class="result">
	<a class="result__a" href="/l/?uddg=https%3A%2F%2Ffirst.example.com%2Fpage">First Result</a>
	<a class="result__snippet" href="/l/?uddg=https%3A%2F%2Ffirst.example.com%2Fpage">A  snippet
	with   whitespace</a>
</div>
<div class="result">
	<a class="result__a" href="https://second.example.com/">Second Result</a>
</div>
<div class="result">
	<a class="result__a" href="https://second.example.com/">Duplicate of second</a>
</div>
<div class="result">
	<a class="result__a" href="https://no-title.example.com/"></a>
</div>
</body></html>`

func TestParseDuckDuckGo(t *testing.T) {
	organic, err := parseDuckDuckGo(ddgFixture)
	require.NoError(t, err)

	require.Len(t, organic, 2)

	assert.Equal(t, "First Result", organic[0].Title)
	assert.Equal(t, "https://first.example.com/page", organic[0].Link, "redirect wrapper unwrapped")
	assert.Equal(t, "A snippet with whitespace", organic[0].Snippet)
	assert.Equal(t, 1, organic[0].Position)

	assert.Equal(t, "Second Result", organic[1].Title, "first occurrence wins on duplicate URLs")
	assert.Equal(t, 2, organic[1].Position)
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://x.example.com/a",
		unwrapRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fx.example.com%2Fa&rut=abc"))
	assert.Equal(t, "https://direct.example.com/",
		unwrapRedirect("https://direct.example.com/"))
}
