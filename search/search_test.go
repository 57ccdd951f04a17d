package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawResults(n int) *Response {
	resp := &Response{}
	for i := 0; i < n; i++ {
		resp.Organic = append(resp.Organic, Organic{
			Title:    fmt.Sprintf("Result %d", i+1),
			Link:     fmt.Sprintf("https://example.com/%d", i+1),
			Snippet:  "snippet",
			Position: i + 1,
		})
	}
	return resp
}

func TestFormatAssignsDenseIDs(t *testing.T) {
	tests := []struct {
		raw   int
		limit int
		want  int
	}{
		{raw: 8, limit: 5, want: 5},
		{raw: 3, limit: 5, want: 3},
		{raw: 0, limit: 5, want: 0},
		{raw: 5, limit: 5, want: 5},
	}

	for _, tt := range tests {
		set := Format("q", "Test", rawResults(tt.raw), tt.limit)
		require.Len(t, set.Organic, tt.want)
		for i, o := range set.Organic {
			assert.Equal(t, i+1, o.ID, "IDs are dense and 1-based")
		}
	}
}

func TestFormatPreservesProviderOrder(t *testing.T) {
	set := Format("q", "Test", rawResults(3), 5)
	assert.Equal(t, "Result 1", set.Organic[0].Title)
	assert.Equal(t, "Result 3", set.Organic[2].Title)
	assert.Equal(t, "q", set.Query)
	assert.Equal(t, "Test", set.Provider)
}

func TestFormatCapsRelatedQuestions(t *testing.T) {
	resp := rawResults(1)
	for i := 0; i < 5; i++ {
		resp.Related = append(resp.Related, RelatedQuestion{Question: fmt.Sprintf("q%d", i)})
	}
	set := Format("q", "Test", resp, 5)
	assert.Len(t, set.Related, 3)
}

func TestResultLookup(t *testing.T) {
	set := Format("q", "Test", rawResults(5), 5)

	r, ok := set.Result(3)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/3", r.Link)

	_, ok = set.Result(0)
	assert.False(t, ok)
	_, ok = set.Result(6)
	assert.False(t, ok)
}

func TestRenderText(t *testing.T) {
	set := Format("climate change", "Test", rawResults(2), 5)
	set.AnswerBox = &AnswerBox{Title: "Definition", Answer: "A long-term shift."}

	out := set.RenderText("!")
	assert.Contains(t, out, "*Search results for:* climate change")
	assert.Contains(t, out, "*1. Result 1*")
	assert.Contains(t, out, "*2. Result 2*")
	assert.Contains(t, out, "A long-term shift.")
	assert.Contains(t, out, "!open <number>")
}

func TestRenderTextEmpty(t *testing.T) {
	set := Format("nothing", "Test", rawResults(0), 5)
	out := set.RenderText("!")
	assert.Contains(t, out, "No results found")
}
