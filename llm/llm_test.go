package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name     string
	messages []Message
	reply    string
}

func (s *stubProvider) Name() string  { return s.name }
func (s *stubProvider) Model() string { return "stub-1" }

func (s *stubProvider) Complete(_ context.Context, messages []Message) (string, error) {
	s.messages = messages
	return s.reply, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	p := &stubProvider{name: "stub"}

	r.Register("OpenAI", p)

	got, ok := r.Get("openai")
	require.True(t, ok, "keys are case-insensitive")
	assert.Same(t, p, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	r.Register("anthropic", &stubProvider{name: "other"})
	assert.Equal(t, []string{"anthropic", "openai"}, r.Keys())
}

func TestSummarizeRequestPrompt(t *testing.T) {
	req := SummarizeRequest{
		Title:     "A Page",
		Text:      "body text",
		SourceURL: "https://example.com/p",
	}
	prompt := req.Prompt()

	assert.Contains(t, prompt, "Title: A Page")
	assert.Contains(t, prompt, "URL: https://example.com/p")
	assert.Contains(t, prompt, "body text")
}

func TestSummarize(t *testing.T) {
	p := &stubProvider{name: "stub", reply: "the summary"}

	out, err := Summarize(context.Background(), p, SummarizeRequest{Title: "T", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "the summary", out)

	require.Len(t, p.messages, 2)
	assert.Equal(t, "system", p.messages[0].Role)
	assert.Equal(t, "user", p.messages[1].Role)
}

func TestSummarizeNoProvider(t *testing.T) {
	_, err := Summarize(context.Background(), nil, SummarizeRequest{})
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI("", "gpt-4o-mini")
	require.Error(t, err)
}
