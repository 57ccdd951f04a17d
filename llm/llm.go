// Package llm defines the boundary to the conversational generator: a
// provider capability interface selected by string key at call time.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoProvider is returned when no generator provider is configured.
var ErrNoProvider = errors.New("no LLM provider available")

// Message represents a single message in a conversation.
type Message struct {
	Role    string // "system", "user" or "assistant"
	Content string
}

// Provider defines the interface for language model backends.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Model returns the model identifier in use.
	Model() string

	// Complete sends a conversation and returns the response text.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Registry maps provider identifiers to implementations so the active
// generator is picked by configuration key, not compiled-in special cases.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under key, replacing any previous entry.
func (r *Registry) Register(key string, p Provider) {
	r.providers[strings.ToLower(key)] = p
}

// Get returns the provider registered under key.
func (r *Registry) Get(key string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(key)]
	return p, ok
}

// Keys returns the registered provider identifiers, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SummarizeRequest is the typed hand-off from the navigation engine when a
// user asks for a page summary. It is a cross-component contract, not a
// re-entrant text command.
type SummarizeRequest struct {
	UserID    string
	Title     string
	Text      string
	SourceURL string
}

// Prompt renders the request as the user prompt for the generator.
func (r SummarizeRequest) Prompt() string {
	var sb strings.Builder
	sb.WriteString("Summarize the following webpage in a few short paragraphs.\n\n")
	if r.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
	}
	if r.SourceURL != "" {
		fmt.Fprintf(&sb, "URL: %s\n", r.SourceURL)
	}
	sb.WriteString("\n")
	sb.WriteString(r.Text)
	return sb.String()
}

const summarizeSystem = "You are a concise assistant that summarizes webpages for chat delivery. Plain text only."

// Summarize runs a summarization request through the given provider.
func Summarize(ctx context.Context, p Provider, req SummarizeRequest) (string, error) {
	if p == nil {
		return "", ErrNoProvider
	}
	return p.Complete(ctx, []Message{
		{Role: "system", Content: summarizeSystem},
		{Role: "user", Content: req.Prompt()},
	})
}
