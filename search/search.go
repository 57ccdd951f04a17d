// Package search provides web search functionality with pluggable providers.
package search

import (
	"context"
	"time"
)

// Organic represents a single non-sponsored search hit.
type Organic struct {
	ID       int    // 1-based display identifier, assigned by Format
	Title    string // Page title
	Link     string // Full URL
	Snippet  string // Description/snippet text
	Position int    // Provider-reported rank
}

// KnowledgePanel carries the provider's knowledge-graph summary, when present.
type KnowledgePanel struct {
	Title       string
	Type        string
	Description string
	Attributes  map[string]string
}

// AnswerBox carries the provider's direct-answer section, when present.
type AnswerBox struct {
	Title   string
	Answer  string
	Snippet string
}

// RelatedQuestion is a "people also ask" entry.
type RelatedQuestion struct {
	Question string
	Snippet  string
	Link     string
}

// Response is the raw provider output before formatting. Organic entries
// carry no IDs yet; optional sections are nil when the provider omits them.
type Response struct {
	Organic   []Organic
	Knowledge *KnowledgePanel
	AnswerBox *AnswerBox
	Related   []RelatedQuestion
}

// ResultSet is a formatted, ID-stamped result set as shown to a user.
type ResultSet struct {
	Query      string
	Provider   string
	Organic    []Organic
	Knowledge  *KnowledgePanel
	AnswerBox  *AnswerBox
	Related    []RelatedQuestion
	SearchedAt time.Time
}

// Provider defines the interface for search providers.
type Provider interface {
	// Search performs a web search and returns the raw response.
	Search(ctx context.Context, query string) (*Response, error)

	// Name returns the provider's display name.
	Name() string
}

const maxRelated = 3

// Format truncates the raw response to limit organic results and stamps
// dense 1-based IDs onto the truncated set, in provider order. Related
// questions are capped independently.
func Format(query, provider string, resp *Response, limit int) *ResultSet {
	set := &ResultSet{
		Query:      query,
		Provider:   provider,
		Knowledge:  resp.Knowledge,
		AnswerBox:  resp.AnswerBox,
		SearchedAt: time.Now(),
	}

	organic := resp.Organic
	if limit > 0 && len(organic) > limit {
		organic = organic[:limit]
	}
	set.Organic = make([]Organic, len(organic))
	for i, o := range organic {
		o.ID = i + 1
		set.Organic[i] = o
	}

	related := resp.Related
	if len(related) > maxRelated {
		related = related[:maxRelated]
	}
	set.Related = related

	return set
}

// Result returns the organic result with the given display ID, or false
// when no such result exists in this set.
func (s *ResultSet) Result(id int) (Organic, bool) {
	for _, o := range s.Organic {
		if o.ID == id {
			return o, true
		}
	}
	return Organic{}, false
}
