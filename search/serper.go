package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoAPIKey is returned when a keyed provider is called without a
// configured credential. It is raised at call time, not at startup.
var ErrNoAPIKey = errors.New("search: no API key configured")

const serperEndpoint = "https://google.serper.dev/search"

// Serper implements the Provider interface using the serper.dev API.
type Serper struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewSerper creates a Serper provider. An empty key is allowed; calls
// will fail with ErrNoAPIKey.
func NewSerper(apiKey string) *Serper {
	return &Serper{
		apiKey:   apiKey,
		endpoint: serperEndpoint,
		client:   &http.Client{Timeout: 20 * time.Second},
	}
}

// Name returns the provider name.
func (s *Serper) Name() string {
	return "Serper"
}

// serperResponse mirrors the wire format. Every section is optional;
// absent sections decode to zero values and are simply omitted.
type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
	KnowledgeGraph *struct {
		Title       string            `json:"title"`
		Type        string            `json:"type"`
		Description string            `json:"description"`
		Attributes  map[string]string `json:"attributes"`
	} `json:"knowledgeGraph"`
	AnswerBox *struct {
		Title   string `json:"title"`
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	PeopleAlsoAsk []struct {
		Question string `json:"question"`
		Snippet  string `json:"snippet"`
		Link     string `json:"link"`
	} `json:"peopleAlsoAsk"`
}

// Search performs a keyed Serper search and maps the response defensively.
func (s *Serper) Search(ctx context.Context, query string) (*Response, error) {
	if s.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var raw serperResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return mapSerper(&raw), nil
}

func mapSerper(raw *serperResponse) *Response {
	out := &Response{}

	for _, o := range raw.Organic {
		out.Organic = append(out.Organic, Organic{
			Title:    o.Title,
			Link:     o.Link,
			Snippet:  o.Snippet,
			Position: o.Position,
		})
	}
	if kg := raw.KnowledgeGraph; kg != nil {
		out.Knowledge = &KnowledgePanel{
			Title:       kg.Title,
			Type:        kg.Type,
			Description: kg.Description,
			Attributes:  kg.Attributes,
		}
	}
	if ab := raw.AnswerBox; ab != nil {
		out.AnswerBox = &AnswerBox{
			Title:   ab.Title,
			Answer:  ab.Answer,
			Snippet: ab.Snippet,
		}
	}
	for _, q := range raw.PeopleAlsoAsk {
		out.Related = append(out.Related, RelatedQuestion{
			Question: q.Question,
			Snippet:  q.Snippet,
			Link:     q.Link,
		})
	}

	return out
}
