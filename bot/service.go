package bot

import (
	"context"
	"fmt"

	"surfbot/content"
	"surfbot/search"
	"surfbot/session"
)

// runSearch calls the search provider and formats the response into an
// ID-stamped result set.
func (h *Handler) runSearch(ctx context.Context, query string) (*search.ResultSet, error) {
	resp, err := h.provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return search.Format(query, h.provider.Name(), resp, h.resultLimit), nil
}

// browse fetches a URL and extracts its content. Extraction degradation is
// absorbed by the extractor; only fetch failure is a hard error.
func (h *Handler) browse(ctx context.Context, url string) (*content.Page, error) {
	result, err := h.fetch.Smart(ctx, url)
	if err != nil {
		return nil, err
	}

	page, err := h.extract.Extract(result.HTML, result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("extracting content: %w", err)
	}
	return page, nil
}

// nextChunk returns the next pagination chunk of the current page and
// advances the cursor. The first call starts after the initially shown
// text. An empty return means the page is exhausted; the cursor is only
// advanced for non-empty chunks, so exhaustion is stable.
func (h *Handler) nextChunk(sess *session.Session) string {
	if sess.Cursor == 0 {
		sess.Cursor = h.chunkSize
	}
	chunk := content.Chunk(sess.Page.FullText, sess.Cursor, h.chunkSize)
	if chunk != "" {
		sess.Cursor += h.chunkSize
	}
	return chunk
}
