// Package session holds per-user navigation state for the browsing engine.
package session

import (
	"surfbot/content"
	"surfbot/search"
)

// Mode says how free text from the user is interpreted.
type Mode string

const (
	ModeChat   Mode = "chat"   // free text goes to the conversational generator
	ModeBrowse Mode = "browse" // free text is navigation shorthand or a new search
)

// Action records what produced the user's current view.
type Action string

const (
	ActionNone   Action = "none"
	ActionSearch Action = "search"
	ActionOpen   Action = "open"
	ActionLink   Action = "link"
)

// Session is the complete mutable state for one user. It is owned by the
// navigation layer, never shared across users, and lost on restart; a
// session is always re-derivable from a fresh search.
type Session struct {
	Mode       Mode
	LastAction Action
	Query      string // last search query, "" when absent
	CurrentURL string // page being viewed, "" when absent
	ResultID   int    // organic result that led to CurrentURL, 0 when absent

	Results *search.ResultSet // replaced on every new search
	Page    *content.Page     // replaced on every page view
	Cursor  int               // characters of Page.FullText already delivered
}

// New returns a fresh session in chat mode.
func New() *Session {
	return &Session{Mode: ModeChat, LastAction: ActionNone}
}

// Reset returns the session to chat mode and drops all navigation state.
func (s *Session) Reset() {
	*s = *New()
}

// SetPage replaces the current page view and rewinds pagination.
func (s *Session) SetPage(p *content.Page) {
	s.Page = p
	s.CurrentURL = p.SourceURL
	s.Cursor = 0
}

// SetResults replaces the stored result set and drops any page view.
func (s *Session) SetResults(set *search.ResultSet) {
	s.Mode = ModeBrowse
	s.LastAction = ActionSearch
	s.Query = set.Query
	s.Results = set
	s.Page = nil
	s.CurrentURL = ""
	s.ResultID = 0
	s.Cursor = 0
}

// Repository is keyed per-user session storage, injected into the
// navigation state machine so the backing store can be swapped out.
type Repository interface {
	// Get returns the user's session and whether one exists.
	Get(userID string) (*Session, bool)

	// Put stores the user's session, refreshing its lifetime.
	Put(userID string, s *Session)

	// Delete removes the user's session.
	Delete(userID string)
}
