// Package bot implements the navigation state machine that drives search
// and guided browsing from short chat commands.
package bot

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"surfbot/content"
	"surfbot/fetcher"
	"surfbot/llm"
	"surfbot/search"
	"surfbot/session"
)

// Fetcher is the page-fetching capability the engine consumes. It is
// satisfied by *fetcher.Client.
type Fetcher interface {
	Smart(ctx context.Context, url string) (*fetcher.Result, error)
}

// Options wires a Handler's collaborators and tunables.
type Options struct {
	Sessions  session.Repository
	Provider  search.Provider
	Fetcher   Fetcher
	Extractor *content.Extractor
	Generator llm.Provider // conversational generator; may be nil

	// Notify delivers an interim outbound message (e.g. the "searching"
	// notice) before the final reply. May be nil.
	Notify func(recipient, text string)

	Logger *zap.Logger

	Marker      string // command prefix, e.g. "!"
	ResultLimit int    // organic results kept per search
	LinkDisplay int    // links shown in a page view
	ChunkSize   int    // characters per view / "more" chunk
}

// Handler interprets inbound chat text against per-user sessions.
type Handler struct {
	sessions  session.Repository
	locks     *session.KeyedMutex
	provider  search.Provider
	fetch     Fetcher
	extract   *content.Extractor
	generator llm.Provider
	notify    func(recipient, text string)
	log       *zap.Logger

	marker      string
	resultLimit int
	linkDisplay int
	chunkSize   int
}

// New creates a Handler.
func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Marker == "" {
		opts.Marker = "!"
	}
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = 5
	}
	if opts.LinkDisplay <= 0 {
		opts.LinkDisplay = 10
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1500
	}
	return &Handler{
		sessions:    opts.Sessions,
		locks:       session.NewKeyedMutex(),
		provider:    opts.Provider,
		fetch:       opts.Fetcher,
		extract:     opts.Extractor,
		generator:   opts.Generator,
		notify:      opts.Notify,
		log:         opts.Logger,
		marker:      opts.Marker,
		resultLimit: opts.ResultLimit,
		linkDisplay: opts.LinkDisplay,
		chunkSize:   opts.ChunkSize,
	}
}

// HandleInbound processes one inbound message and returns the outbound
// reply. handled is false when the text is not for this component and the
// caller should route it to the conversational generator instead. Commands
// never propagate errors; every failure becomes a reply.
func (h *Handler) HandleInbound(ctx context.Context, sender, text string) (reply string, handled bool) {
	// Two concurrent messages from one user are processed in order.
	unlock := h.locks.Lock(sender)
	defer unlock()

	text = strings.TrimSpace(text)

	// 1. Explicit command marker.
	if strings.HasPrefix(text, h.marker) {
		command, args := splitCommand(strings.TrimPrefix(text, h.marker))
		return h.dispatch(ctx, sender, command, args), true
	}

	// 2. Browse-mode shorthand: bare navigation words keep working, and
	// any other free text starts a brand-new search.
	if sess, ok := h.sessions.Get(sender); ok && sess.Mode == session.ModeBrowse {
		lower := strings.ToLower(text)
		switch {
		case lower == "back":
			return h.dispatch(ctx, sender, "back", ""), true
		case lower == "more":
			return h.dispatch(ctx, sender, "more", ""), true
		case lower == "exit":
			return h.dispatch(ctx, sender, "exit", ""), true
		case strings.HasPrefix(lower, "link "):
			return h.dispatch(ctx, sender, "link", strings.TrimSpace(text[len("link "):])), true
		case text != "":
			return h.dispatch(ctx, sender, "search", text), true
		}
	}

	// 3. "search ..." works without the marker from chat mode.
	if lower := strings.ToLower(text); strings.HasPrefix(lower, "search ") {
		return h.dispatch(ctx, sender, "search", strings.TrimSpace(text[len("search "):])), true
	}

	// 4. Not ours; the caller routes it to the conversational generator.
	return "", false
}

// splitCommand splits "open 3" into ("open", "3").
func splitCommand(s string) (command, args string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return strings.ToLower(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return strings.ToLower(s), ""
}

func (h *Handler) dispatch(ctx context.Context, sender, command, args string) string {
	h.log.Info("command",
		zap.String("user", sender),
		zap.String("command", command))

	switch command {
	case "search":
		return h.cmdSearch(ctx, sender, args)
	case "open":
		return h.cmdOpen(ctx, sender, args)
	case "back":
		return h.cmdBack(ctx, sender)
	case "link":
		return h.cmdLink(ctx, sender, args)
	case "more":
		return h.cmdMore(sender)
	case "summarize":
		return h.cmdSummarize(ctx, sender)
	case "exit":
		return h.cmdExit(sender)
	case "help":
		return h.usage()
	default:
		return h.usage()
	}
}

// sessionFor returns the user's session, creating a fresh chat-mode one
// when none exists. created reports which happened.
func (h *Handler) sessionFor(sender string) (sess *session.Session, created bool) {
	if s, ok := h.sessions.Get(sender); ok {
		return s, false
	}
	s := session.New()
	h.sessions.Put(sender, s)
	return s, true
}

func (h *Handler) cmdSearch(ctx context.Context, sender, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "Please provide a search query. Usage: " + h.marker + "search <query>"
	}

	if h.notify != nil {
		h.notify(sender, "Searching for *"+query+"*...")
	}

	set, err := h.runSearch(ctx, query)
	if err != nil {
		h.log.Warn("search failed", zap.String("user", sender), zap.Error(err))
		if err == search.ErrNoAPIKey {
			return "Search is not configured: missing API key."
		}
		return "Search failed: " + err.Error()
	}

	sess, _ := h.sessionFor(sender)
	sess.SetResults(set)
	h.sessions.Put(sender, sess)

	return set.RenderText(h.marker)
}

func (h *Handler) cmdOpen(ctx context.Context, sender, args string) string {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "Please provide a result number. Usage: " + h.marker + "open <number>"
	}

	sess, ok := h.sessions.Get(sender)
	if !ok || sess.Results == nil {
		return "No search results yet. Start with " + h.marker + "search <query>."
	}
	result, ok := sess.Results.Result(n)
	if !ok {
		return "Result " + strconv.Itoa(n) + " not found. Pick a number from the last search."
	}

	page, err := h.browse(ctx, result.Link)
	if err != nil {
		h.log.Warn("open failed", zap.String("user", sender), zap.String("url", result.Link), zap.Error(err))
		return "Could not open that page: " + err.Error()
	}

	sess.Mode = session.ModeBrowse
	sess.LastAction = session.ActionOpen
	sess.ResultID = n
	sess.SetPage(page)
	h.sessions.Put(sender, sess)

	return h.renderPage(page)
}

func (h *Handler) cmdBack(ctx context.Context, sender string) string {
	sess, created := h.sessionFor(sender)
	if created {
		return "Nothing to go back to yet. Start with " + h.marker + "search <query>."
	}

	if sess.LastAction == session.ActionSearch {
		return "You are already at the search results. " + h.marker + "open <number> to read one."
	}

	if sess.Query != "" {
		// Re-run the stored query rather than replaying cached results.
		return h.cmdSearch(ctx, sender, sess.Query)
	}

	sess.Reset()
	h.sessions.Put(sender, sess)
	return "Nothing to go back to yet. Start with " + h.marker + "search <query>."
}

func (h *Handler) cmdLink(ctx context.Context, sender, args string) string {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return "Please provide a link number. Usage: " + h.marker + "link <number>"
	}

	sess, ok := h.sessions.Get(sender)
	if !ok || sess.Page == nil {
		return "No page is open. " + h.marker + "open <number> a search result first."
	}
	links := sess.Page.Links
	if len(links) == 0 {
		return "The current page has no links to follow."
	}
	if n < 1 || n > len(links) {
		return "Link " + strconv.Itoa(n) + " is out of range. Valid links are 1.." + strconv.Itoa(len(links)) + "."
	}

	target := links[n-1]
	page, err := h.browse(ctx, target.URL)
	if err != nil {
		h.log.Warn("link failed", zap.String("user", sender), zap.String("url", target.URL), zap.Error(err))
		return "Could not open that link: " + err.Error()
	}

	sess.LastAction = session.ActionLink
	sess.SetPage(page)
	h.sessions.Put(sender, sess)

	return h.renderPage(page)
}

func (h *Handler) cmdMore(sender string) string {
	sess, ok := h.sessions.Get(sender)
	if !ok || sess.Page == nil {
		return "No page is open. " + h.marker + "open <number> a search result first."
	}

	chunk := h.nextChunk(sess)
	h.sessions.Put(sender, sess)
	if chunk == "" {
		return "No more content on this page."
	}

	return chunk + "\n\nReply " + h.marker + "more to keep reading."
}

func (h *Handler) cmdSummarize(ctx context.Context, sender string) string {
	sess, ok := h.sessions.Get(sender)
	if !ok || sess.Mode != session.ModeBrowse || sess.CurrentURL == "" || sess.Page == nil {
		return "Open a page first, then ask for a summary. " + h.marker + "search <query> to begin."
	}

	if h.generator == nil {
		return "No summarizer is configured."
	}

	req := llm.SummarizeRequest{
		UserID:    sender,
		Title:     sess.Page.Title,
		Text:      sess.Page.FullText,
		SourceURL: sess.CurrentURL,
	}
	summary, err := llm.Summarize(ctx, h.generator, req)
	if err != nil {
		h.log.Warn("summarize failed", zap.String("user", sender), zap.Error(err))
		return "Could not summarize this page: " + err.Error()
	}

	return "*Summary of " + sess.Page.Title + "*\n\n" + summary
}

func (h *Handler) cmdExit(sender string) string {
	sess, _ := h.sessionFor(sender)
	sess.Reset()
	h.sessions.Put(sender, sess)
	return "Left browsing mode. Talk to me normally, or " + h.marker + "search <query> to browse again."
}

func (h *Handler) usage() string {
	m := h.marker
	return "*Commands:*\n" +
		m + "search <query> - search the web\n" +
		m + "open <number> - open a search result\n" +
		m + "link <number> - follow a link on the page\n" +
		m + "more - keep reading the current page\n" +
		m + "back - return to the search results\n" +
		m + "summarize - summarize the current page\n" +
		m + "exit - leave browsing mode"
}
