package bot

import (
	"fmt"
	"strings"

	"surfbot/content"
)

// renderPage formats a page view as outbound chat text: title, bounded
// text, and the numbered link list with literal command hints.
func (h *Handler) renderPage(page *content.Page) string {
	var sb strings.Builder

	sb.WriteString("*" + page.Title + "*")
	if page.SiteName != "" && page.SiteName != page.Title {
		sb.WriteString(" - " + page.SiteName)
	}
	sb.WriteString("\n")
	sb.WriteString(page.SourceURL)
	sb.WriteString("\n\n")

	if page.TruncatedText != "" {
		sb.WriteString(page.TruncatedText)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("(No readable text on this page.)\n\n")
	}

	if len(page.Links) > 0 {
		sb.WriteString("*Links:*\n")
		shown := page.Links
		if len(shown) > h.linkDisplay {
			shown = shown[:h.linkDisplay]
		}
		for i, link := range shown {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, link.Text))
		}
		sb.WriteString("\n")
	}

	var hints []string
	if strings.HasSuffix(page.TruncatedText, content.Ellipsis) {
		hints = append(hints, h.marker+"more to keep reading")
	}
	if len(page.Links) > 0 {
		hints = append(hints, h.marker+"link <number> to follow a link")
	}
	hints = append(hints, h.marker+"back for results", h.marker+"exit to leave")
	sb.WriteString("Reply " + strings.Join(hints, ", ") + ".")

	return sb.String()
}
