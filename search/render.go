package search

import (
	"fmt"
	"strings"
)

// RenderText formats a result set as outbound chat text. Emphasis uses
// surrounding asterisks; command hints carry the configured marker so
// they can be sent back verbatim.
func (s *ResultSet) RenderText(marker string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*Search results for:* %s\n\n", s.Query))

	if ab := s.AnswerBox; ab != nil {
		answer := ab.Answer
		if answer == "" {
			answer = ab.Snippet
		}
		if answer != "" {
			if ab.Title != "" {
				sb.WriteString(fmt.Sprintf("*%s*\n", ab.Title))
			}
			sb.WriteString(answer)
			sb.WriteString("\n\n")
		}
	}

	if kg := s.Knowledge; kg != nil && kg.Title != "" {
		sb.WriteString(fmt.Sprintf("*%s*", kg.Title))
		if kg.Type != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", kg.Type))
		}
		sb.WriteString("\n")
		if kg.Description != "" {
			sb.WriteString(kg.Description)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(s.Organic) == 0 {
		sb.WriteString("No results found. Try different search terms.\n")
		return sb.String()
	}

	for _, o := range s.Organic {
		sb.WriteString(fmt.Sprintf("*%d. %s*\n", o.ID, o.Title))
		if o.Snippet != "" {
			sb.WriteString(o.Snippet)
			sb.WriteString("\n")
		}
		sb.WriteString(o.Link)
		sb.WriteString("\n\n")
	}

	if len(s.Related) > 0 {
		sb.WriteString("*People also ask:*\n")
		for _, q := range s.Related {
			sb.WriteString("- ")
			sb.WriteString(q.Question)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Reply %sopen <number> to read a result, or %ssearch <query> to search again.", marker, marker))
	return sb.String()
}
