package assistant

import (
	"context"
	"strings"
)

// TicketSuggester decides whether a reply should offer raising a ticket.
type TicketSuggester interface {
	SuggestTicket(ctx context.Context, reply string) bool
}

// DefaultPhrases trigger a ticket suggestion when they appear in a reply.
var DefaultPhrases = []string{"raise a ticket", "ask the community"}

// PhraseSuggester suggests a ticket when the reply mentions one of Phrases,
// case-insensitively.
type PhraseSuggester struct {
	Phrases []string
}

var _ TicketSuggester = (*PhraseSuggester)(nil)

// NewPhraseSuggester creates a PhraseSuggester using DefaultPhrases.
func NewPhraseSuggester() *PhraseSuggester {
	return &PhraseSuggester{Phrases: DefaultPhrases}
}

// SuggestTicket implements TicketSuggester.
func (s *PhraseSuggester) SuggestTicket(_ context.Context, reply string) bool {
	text := strings.ToLower(reply)
	for _, p := range s.Phrases {
		if strings.Contains(text, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
