// Package assistant answers campus questions with retrieved context and an
// external generation service.
package assistant

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kart-io/campusgpt/internal/campus/biz/knowledge"
	"github.com/kart-io/campusgpt/internal/model"
	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/infra/tracing"
	"github.com/kart-io/campusgpt/pkg/llm"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

const tracerName = "campusgpt/assistant"

// Fallback replies.
const (
	EmptyReplyText  = "I'm having trouble processing that request."
	UnavailableText = "I am experiencing connection issues. Please try again later."
)

// Reply is the assistant's answer to one message.
type Reply struct {
	Text          string       `json:"text"`
	Sources       []llm.Source `json:"sources"`
	SuggestTicket bool         `json:"suggest_ticket"`
}

// Service orchestrates retrieval, generation and ticket suggestion.
type Service struct {
	kb        *knowledge.Service
	provider  llm.Provider
	suggester TicketSuggester
	cache     ReplyCache
	webSearch bool
}

// Option configures a Service.
type Option func(*Service)

// WithSuggester replaces the phrase-based ticket suggester.
func WithSuggester(s TicketSuggester) Option {
	return func(svc *Service) { svc.suggester = s }
}

// WithCache enables reply caching. The cache is invalidated whenever the
// knowledge base changes.
func WithCache(c ReplyCache) Option {
	return func(svc *Service) { svc.cache = c }
}

// WithWebSearch toggles web search grounding. It is on by default.
func WithWebSearch(enabled bool) Option {
	return func(svc *Service) { svc.webSearch = enabled }
}

// New creates an assistant service.
func New(kb *knowledge.Service, provider llm.Provider, opts ...Option) *Service {
	svc := &Service{
		kb:        kb,
		provider:  provider,
		suggester: NewPhraseSuggester(),
		webSearch: true,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.cache != nil {
		kb.OnChange(svc.cache.Invalidate)
	}
	return svc
}

// Ask answers message for user given the prior conversation. Generation
// failures never surface as errors, the reply carries an apology instead.
func (s *Service) Ask(ctx context.Context, user *model.User, message string, history []llm.Message) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.ErrCampusEmptyMessage
	}
	role := model.RoleGuest
	if user != nil {
		role = user.Role
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "assistant.ask")
	defer span.End()
	span.SetAttributes(
		attribute.String("campus.role", role.String()),
		attribute.Int("chat.history", len(history)),
	)

	var cacheSlot string
	if s.cache != nil {
		r, slot, ok := s.cache.Get(ctx, CacheKey(role, message, history))
		if ok {
			span.SetAttributes(attribute.Bool("assistant.cache_hit", true))
			return r, nil
		}
		cacheSlot = slot
	}

	contextText, err := s.kb.Search(ctx, message, role)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("assistant.context_found", contextText != ""))

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := s.provider.Generate(ctx, &llm.GenerateRequest{
		Messages:          messages,
		SystemInstruction: BuildInstruction(contextText, role),
		EnableWebSearch:   s.webSearch,
	})
	if err != nil {
		tracing.RecordError(ctx, err)
		applogger.GetLogger(ctx).Errorw("generation call failed",
			"provider", s.provider.Name(),
			"role", role.String(),
			"error", err.Error(),
		)
		return &Reply{Text: UnavailableText, Sources: []llm.Source{}}, nil
	}

	reply := &Reply{
		Text:          resp.Text,
		Sources:       resp.Sources,
		SuggestTicket: s.suggester.SuggestTicket(ctx, resp.Text),
	}
	if reply.Text == "" {
		reply.Text = EmptyReplyText
	}
	if reply.Sources == nil {
		reply.Sources = []llm.Source{}
	}
	span.SetAttributes(
		attribute.Int("assistant.sources", len(reply.Sources)),
		attribute.Bool("assistant.suggest_ticket", reply.SuggestTicket),
	)

	if s.cache != nil && resp.Text != "" {
		s.cache.Set(ctx, cacheSlot, reply)
	}
	return reply, nil
}
