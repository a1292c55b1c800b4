// Package ticket implements the community help-ticket board.
package ticket

import (
	"context"
	"strings"
	"time"

	"github.com/kart-io/campusgpt/internal/campus/biz/knowledge"
	"github.com/kart-io/campusgpt/internal/campus/store"
	"github.com/kart-io/campusgpt/internal/model"
	applogger "github.com/kart-io/campusgpt/pkg/infra/logger"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
	"github.com/kart-io/campusgpt/pkg/utils/id"
)

// DefaultQuestion is used when a ticket is raised without a question.
const DefaultQuestion = "Help needed"

// Service handles ticket business logic.
type Service struct {
	store store.IStore
	kb    *knowledge.Service
	ids   id.Generator
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides the ticket id generator.
func WithIDGenerator(g id.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a ticket service.
func New(s store.IStore, kb *knowledge.Service, opts ...Option) *Service {
	svc := &Service{store: s, kb: kb, ids: id.NewULIDGenerator(), now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Raise opens a ticket for user. The question is stored verbatim.
func (s *Service) Raise(ctx context.Context, user *model.User, question string) (*model.Ticket, error) {
	if strings.TrimSpace(question) == "" {
		question = DefaultQuestion
	}

	var email string
	if user != nil {
		email = user.Email
	}
	t := &model.Ticket{
		ID:            s.ids.Generate(),
		Question:      question,
		Status:        model.TicketOpen,
		RaisedByEmail: email,
		Answers:       []model.Answer{},
		Timestamp:     s.now().UnixMilli(),
	}
	if err := s.store.Tickets().Create(ctx, t); err != nil {
		applogger.GetLogger(ctx).Errorw("failed to raise ticket", "raised_by", email, "error", err.Error())
		return nil, errors.ErrCampusStore.WithCause(err)
	}
	applogger.GetLogger(ctx).Infow("ticket raised", "id", t.ID, "raised_by", email)
	return t, nil
}

// List returns tickets newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status model.TicketStatus) ([]*model.Ticket, error) {
	switch status {
	case "", model.TicketOpen, model.TicketResolved:
	default:
		return nil, errors.ErrInvalidParam.WithMessagef("unknown ticket status %q", status)
	}
	tickets, err := s.store.Tickets().List(ctx, status)
	if err != nil {
		return nil, errors.ErrCampusStore.WithCause(err)
	}
	return tickets, nil
}

// Resolve answers ticket id on behalf of user. Guests may not answer.
// An unknown id is not an error: it returns (nil, nil) and changes nothing.
func (s *Service) Resolve(ctx context.Context, user *model.User, id, answer string) (*model.Ticket, error) {
	if user == nil || !user.Role.IsInstitute() {
		return nil, errors.ErrCampusPermissionDenied
	}
	if strings.TrimSpace(answer) == "" {
		return nil, errors.ErrCampusEmptyAnswer
	}

	t, err := s.store.Tickets().Resolve(ctx, id, model.Answer{
		AuthorEmail: user.Email,
		Content:     answer,
		Timestamp:   s.now().UnixMilli(),
	})
	if err != nil {
		applogger.GetLogger(ctx).Errorw("failed to resolve ticket", "id", id, "error", err.Error())
		return nil, errors.ErrCampusStore.WithCause(err)
	}
	if t == nil {
		applogger.GetLogger(ctx).Debugw("resolve skipped, ticket not found", "id", id)
		return nil, nil
	}

	applogger.GetLogger(ctx).Infow("ticket answered", "id", id, "by", user.Email, "answers", len(t.Answers))
	if s.kb != nil && len(t.Answers) == 1 {
		s.kb.Changed(ctx)
	}
	return t, nil
}
