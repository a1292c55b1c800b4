// Package post implements the community bulletin.
package post

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

// CreateRequest carries the fields of a new post.
type CreateRequest struct {
	Content string
	// Tags is a comma separated list.
	Tags string
	// Visibility is public or internal, empty means internal.
	Visibility string
}

// Service handles post business logic.
type Service struct {
	store store.IStore
	kb    *knowledge.Service
	ids   id.Generator
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator overrides the post id generator.
func WithIDGenerator(g id.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a post service.
func New(s store.IStore, kb *knowledge.Service, opts ...Option) *Service {
	svc := &Service{store: s, kb: kb, ids: id.NewULIDGenerator(), now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create publishes a post authored by user. Only institute members may post.
func (s *Service) Create(ctx context.Context, user *model.User, req CreateRequest) (*model.Post, error) {
	if user == nil || !user.Role.IsInstitute() {
		return nil, errors.ErrCampusPermissionDenied
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.ErrCampusEmptyContent
	}
	visibility, err := ParseVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}

	p := &model.Post{
		ID:          s.ids.Generate(),
		AuthorEmail: user.Email,
		AuthorName:  user.Name,
		Content:     req.Content,
		Tags:        SplitTags(req.Tags),
		Visibility:  visibility,
		Timestamp:   s.now().UnixMilli(),
		Likes:       0,
	}
	if err := s.store.Posts().Create(ctx, p); err != nil {
		applogger.GetLogger(ctx).Errorw("failed to create post", "author", user.Email, "error", err.Error())
		return nil, errors.ErrCampusStore.WithCause(err)
	}
	applogger.GetLogger(ctx).Infow("post created", "id", p.ID, "author", user.Email, "visibility", string(p.Visibility))

	if s.kb != nil {
		s.kb.Changed(ctx)
	}
	return p, nil
}

// List returns the posts role may see, newest first.
func (s *Service) List(ctx context.Context, role model.Role) ([]*model.Post, error) {
	posts, err := s.store.Posts().List(ctx, role)
	if err != nil {
		return nil, errors.ErrCampusStore.WithCause(err)
	}
	return posts, nil
}

// SplitTags splits a comma separated tag list, trimming entries and
// dropping empty ones. It never returns nil.
func SplitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseVisibility validates a visibility name. Empty defaults to internal.
func ParseVisibility(s string) (model.Visibility, error) {
	switch model.Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case "", model.VisibilityInternal:
		return model.VisibilityInternal, nil
	case model.VisibilityPublic:
		return model.VisibilityPublic, nil
	}
	return "", errors.ErrCampusBadVisibility
}
