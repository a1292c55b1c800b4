// Package knowledge implements keyword retrieval over the knowledge base.
package knowledge

import (
	"context"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kart-io/campusgpt/internal/campus/store"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/pkg/infra/tracing"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

const tracerName = "campusgpt/knowledge"

// minTermLength 检索词至少需要的字符数（不含）。
const minTermLength = 3

// Service searches the knowledge base and fans out change notifications.
type Service struct {
	store store.IStore

	mu        sync.RWMutex
	listeners []func(ctx context.Context)
}

// New creates a knowledge service.
func New(s store.IStore) *Service {
	return &Service{store: s}
}

// Search returns the content of every item visible to role that contains a
// query term, one "- <content>" line per item. It returns "" when nothing
// matches.
func (s *Service) Search(ctx context.Context, query string, role model.Role) (string, error) {
	items, err := s.Matches(ctx, query, role)
	if err != nil {
		return "", err
	}
	return Format(items), nil
}

// Matches returns the items Search would render, in knowledge-base order.
func (s *Service) Matches(ctx context.Context, query string, role model.Role) ([]*model.KnowledgeItem, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "knowledge.search")
	defer span.End()

	items, err := s.store.Knowledge().List(ctx)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, errors.ErrCampusStore.WithCause(err)
	}
	matched := Match(items, query, role)
	span.SetAttributes(
		attribute.String("campus.role", role.String()),
		attribute.Int("knowledge.items", len(items)),
		attribute.Int("knowledge.matches", len(matched)),
	)
	return matched, nil
}

// Terms splits query on any whitespace into lowercase search terms and
// drops terms of minTermLength characters or fewer.
func Terms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(t) > minTermLength {
			terms = append(terms, t)
		}
	}
	return terms
}

// Match filters items by visibility for role and by substring overlap with
// the query terms.
func Match(items []*model.KnowledgeItem, query string, role model.Role) []*model.KnowledgeItem {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	var out []*model.KnowledgeItem
	for _, item := range items {
		if !item.Visibility.VisibleTo(role) {
			continue
		}
		content := strings.ToLower(item.Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Format renders matched items as a bulleted context block.
func Format(items []*model.KnowledgeItem) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item.Content)
	}
	return strings.Join(lines, "\n")
}

// OnChange registers fn to run after the knowledge base changes.
func (s *Service) OnChange(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Changed notifies listeners that items were added.
func (s *Service) Changed(ctx context.Context) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}
