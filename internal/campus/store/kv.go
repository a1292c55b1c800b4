package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/kart-io/logger"

	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/pkg/storage/kv"
	"github.com/kart-io/campusgpt/pkg/utils/json"
)

// kvStore keeps each collection as one JSON array under a fixed key.
// Every operation reads, mutates and writes back whole collections while
// holding mu. Writers in other processes are last-writer-wins.
type kvStore struct {
	mu  sync.Mutex
	kv  kv.Storage
	cfg *config
}

var _ IStore = (*kvStore)(nil)

// NewKV creates a store over a key/value backend.
func NewKV(s kv.Storage, opts ...Option) IStore {
	return &kvStore{kv: s, cfg: newConfig(opts)}
}

func (s *kvStore) Posts() PostStore          { return (*kvPosts)(s) }
func (s *kvStore) Tickets() TicketStore      { return (*kvTickets)(s) }
func (s *kvStore) Knowledge() KnowledgeStore { return (*kvKnowledge)(s) }

// Close closes the backend.
func (s *kvStore) Close() error {
	return s.kv.Close()
}

// Initialize seeds absent collections.
func (s *kvStore) Initialize(ctx context.Context) (err error) {
	ctx, end := startSpan(ctx, "kv", "initialize")
	defer end(&err)

	s.mu.Lock()
	defer s.mu.Unlock()

	posts := SeedPosts(s.cfg.now())
	seeds := []struct {
		key   string
		value any
	}{
		{KeyPosts, posts},
		{KeyKnowledge, SeedKnowledge(posts)},
		{KeyTickets, []*model.Ticket{}},
	}
	for _, seed := range seeds {
		_, found, err := s.kv.Get(ctx, seed.key)
		if err != nil {
			return fmt.Errorf("read %s: %w", seed.key, err)
		}
		if found {
			continue
		}
		if err := s.save(ctx, seed.key, seed.value); err != nil {
			return err
		}
		logger.Infow("seeded collection", "key", seed.key)
	}
	return nil
}

func loadCollection[T any](ctx context.Context, s kv.Storage, key string) ([]T, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *kvStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw, 0); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// appendKnowledge must be called with mu held.
func (s *kvStore) appendKnowledge(ctx context.Context, item *model.KnowledgeItem) error {
	items, err := loadCollection[*model.KnowledgeItem](ctx, s.kv, KeyKnowledge)
	if err != nil {
		return err
	}
	return s.save(ctx, KeyKnowledge, append(items, item))
}

// restore puts back a collection after a later write of the same operation
// failed.
func (s *kvStore) restore(ctx context.Context, key string, v any) {
	if err := s.save(ctx, key, v); err != nil {
		logger.Errorw("failed to restore collection", "key", key, "error", err.Error())
	}
}

type kvPosts kvStore

func (p *kvPosts) List(ctx context.Context, role model.Role) (_ []*model.Post, err error) {
	ctx, end := startSpan(ctx, "kv", "posts.list")
	defer end(&err)

	p.mu.Lock()
	defer p.mu.Unlock()

	posts, err := loadCollection[*model.Post](ctx, p.kv, KeyPosts)
	if err != nil {
		return nil, err
	}
	sortPostsNewestFirst(posts)
	return visiblePosts(posts, role), nil
}

func (p *kvPosts) Create(ctx context.Context, post *model.Post) (err error) {
	ctx, end := startSpan(ctx, "kv", "posts.create")
	defer end(&err)

	s := (*kvStore)(p)
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := loadCollection[*model.Post](ctx, s.kv, KeyPosts)
	if err != nil {
		return err
	}
	next := append([]*model.Post{post}, posts...)
	if err := s.save(ctx, KeyPosts, next); err != nil {
		return err
	}
	if err := s.appendKnowledge(ctx, model.KnowledgeFromPost(post)); err != nil {
		s.restore(ctx, KeyPosts, posts)
		return err
	}
	return nil
}

type kvTickets kvStore

func (t *kvTickets) List(ctx context.Context, status model.TicketStatus) (_ []*model.Ticket, err error) {
	ctx, end := startSpan(ctx, "kv", "tickets.list")
	defer end(&err)

	t.mu.Lock()
	defer t.mu.Unlock()

	tickets, err := loadCollection[*model.Ticket](ctx, t.kv, KeyTickets)
	if err != nil {
		return nil, err
	}
	sortTicketsNewestFirst(tickets)
	return filterTickets(tickets, status), nil
}

func (t *kvTickets) Create(ctx context.Context, ticket *model.Ticket) (err error) {
	ctx, end := startSpan(ctx, "kv", "tickets.create")
	defer end(&err)

	s := (*kvStore)(t)
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := loadCollection[*model.Ticket](ctx, s.kv, KeyTickets)
	if err != nil {
		return err
	}
	if ticket.Answers == nil {
		ticket.Answers = []model.Answer{}
	}
	return s.save(ctx, KeyTickets, append([]*model.Ticket{ticket}, tickets...))
}

func (t *kvTickets) Resolve(ctx context.Context, id string, answer model.Answer) (_ *model.Ticket, err error) {
	ctx, end := startSpan(ctx, "kv", "tickets.resolve")
	defer end(&err)

	s := (*kvStore)(t)
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := loadCollection[*model.Ticket](ctx, s.kv, KeyTickets)
	if err != nil {
		return nil, err
	}

	var target *model.Ticket
	for _, tk := range tickets {
		if tk.ID == id {
			target = tk
			break
		}
	}
	if target == nil {
		return nil, nil
	}

	// 保留原值用于回滚
	prevStatus, prevAnswers := target.Status, target.Answers
	first := target.Status != model.TicketResolved

	answer.TicketID = target.ID
	target.Answers = append(append([]model.Answer(nil), target.Answers...), answer)
	target.Status = model.TicketResolved
	if err := s.save(ctx, KeyTickets, tickets); err != nil {
		return nil, err
	}

	if first {
		if err := s.appendKnowledge(ctx, model.KnowledgeFromResolution(target, answer.Content)); err != nil {
			target.Status, target.Answers = prevStatus, prevAnswers
			s.restore(ctx, KeyTickets, tickets)
			return nil, err
		}
	}
	return target, nil
}

type kvKnowledge kvStore

func (k *kvKnowledge) List(ctx context.Context) (_ []*model.KnowledgeItem, err error) {
	ctx, end := startSpan(ctx, "kv", "knowledge.list")
	defer end(&err)

	k.mu.Lock()
	defer k.mu.Unlock()
	return loadCollection[*model.KnowledgeItem](ctx, k.kv, KeyKnowledge)
}

func (k *kvKnowledge) Create(ctx context.Context, item *model.KnowledgeItem) (err error) {
	ctx, end := startSpan(ctx, "kv", "knowledge.create")
	defer end(&err)

	s := (*kvStore)(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendKnowledge(ctx, item)
}
