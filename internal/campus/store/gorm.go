package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kart-io/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kart-io/campusgpt/internal/model"
)

// gormStore keeps the collections in relational tables. Composite writes
// run in a single transaction.
type gormStore struct {
	db  *gorm.DB
	cfg *config
}

var _ IStore = (*gormStore)(nil)

// NewGorm creates a store over db. Call AutoMigrate before use.
func NewGorm(db *gorm.DB, opts ...Option) IStore {
	return &gormStore{db: db, cfg: newConfig(opts)}
}

// AutoMigrate creates or updates the campus tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Post{}, &model.Ticket{}, &model.Answer{}, &model.KnowledgeItem{})
}

func (s *gormStore) Posts() PostStore          { return &gormPosts{db: s.db} }
func (s *gormStore) Tickets() TicketStore      { return &gormTickets{db: s.db} }
func (s *gormStore) Knowledge() KnowledgeStore { return &gormKnowledge{db: s.db} }

// Close is a no-op, the connection pool belongs to the storage manager.
func (s *gormStore) Close() error {
	return nil
}

// Initialize seeds absent collections. A table with no rows is treated as
// absent, tickets need no seed rows.
func (s *gormStore) Initialize(ctx context.Context) (err error) {
	ctx, end := startSpan(ctx, "gorm", "initialize")
	defer end(&err)

	posts := SeedPosts(s.cfg.now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Post{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			if err := tx.Create(&posts).Error; err != nil {
				return fmt.Errorf("seed posts: %w", err)
			}
			logger.Infow("seeded collection", "table", "posts", "rows", len(posts))
		}

		if err := tx.Model(&model.KnowledgeItem{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			items := SeedKnowledge(posts)
			for _, item := range items {
				if err := tx.Create(item).Error; err != nil {
					return fmt.Errorf("seed knowledge: %w", err)
				}
			}
			logger.Infow("seeded collection", "table", "knowledge_items", "rows", len(items))
		}
		return nil
	})
}

// newestFirst quotes the column, timestamp is a keyword in several dialects.
var newestFirst = clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}

type gormPosts struct {
	db *gorm.DB
}

func (p *gormPosts) List(ctx context.Context, role model.Role) (_ []*model.Post, err error) {
	ctx, end := startSpan(ctx, "gorm", "posts.list")
	defer end(&err)

	q := p.db.WithContext(ctx).Order(newestFirst).Order("id DESC")
	if !role.IsInstitute() {
		q = q.Where("visibility = ?", model.VisibilityPublic)
	}
	var posts []*model.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *gormPosts) Create(ctx context.Context, post *model.Post) (err error) {
	ctx, end := startSpan(ctx, "gorm", "posts.create")
	defer end(&err)

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Create(model.KnowledgeFromPost(post)).Error
	})
}

type gormTickets struct {
	db *gorm.DB
}

func (t *gormTickets) List(ctx context.Context, status model.TicketStatus) (_ []*model.Ticket, err error) {
	ctx, end := startSpan(ctx, "gorm", "tickets.list")
	defer end(&err)

	q := t.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order(newestFirst).Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tickets []*model.Ticket
	if err := q.Find(&tickets).Error; err != nil {
		return nil, err
	}
	for _, tk := range tickets {
		if tk.Answers == nil {
			tk.Answers = []model.Answer{}
		}
	}
	return tickets, nil
}

func (t *gormTickets) Create(ctx context.Context, ticket *model.Ticket) (err error) {
	ctx, end := startSpan(ctx, "gorm", "tickets.create")
	defer end(&err)

	if ticket.Answers == nil {
		ticket.Answers = []model.Answer{}
	}
	return t.db.WithContext(ctx).Create(ticket).Error
}

func (t *gormTickets) Resolve(ctx context.Context, id string, answer model.Answer) (_ *model.Ticket, err error) {
	ctx, end := startSpan(ctx, "gorm", "tickets.resolve")
	defer end(&err)

	var resolved *model.Ticket
	err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket model.Ticket
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Where("id = ?", id).First(&ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		first := ticket.Status != model.TicketResolved
		answer.TicketID = ticket.ID
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		if first {
			if err := tx.Model(&model.Ticket{}).Where("id = ?", ticket.ID).
				Update("status", model.TicketResolved).Error; err != nil {
				return err
			}
			if err := tx.Create(model.KnowledgeFromResolution(&ticket, answer.Content)).Error; err != nil {
				return err
			}
		}

		if err := tx.Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
			Where("id = ?", ticket.ID).First(&ticket).Error; err != nil {
			return err
		}
		resolved = &ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

type gormKnowledge struct {
	db *gorm.DB
}

func (k *gormKnowledge) List(ctx context.Context) (_ []*model.KnowledgeItem, err error) {
	ctx, end := startSpan(ctx, "gorm", "knowledge.list")
	defer end(&err)

	var items []*model.KnowledgeItem
	if err := k.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (k *gormKnowledge) Create(ctx context.Context, item *model.KnowledgeItem) (err error) {
	ctx, end := startSpan(ctx, "gorm", "knowledge.create")
	defer end(&err)

	return k.db.WithContext(ctx).Create(item).Error
}
