// Package store persists posts, tickets and knowledge items.
package store

import (
	"context"
	"sort"

	"github.com/kart-io/campusgpt/internal/model"
)

// Collection keys used by the key/value backend.
const (
	KeyPosts     = "campusgpt_posts"
	KeyTickets   = "campusgpt_tickets"
	KeyKnowledge = "campusgpt_knowledge"
)

const tracerName = "campusgpt/store"

// IStore is the repository for the three campus collections.
// Each method is atomic within the process.
type IStore interface {
	Posts() PostStore
	Tickets() TicketStore
	Knowledge() KnowledgeStore

	// Initialize seeds every absent collection. Present collections are left
	// untouched, so calling it repeatedly is safe.
	Initialize(ctx context.Context) error
	Close() error
}

// PostStore defines the post storage interface.
type PostStore interface {
	// List returns the posts visible to role, newest first.
	List(ctx context.Context, role model.Role) ([]*model.Post, error)
	// Create appends the post together with its derived knowledge item.
	Create(ctx context.Context, post *model.Post) error
}

// TicketStore defines the ticket storage interface.
type TicketStore interface {
	// List returns tickets newest first. An empty status returns all tickets.
	List(ctx context.Context, status model.TicketStatus) ([]*model.Ticket, error)
	Create(ctx context.Context, ticket *model.Ticket) error
	// Resolve appends answer and marks the ticket resolved. The first
	// resolution also records an internal knowledge item. An unknown id
	// returns (nil, nil) and changes nothing.
	Resolve(ctx context.Context, id string, answer model.Answer) (*model.Ticket, error)
}

// KnowledgeStore defines the knowledge storage interface.
type KnowledgeStore interface {
	// List returns all items in insertion order.
	List(ctx context.Context) ([]*model.KnowledgeItem, error)
	Create(ctx context.Context, item *model.KnowledgeItem) error
}

func sortPostsNewestFirst(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp > posts[j].Timestamp
	})
}

func sortTicketsNewestFirst(tickets []*model.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].Timestamp > tickets[j].Timestamp
	})
}

func visiblePosts(posts []*model.Post, role model.Role) []*model.Post {
	if role.IsInstitute() {
		return posts
	}
	out := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if p.Visibility == model.VisibilityPublic {
			out = append(out, p)
		}
	}
	return out
}

func filterTickets(tickets []*model.Ticket, status model.TicketStatus) []*model.Ticket {
	if status == "" {
		return tickets
	}
	out := make([]*model.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
