package store

import (
	"time"

	"github.com/kart-io/campusgpt/internal/model"
)

// SeedPosts returns the default bulletin posts, timestamped relative to now.
func SeedPosts(now time.Time) []*model.Post {
	ms := now.UnixMilli()
	return []*model.Post{
		{
			ID:          "p1",
			AuthorEmail: "admin@nits.ac.in",
			AuthorName:  "Registrar Office",
			Content:     "The mid-semester examinations for Spring 2024 will commence from March 15th. Detailed schedule is available on the notice board.",
			Tags:        []string{"Exam", "Schedule"},
			Visibility:  model.VisibilityInternal,
			Timestamp:   ms - 10_000_000,
			Likes:       12,
		},
		{
			ID:          "p2",
			AuthorEmail: "fest_team@nits.ac.in",
			AuthorName:  "Incandescence Team",
			Content:     "Incandescence 2024, our annual cultural fest, is open to the public! Join us on April 5th for the pro-night.",
			Tags:        []string{"Event", "Fest"},
			Visibility:  model.VisibilityPublic,
			Timestamp:   ms - 5_000_000,
			Likes:       45,
		},
	}
}

// SeedKnowledge derives the knowledge items of the given posts.
func SeedKnowledge(posts []*model.Post) []*model.KnowledgeItem {
	items := make([]*model.KnowledgeItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, model.KnowledgeFromPost(p))
	}
	return items
}
