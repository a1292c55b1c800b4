package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleMember, ParseRole("member"))
	assert.Equal(t, RoleGuest, ParseRole("guest"))
	assert.Equal(t, RoleGuest, ParseRole("root"))
}

func TestVisibleTo(t *testing.T) {
	assert.True(t, VisibilityPublic.VisibleTo(RoleGuest))
	assert.False(t, VisibilityInternal.VisibleTo(RoleGuest))
	assert.True(t, VisibilityInternal.VisibleTo(RoleMember))
	assert.True(t, VisibilityInternal.VisibleTo(RoleAdmin))
}

func TestKnowledgeFromPost(t *testing.T) {
	p := &Post{ID: "p9", Content: "Library closes at 9pm", Tags: []string{"Library"}, Visibility: VisibilityPublic}
	k := KnowledgeFromPost(p)

	assert.Equal(t, "k_p9", k.ID)
	assert.Equal(t, p.Content, k.Content)
	assert.Equal(t, []string{"Library"}, k.Keywords)
	assert.Equal(t, SourcePost, k.Source)
	assert.Equal(t, VisibilityPublic, k.Visibility)

	k.Keywords[0] = "changed"
	assert.Equal(t, "Library", p.Tags[0], "derived keywords must not alias post tags")
}

func TestKnowledgeFromResolution(t *testing.T) {
	k := KnowledgeFromResolution(&Ticket{ID: "t1", Question: "Where is the library?"}, "Building C")

	assert.Equal(t, "k_ticket_t1", k.ID)
	assert.Equal(t, "Q: Where is the library? A: Building C", k.Content)
	assert.Equal(t, []string{"Q&A"}, k.Keywords)
	assert.Equal(t, SourceTicketResolution, k.Source)
	assert.Equal(t, VisibilityInternal, k.Visibility)
}
