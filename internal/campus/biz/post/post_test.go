package post

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campusgpt/internal/campus/biz/knowledge"
	"github.com/kart-io/campusgpt/internal/campus/store"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/pkg/storage/kv"
	"github.com/kart-io/campusgpt/pkg/utils/errors"
)

type seqIDs struct{ n int }

func (g *seqIDs) Generate() string {
	g.n++
	return fmt.Sprintf("post%d", g.n)
}

var (
	member = &model.User{Email: "student@nits.ac.in", Name: "student", Role: model.RoleMember}
	guest  = &model.User{Email: "guest@gmail.com", Name: "guest", Role: model.RoleGuest}
)

func newService(t *testing.T) (*Service, *knowledge.Service) {
	t.Helper()
	s := store.NewKV(kv.NewMemory())
	kb := knowledge.New(s)
	now := time.UnixMilli(1_710_000_000_000)
	return New(s, kb, WithIDGenerator(&seqIDs{}), WithClock(func() time.Time { return now })), kb
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"Exam", "Hostel"}, SplitTags(" Exam, ,Hostel ,"))
	assert.Equal(t, []string{}, SplitTags(""))
}

func TestParseVisibility(t *testing.T) {
	v, err := ParseVisibility("")
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityInternal, v)

	v, err = ParseVisibility("Public")
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPublic, v)

	_, err = ParseVisibility("secret")
	assert.ErrorIs(t, err, errors.ErrCampusBadVisibility)
}

func TestCreate(t *testing.T) {
	svc, kb := newService(t)
	ctx := context.Background()
	changed := 0
	kb.OnChange(func(context.Context) { changed++ })

	p, err := svc.Create(ctx, member, CreateRequest{Content: "Library closes early on Friday", Tags: "Library, Notice"})
	require.NoError(t, err)
	assert.Equal(t, "post1", p.ID)
	assert.Equal(t, "student", p.AuthorName)
	assert.Equal(t, model.VisibilityInternal, p.Visibility)
	assert.Equal(t, []string{"Library", "Notice"}, p.Tags)
	assert.Equal(t, int64(1_710_000_000_000), p.Timestamp)
	assert.Zero(t, p.Likes)
	assert.Equal(t, 1, changed)

	got, err := kb.Search(ctx, "library", model.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "- Library closes early on Friday", got)
}

func TestCreateRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, guest, CreateRequest{Content: "hello"})
	assert.ErrorIs(t, err, errors.ErrCampusPermissionDenied)

	_, err = svc.Create(ctx, member, CreateRequest{Content: "   "})
	assert.ErrorIs(t, err, errors.ErrCampusEmptyContent)

	_, err = svc.Create(ctx, member, CreateRequest{Content: "x", Visibility: "everyone"})
	assert.ErrorIs(t, err, errors.ErrCampusBadVisibility)

	posts, err := svc.List(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestListByRole(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, member, CreateRequest{Content: "internal note"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, member, CreateRequest{Content: "public note", Visibility: "public"})
	require.NoError(t, err)

	posts, err := svc.List(ctx, model.RoleGuest)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "public note", posts[0].Content)

	posts, err = svc.List(ctx, model.RoleMember)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}
