package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kart-io/campusgpt/internal/campus/store"
	"github.com/kart-io/campusgpt/internal/model"
	"github.com/kart-io/campusgpt/pkg/storage/kv"
)

func newSeeded(t *testing.T) (*Service, store.IStore) {
	t.Helper()
	s := store.NewKV(kv.NewMemory())
	require.NoError(t, s.Initialize(context.Background()))
	return New(s), s
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"where", "library?"}, Terms("Where is the library?"))
	assert.Empty(t, Terms("is it on"))
	assert.Empty(t, Terms(""))
	assert.Equal(t, []string{"exam"}, Terms("exam  fee"))
	assert.Equal(t, []string{"where", "library"}, Terms("where\tlibrary"))
	assert.Equal(t, []string{"hostel", "timings"}, Terms(" hostel\ntimings "))
}

func TestSearchSplitsOnAnyWhitespace(t *testing.T) {
	svc, _ := newSeeded(t)
	got, err := svc.Search(context.Background(), "semester\nexaminations", model.RoleMember)
	require.NoError(t, err)
	assert.Contains(t, got, "mid-semester examinations")
}

func TestSearchSeed(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	got, err := svc.Search(ctx, "When are the mid-semester examinations?", model.RoleMember)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "- The mid-semester examinations"))

	got, err = svc.Search(ctx, "When are the mid-semester examinations?", model.RoleGuest)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.Search(ctx, "Tell me about Incandescence", model.RoleGuest)
	require.NoError(t, err)
	assert.Equal(t, "- Incandescence 2024, our annual cultural fest, is open to the public! Join us on April 5th for the pro-night.", got)

	got, err = svc.Search(ctx, "is it on", model.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchJoinsLines(t *testing.T) {
	items := []*model.KnowledgeItem{
		{ID: "a", Content: "Library opens at 8", Visibility: model.VisibilityPublic},
		{ID: "b", Content: "Hostel curfew", Visibility: model.VisibilityPublic},
		{ID: "c", Content: "library closes at 9", Visibility: model.VisibilityInternal},
	}
	got := Format(Match(items, "library hours", model.RoleAdmin))
	assert.Equal(t, "- Library opens at 8\n- library closes at 9", got)
}

func TestSearchFindsNewPost(t *testing.T) {
	svc, s := newSeeded(t)
	ctx := context.Background()

	require.NoError(t, s.Posts().Create(ctx, &model.Post{
		ID: "p3", Content: "Robotics workshop in the seminar hall", Tags: []string{},
		Visibility: model.VisibilityInternal, Timestamp: 1,
	}))

	got, err := svc.Search(ctx, "robotics", model.RoleMember)
	require.NoError(t, err)
	assert.Contains(t, got, "Robotics workshop")

	got, err = svc.Search(ctx, "robotics", model.RoleGuest)
	require.NoError(t, err)
	assert.NotContains(t, got, "Robotics workshop")
}

func TestOnChange(t *testing.T) {
	svc, _ := newSeeded(t)
	var calls []string
	svc.OnChange(func(context.Context) { calls = append(calls, "cache") })
	svc.OnChange(func(context.Context) { calls = append(calls, "audit") })

	svc.Changed(context.Background())
	assert.Equal(t, []string{"cache", "audit"}, calls)

	svc.Changed(context.Background())
	assert.Len(t, calls, 4)
}

func TestGuestNeverSeesInternal(t *testing.T) {
	word := rapid.StringMatching(`[a-z]{2,7}`)
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(rt, "n")
		items := make([]*model.KnowledgeItem, 0, n)
		for i := 0; i < n; i++ {
			words := rapid.SliceOfN(word, 1, 6).Draw(rt, "words")
			items = append(items, &model.KnowledgeItem{
				Content:    strings.Join(words, " "),
				Visibility: rapid.SampledFrom([]model.Visibility{model.VisibilityPublic, model.VisibilityInternal}).Draw(rt, "vis"),
			})
		}
		query := strings.Join(rapid.SliceOfN(word, 0, 5).Draw(rt, "query"), " ")

		for _, item := range Match(items, query, model.RoleGuest) {
			if item.Visibility == model.VisibilityInternal {
				rt.Fatalf("guest matched internal item %q", item.Content)
			}
		}

		internal := 0
		for _, item := range Match(items, query, model.RoleMember) {
			if item.Visibility == model.VisibilityInternal {
				internal++
			}
		}
		if len(Match(items, query, model.RoleGuest))+internal != len(Match(items, query, model.RoleMember)) {
			rt.Fatalf("member matches must be guest matches plus internal ones")
		}
	})
}
