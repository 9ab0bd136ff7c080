package content

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfoliocms/internal/database/dbtest"
	"portfoliocms/internal/metrics"
	"portfoliocms/internal/pkg/validator"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	db := dbtest.New(t, &Entry{})
	repo := NewRepository(db)
	return NewService(repo, nil, nil), repo
}

func TestSetGet_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	values := []string{"Hello", "", `[{"text":"a","link":""}]`, "multi\nline ✓"}
	for _, v := range values {
		require.NoError(t, svc.Set(ctx, "homepage", "hero", "line1", v))
		got, err := svc.Get(ctx, "homepage", "hero", "line1")
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestGet_NeverSetIsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.Get(context.Background(), "homepage", "hero", "nope")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestSet_UpsertKeepsSingleRow(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "portfolio", "main", "title", "first"))
	require.NoError(t, svc.Set(ctx, "portfolio", "main", "title", "second"))
	require.NoError(t, svc.Set(ctx, "portfolio", "main", "description", "d"))

	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got, err := svc.Get(ctx, "portfolio", "main", "title")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestSet_RefreshesTimestamp(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "p", "s", "k", "v1"))
	first, err := repo.ListAll(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Set(ctx, "p", "s", "k", "v2"))
	second, err := repo.ListAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.False(t, second[0].UpdatedAt.Before(first[0].UpdatedAt))
}

func TestSet_EmptyKey(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Set(context.Background(), "homepage", "", "line1", "x"), ErrEmptyKey)
}

func TestSet_CountsWrites(t *testing.T) {
	db := dbtest.New(t, &Entry{})
	m := metrics.New()
	svc := NewService(NewRepository(db), nil, m)

	require.NoError(t, svc.Set(context.Background(), "p", "s", "k", "v"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentWrites.WithLabelValues(metrics.ResultOK)))
}

func TestHomepage_SaveLoad(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := &Homepage{
		Hero:    Hero{Line1: "Designer", Line2: "and writer", Subtitle: "Based in Delhi"},
		Present: ListSection{Title: "Now", Items: []LinkItem{{Text: "Studio X", Link: "https://x.example"}}},
		Past:    ListSection{Title: "Before"},
		Social:  SocialSection{Items: []LinkItem{{Text: "Instagram", Link: "https://instagram.com/t"}}},
	}
	require.NoError(t, svc.SaveHomepage(ctx, in))

	out, err := svc.LoadHomepage(ctx)
	require.NoError(t, err)
	assert.Equal(t, in.Hero, out.Hero)
	assert.Equal(t, in.Present, out.Present)
	assert.Equal(t, []LinkItem{}, out.Past.Items)
	assert.Equal(t, in.Social, out.Social)

	raw, err := svc.Get(ctx, PageHomepage, SectionPast, KeyItems)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestHomepage_LoadEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	hp, err := svc.LoadHomepage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", hp.Hero.Line1)
	assert.NotNil(t, hp.Present.Items)
	assert.Empty(t, hp.Present.Items)
}

func TestHomepage_MalformedStoredJSONFailsLoudly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, PageHomepage, SectionSocial, KeyItems, "[{broken"))

	_, err := svc.LoadHomepage(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedContent)

	var me *MalformedError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, SectionSocial, me.Section)
}

func TestHomepage_ValidationOnWrite(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.SaveHomepage(ctx, &Homepage{Present: ListSection{Items: []LinkItem{{Text: "", Link: "x"}}}})
	var fe validator.FieldsError
	require.True(t, errors.As(err, &fe))

	got, err := svc.Get(ctx, PageHomepage, SectionPresent, KeyItems)
	require.NoError(t, err)
	assert.Equal(t, "", got, "nothing is written when validation fails")
}

func TestPortfolio_SaveLoad(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := &Portfolio{Title: "Work", Description: "Selected", Items: []LinkItem{{Text: "Case A", Link: "/a"}}}
	require.NoError(t, svc.SavePortfolio(ctx, in))

	out, err := svc.LoadPortfolio(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPage_DecodesJSONValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "homepage", "hero", "line1", "Hi"))
	require.NoError(t, svc.Set(ctx, "homepage", "present", "items", `[{"text":"a","link":"b"}]`))
	require.NoError(t, svc.Set(ctx, "portfolio", "main", "title", "other page"))

	page, err := svc.Page(ctx, "homepage")
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, "Hi", page["hero"]["line1"])
	assert.Equal(t, []any{map[string]any{"text": "a", "link": "b"}}, page["present"]["items"])

	require.NoError(t, svc.Set(ctx, "homepage", "past", "items", "{nope"))
	_, err = svc.Page(ctx, "homepage")
	assert.ErrorIs(t, err, ErrMalformedContent)
}

func TestPage_BracketedTextStaysText(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveHomepage(ctx, &Homepage{
		Hero: Hero{Line1: "[New] Designer", Subtitle: "{beta}"},
	}))
	require.NoError(t, svc.Set(ctx, "homepage", "hero", "line2", `{"looks":"like json"}`))

	h, err := svc.LoadHomepage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[New] Designer", h.Hero.Line1)

	page, err := svc.Page(ctx, "homepage")
	require.NoError(t, err)
	assert.Equal(t, "[New] Designer", page["hero"]["line1"])
	assert.Equal(t, "{beta}", page["hero"]["subtitle"])
	assert.Equal(t, `{"looks":"like json"}`, page["hero"]["line2"])
	assert.Equal(t, []any{}, page["present"]["items"])
}
