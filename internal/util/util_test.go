package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sprout/pkg/api"
)

func page(id, title string, edited time.Time) api.Page {
	return api.Page{ID: id, LastEditedTime: edited, Properties: api.Properties{
		{Name: "Name", Value: api.PropertyValue{Type: "title", Title: []api.RichText{{PlainText: title}}}},
	}}
}

func samplePages() []api.Page {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []api.Page{
		page("a", "Getting started with Go", t0),
		page("b", "Gardening notes", t0.AddDate(0, 0, 5)),
		page("c", "Go modules", t0.AddDate(0, 0, 10)),
	}
}

func TestFindPages(t *testing.T) {
	pages := samplePages()
	assert.Len(t, FindPages("", pages, 1), 3)

	found := FindPages("gomod", pages, 0)
	require.NotEmpty(t, found)
	assert.Equal(t, "c", found[0].ID)

	assert.Len(t, FindPages("g", pages, 2), 2)
	assert.Empty(t, FindPages("zzz", pages, 0))
}

func TestScoreCompletions(t *testing.T) {
	assert.Equal(t, []string{"build", "serve"}, ScoreCompletions("", []string{"build", "serve"}, 1))
	assert.Equal(t, []string{"serve"}, ScoreCompletions("srv", []string{"build", "serve"}, 5))
	assert.Empty(t, ScoreCompletions("xyz", []string{"build"}, 5))
}

func TestResolvePageID(t *testing.T) {
	pages := samplePages()

	id, err := ResolvePageID("https://www.notion.so/Go-modules-0123456789abcdef0123456789abcdef", pages)
	require.NoError(t, err)
	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", id)

	id, err = ResolvePageID("go modules", pages)
	require.NoError(t, err)
	assert.Equal(t, "c", id)

	id, err = ResolvePageID("garden", pages)
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	_, err = ResolvePageID("g", pages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "be more specific")

	_, err = ResolvePageID("qqq", pages)
	assert.Error(t, err)
}

func TestParseTimeExpr(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"2h":               now.Add(-2 * time.Hour),
		"3d":               now.AddDate(0, 0, -3),
		"1w":               now.AddDate(0, 0, -7),
		"1mo":              now.AddDate(0, -1, 0),
		"2024-01-02":       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		"2024-01-02T15:04": time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseTimeExpr(in, now)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}
	for _, bad := range []string{"", "xd", "soon"} {
		_, err := ParseTimeExpr(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestEditedBetween(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	pages := samplePages()

	got, err := EditedBetween(pages, "2024-03-04", "", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(got))

	got, err = EditedBetween(pages, "2024-03-08", "2024-03-02", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))

	_, err = EditedBetween(pages, "bogus", "", now)
	assert.ErrorContains(t, err, "--since")
}

func ids(pages []api.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.ID
	}
	return out
}
