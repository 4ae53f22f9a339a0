package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sprout/pkg/api"
)

func setupStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	sq, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	mem, err := Open(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() {
		sq.Close()
		mem.Close()
	})
	return map[string]Store{"sqlite": sq, "mem": mem}
}

func title(s string) api.Properties {
	return api.Properties{{Name: "Name", Value: api.PropertyValue{Type: "title", Title: []api.RichText{{PlainText: s}}}}}
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "postgres://localhost/x")
	require.Error(t, err)
	_, err = Open(context.Background(), "")
	require.Error(t, err)
}

func TestPageRoundTrip(t *testing.T) {
	for name, s := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, _, err := s.GetPage(ctx, "p1")
			require.ErrorIs(t, err, ErrNotFound)

			edited := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
			page := api.Page{ID: "p1", LastEditedTime: edited, Properties: title("Hello")}
			blocks := []api.Block{
				{ID: "t", Type: "toggle", HasChildren: true, Payload: api.BlockPayload{RichText: []api.RichText{{PlainText: "more"}}},
					Children: []api.Block{{ID: "d", Type: "divider"}}},
				{ID: "c", Type: "code", Payload: api.BlockPayload{Language: "go"}},
			}
			require.NoError(t, s.PutPage(ctx, page, blocks))

			gotPage, gotBlocks, err := s.GetPage(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Hello", api.FirstPlainText(gotPage.Title()))
			assert.True(t, edited.Equal(gotPage.LastEditedTime))
			require.Len(t, gotBlocks, 2)
			assert.Equal(t, api.KindToggle, gotBlocks[0].Kind())
			require.Len(t, gotBlocks[0].ChildBlocks(), 1)
			assert.Equal(t, api.KindDivider, gotBlocks[0].ChildBlocks()[0].Kind())
			assert.Equal(t, "go", gotBlocks[1].Payload.Language)

			page.Properties = title("Updated")
			require.NoError(t, s.PutPage(ctx, page, nil))
			gotPage, _, err = s.GetPage(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Updated", api.FirstPlainText(gotPage.Title()))
		})
	}
}

func TestDatabaseKeepsOrder(t *testing.T) {
	for name, s := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.ListDatabase(ctx, "db1")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.PutDatabase(ctx, "db1", []api.Page{{ID: "c"}, {ID: "a"}, {ID: "b"}}))
			pages, err := s.ListDatabase(ctx, "db1")
			require.NoError(t, err)
			require.Len(t, pages, 3)
			assert.Equal(t, []string{"c", "a", "b"}, []string{pages[0].ID, pages[1].ID, pages[2].ID})

			require.NoError(t, s.PutDatabase(ctx, "db1", nil))
			pages, err = s.ListDatabase(ctx, "db1")
			require.NoError(t, err)
			assert.Empty(t, pages)
		})
	}
}

func TestOutputsAndClear(t *testing.T) {
	for name, s := range setupStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.GetOutput(ctx, "p1/index.html")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.PutOutput(ctx, "p1/index.html", "h1"))
			require.NoError(t, s.PutOutput(ctx, "p1/index.html", "h2"))
			h, err := s.GetOutput(ctx, "p1/index.html")
			require.NoError(t, err)
			assert.Equal(t, "h2", h)

			require.NoError(t, s.PutPage(ctx, api.Page{ID: "p1"}, nil))
			require.NoError(t, s.PutDatabase(ctx, "db1", []api.Page{{ID: "p1"}}))
			require.NoError(t, s.Clear(ctx))

			_, err = s.GetOutput(ctx, "p1/index.html")
			assert.ErrorIs(t, err, ErrNotFound)
			_, _, err = s.GetPage(ctx, "p1")
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = s.ListDatabase(ctx, "db1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
