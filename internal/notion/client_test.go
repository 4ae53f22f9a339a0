package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sprout/pkg/api"
)

const token = "secret-test-token"

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	v := viper.New()
	v.Set("notion.base_url", ts.URL+"/")
	v.Set("notion.token", token)
	v.Set("notion.page_size", 2)
	return New(v, nil)
}

func checkHeaders(t *testing.T, r *http.Request) {
	assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
	assert.Equal(t, DefaultVersion, r.Header.Get("Notion-Version"))
}

func TestGetPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/pages/p1", func(w http.ResponseWriter, r *http.Request) {
		checkHeaders(t, r)
		io.WriteString(w, `{"object":"page","id":"p1","last_edited_time":"2024-03-05T10:00:00.000Z",
			"properties":{"Name":{"id":"title","type":"title","title":[{"plain_text":"Hello"}]}}}`)
	})
	c := newTestClient(t, mux)

	page, err := c.GetPage(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", page.ID)
	assert.Equal(t, "Hello", api.FirstPlainText(page.Title()))
	assert.Equal(t, 2024, page.LastEditedTime.Year())
}

func TestGetPageNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/pages/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"object":"error","status":404,"code":"object_not_found","message":"Could not find page"}`)
	})
	c := newTestClient(t, mux)

	_, err := c.GetPage(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Could not find page", apiErr.Message)
}

func TestGetBlockTreePaginatesAndRecurses(t *testing.T) {
	var childDBFetched bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/blocks/root/children", func(w http.ResponseWriter, r *http.Request) {
		checkHeaders(t, r)
		assert.Equal(t, "2", r.URL.Query().Get("page_size"))
		switch r.URL.Query().Get("start_cursor") {
		case "":
			io.WriteString(w, `{"results":[
				{"id":"a","type":"paragraph","paragraph":{"rich_text":[]}},
				{"id":"b","type":"toggle","has_children":true,"toggle":{"rich_text":[]}}
			],"has_more":true,"next_cursor":"c2"}`)
		case "c2":
			io.WriteString(w, `{"results":[
				{"id":"db","type":"child_database","has_children":true,"child_database":{"title":"Rows"}}
			],"has_more":false,"next_cursor":null}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("start_cursor"))
		}
	})
	mux.HandleFunc("GET /v1/blocks/b/children", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"id":"b1","type":"divider","divider":{}}],"has_more":false}`)
	})
	mux.HandleFunc("GET /v1/blocks/db/children", func(w http.ResponseWriter, r *http.Request) {
		childDBFetched = true
		io.WriteString(w, `{"results":[],"has_more":false}`)
	})
	c := newTestClient(t, mux)

	blocks, err := c.GetBlockTree(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"a", "b", "db"}, []string{blocks[0].ID, blocks[1].ID, blocks[2].ID})
	require.Len(t, blocks[1].ChildBlocks(), 1)
	assert.Equal(t, api.KindDivider, blocks[1].ChildBlocks()[0].Kind())
	assert.False(t, childDBFetched)
}

func TestListPages(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/databases/d1/query", func(w http.ResponseWriter, r *http.Request) {
		checkHeaders(t, r)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls++
		if body["start_cursor"] == nil {
			io.WriteString(w, `{"results":[{"id":"p1","properties":{}},{"id":"p2","properties":{}}],"has_more":true,"next_cursor":"n"}`)
			return
		}
		assert.Equal(t, "n", body["start_cursor"])
		io.WriteString(w, `{"results":[{"id":"p3","properties":{}}],"has_more":false}`)
	})
	c := newTestClient(t, mux)

	pages, err := c.ListPages(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, pages, 3)
	assert.Equal(t, "p3", pages[2].ID)
}

func TestServerErrorWithoutJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	_, err := c.ListPages(context.Background(), "d1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "boom")
}
