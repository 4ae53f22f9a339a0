package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paragraphJSON = `{
  "object": "block",
  "id": "b1",
  "type": "paragraph",
  "has_children": false,
  "paragraph": {
    "rich_text": [{
      "type": "text",
      "text": {"content": "Hello", "link": {"url": "https://example.com"}},
      "annotations": {"bold": true, "color": "red"},
      "plain_text": "Hello",
      "href": null
    }],
    "color": "default"
  }
}`

func TestBlockDecodePayload(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(paragraphJSON), &b))

	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, KindParagraph, b.Kind())
	require.Len(t, b.Payload.RichText, 1)
	run := b.Payload.RichText[0]
	assert.Equal(t, "Hello", run.Content())
	assert.Equal(t, "https://example.com", run.LinkURL())
	assert.True(t, run.Annotations.Bold)
	assert.False(t, run.Annotations.Italic, "absent flag decodes as off")
	assert.Equal(t, "red", run.Annotations.Color)
}

func TestBlockChildrenFromEitherLocation(t *testing.T) {
	var top, nested Block
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t","type":"toggle","toggle":{},"children":[{"id":"c1","type":"divider","divider":{}}]}`), &top))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"n","type":"bulleted_list_item","bulleted_list_item":{"children":[{"id":"c2","type":"divider","divider":{}}]}}`), &nested))

	require.Len(t, top.ChildBlocks(), 1)
	assert.Equal(t, "c1", top.ChildBlocks()[0].ID)
	require.Len(t, nested.ChildBlocks(), 1)
	assert.Equal(t, "c2", nested.ChildBlocks()[0].ID)
}

func TestRecordPropertiesKeepOrder(t *testing.T) {
	data := `{
  "object": "page",
  "id": "r1",
  "properties": {
    "Zeta": {"id": "z", "type": "rich_text", "rich_text": [{"plain_text": "z"}]},
    "Name": {"id": "title", "type": "title", "title": [{"plain_text": "Row one"}]},
    "Alpha": {"id": "a", "type": "number", "number": 3}
  }
}`
	var b Block
	require.NoError(t, json.Unmarshal([]byte(data), &b))

	assert.Equal(t, KindRecord, b.Kind())
	require.Len(t, b.Properties, 3)
	assert.Equal(t, "Zeta", b.Properties[0].Name)
	assert.Equal(t, "Name", b.Properties[1].Name)
	assert.Equal(t, "Alpha", b.Properties[2].Name)
	assert.Equal(t, "Row one", FirstPlainText(b.Name()))
	assert.Nil(t, b.Properties[2].Value.Title)
	assert.Nil(t, b.Properties[2].Value.RichText)

	rev := b.Properties.Reversed()
	assert.Equal(t, []string{"Alpha", "Name", "Zeta"}, []string{rev[0].Name, rev[1].Name, rev[2].Name})
}

func TestBlockRoundTrip(t *testing.T) {
	data := `{"id":"r1","properties":{"B":{"type":"title","title":[]},"A":{"type":"number","number":7}}}`
	var b Block
	require.NoError(t, json.Unmarshal([]byte(data), &b))

	out, err := json.Marshal(b)
	require.NoError(t, err)

	var again Block
	require.NoError(t, json.Unmarshal(out, &again))
	require.Len(t, again.Properties, 2)
	assert.Equal(t, "B", again.Properties[0].Name)
	assert.NotNil(t, again.Properties[0].Value.Title, "empty title stays present")
	assert.JSONEq(t, `{"type":"number","number":7}`, string(mustJSON(t, again.Properties[1].Value)))
}

func TestKinds(t *testing.T) {
	assert.Equal(t, KindRecord, ParseKind(""))
	assert.Equal(t, KindUnknown, ParseKind("synced_block"))
	for _, k := range Kinds() {
		if k == KindUnknown || k == KindRecord {
			continue
		}
		assert.Equal(t, k, ParseKind(k.String()), "kind %d", k)
	}
}

func TestMediaURL(t *testing.T) {
	assert.Equal(t, "https://x/a.png", BlockPayload{Type: "external", External: &FileRef{URL: "https://x/a.png"}}.MediaURL())
	assert.Equal(t, "https://s3/a.png", BlockPayload{Type: "file", File: &FileRef{URL: "https://s3/a.png"}}.MediaURL())
	assert.Equal(t, "", BlockPayload{Type: "external"}.MediaURL())
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
