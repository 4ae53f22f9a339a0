package render

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"

	"github.com/mithrel/sprout/pkg/api"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func run(s string) api.RichText {
	return api.RichText{Type: "text", PlainText: s, Text: &api.TextContent{Content: s}}
}

func runs(ss ...string) []api.RichText {
	out := make([]api.RichText, 0, len(ss))
	for _, s := range ss {
		out = append(out, run(s))
	}
	return out
}

func blk(id, typ string, p api.BlockPayload, children ...api.Block) api.Block {
	return api.Block{ID: id, Type: typ, Payload: p, Children: children}
}

func row(id string, cells ...string) api.Block {
	p := api.BlockPayload{}
	for _, c := range cells {
		p.Cells = append(p.Cells, runs(c))
	}
	return blk(id, "table_row", p)
}

func TestText(t *testing.T) {
	t.Run("nil and empty render nothing", func(t *testing.T) {
		assert.Empty(t, Text(nil))
		assert.Empty(t, Text([]api.RichText{}))
		assert.Equal(t, "", Text(nil).String())
	})

	t.Run("one span per run in order", func(t *testing.T) {
		out := Text(runs("a", "b")).String()
		assert.Equal(t, "<span>a</span><span>b</span>", out)
	})

	t.Run("all active flags combine", func(t *testing.T) {
		r := run("x")
		r.Annotations = api.Annotations{Bold: true, Italic: true, Underline: true, Color: "red"}
		assert.Equal(t, `<span class="bold notion-red italic underline">x</span>`, Text([]api.RichText{r}).String())
	})

	t.Run("links wrap content", func(t *testing.T) {
		r := run("site")
		r.Text.Link = &api.Link{URL: "https://example.com"}
		r.Annotations.Code = true
		assert.Equal(t, `<span class="code"><a href="https://example.com">site</a></span>`, Text([]api.RichText{r}).String())
	})

	t.Run("content is escaped", func(t *testing.T) {
		assert.Equal(t, "<span>a &lt;b&gt;</span>", Text(runs("a <b>")).String())
	})
}

func TestBlockEveryKindRenders(t *testing.T) {
	for _, k := range api.Kinds() {
		if k == api.KindChildDatabase {
			continue
		}
		b := api.Block{ID: "k", Type: k.String(), Payload: api.BlockPayload{RichText: runs("t")}}
		if k == api.KindRecord {
			b = api.Block{ID: "k", Properties: api.Properties{{Name: "Name", Value: api.PropertyValue{Type: "title", Title: runs("t")}}}}
		}
		if k == api.KindUnknown {
			b.Type = "synced_block"
		}
		assert.NotEmpty(t, Block(b, []api.Block{b}).String(), "kind %s", k)
	}
}

func TestBlocks(t *testing.T) {
	cases := []struct {
		name string
		in   api.Block
		want string
	}{
		{"paragraph", blk("p", "paragraph", api.BlockPayload{RichText: runs("Hi")}), "<p><span>Hi</span></p>"},
		{"empty paragraph", blk("p", "paragraph", api.BlockPayload{}), "<p></p>"},
		{"heading", blk("h", "heading_2", api.BlockPayload{RichText: runs("T")}), `<h2 class="notion-h notion-h2"><span>T</span></h2>`},
		{"divider", blk("d", "divider", api.BlockPayload{}), "<hr/>"},
		{"quote first run only", blk("q", "quote", api.BlockPayload{RichText: runs("one", "two")}), `<blockquote class="notion-quote">one</blockquote>`},
		{"code", blk("c", "code", api.BlockPayload{RichText: runs("x := 1"), Language: "go"}), `<pre class="pre"><code class="code-block" data-language="go">x := 1</code></pre>`},
		{"bookmark", blk("b", "bookmark", api.BlockPayload{URL: "https://a.b"}), `<a href="https://a.b" target="_blank" class="bookmark">https://a.b</a>`},
		{"child database", blk("cd", "child_database", api.BlockPayload{Title: "DB"}), ""},
		{"unknown", blk("u", "synced_block", api.BlockPayload{}), "❌ Unsupported block (synced_block)"},
		{"unsupported", blk("u", "unsupported", api.BlockPayload{}), "❌ Unsupported block (unsupported by Notion API)"},
		{
			"to do checked",
			blk("td", "to_do", api.BlockPayload{RichText: runs("Buy"), Checked: true}),
			`<div class="to-do"><label for="td"><input type="checkbox" id="td" checked=""/> <span>Buy</span></label></div>`,
		},
		{
			"to do unchecked",
			blk("td", "to_do", api.BlockPayload{RichText: runs("Buy")}),
			`<div class="to-do"><label for="td"><input type="checkbox" id="td"/> <span>Buy</span></label></div>`,
		},
		{
			"toggle",
			blk("tg", "toggle", api.BlockPayload{RichText: runs("More")}, blk("p", "paragraph", api.BlockPayload{RichText: runs("in")})),
			"<details><summary><span>More</span></summary><p><span>in</span></p></details>",
		},
		{
			"image with caption",
			blk("i", "image", api.BlockPayload{Type: "external", External: &api.FileRef{URL: "https://x/a.png"}, Caption: runs("cap")}),
			`<figure class="notion-asset-wrapper notion-asset-wrapper-image"><div class="wrap"><img src="https://x/a.png" alt="cap"/></div><figcaption>cap</figcaption></figure>`,
		},
		{
			"callout default icon",
			blk("co", "callout", api.BlockPayload{RichText: runs("Note")}),
			`<div class="notion-callout notion-gray_background_co"><div class="notion-page-icon-inline notion-page-icon-span"><span class="notion-page-icon" role="img" aria-label="💡">💡</span></div><div class="notion-callout-text">Note</div></div>`,
		},
		{"empty quote", blk("q", "quote", api.BlockPayload{}), `<blockquote class="notion-quote"></blockquote>`},
		{"empty code", blk("c", "code", api.BlockPayload{}), `<pre class="pre"><code class="code-block"></code></pre>`},
		{
			"empty callout",
			blk("co", "callout", api.BlockPayload{}),
			`<div class="notion-callout notion-gray_background_co"><div class="notion-page-icon-inline notion-page-icon-span"><span class="notion-page-icon" role="img" aria-label="💡">💡</span></div><div class="notion-callout-text"></div></div>`,
		},
		{
			"image without reference",
			blk("i", "image", api.BlockPayload{Type: "external"}),
			`<figure class="notion-asset-wrapper notion-asset-wrapper-image"><div class="wrap"><img src="" alt=""/></div></figure>`,
		},
		{
			"bulleted list container",
			blk("bl", "bulleted_list", api.BlockPayload{},
				blk("a", "bulleted_list_item", api.BlockPayload{RichText: runs("a")}),
				blk("b", "bulleted_list_item", api.BlockPayload{RichText: runs("b")})),
			`<ul class="notion-list notion-list-disc"><li><span>a</span></li><li><span>b</span></li></ul>`,
		},
		{
			"numbered list container",
			blk("nl", "numbered_list", api.BlockPayload{},
				blk("a", "numbered_list_item", api.BlockPayload{RichText: runs("a")},
					blk("a1", "numbered_list_item", api.BlockPayload{RichText: runs("a.1")})),
				blk("b", "numbered_list_item", api.BlockPayload{RichText: runs("b")})),
			`<ol class="notion-list notion-list-numbered"><li><span>a</span><ol class="notion-list notion-list-numbered"><li><span>a.1</span></li></ol></li><li><span>b</span></li></ol>`,
		},
		{
			"child page with children",
			blk("cp", "child_page", api.BlockPayload{Title: "Sub"}, blk("p", "paragraph", api.BlockPayload{RichText: runs("in")}), blk("d", "divider", api.BlockPayload{})),
			`<div class="child-page"><strong>Sub</strong><p><span>in</span></p><hr/></div>`,
		},
		{
			"column layout",
			blk("cl", "column_list", api.BlockPayload{}, blk("c1", "column", api.BlockPayload{}, blk("d", "divider", api.BlockPayload{}))),
			`<div class="row"><div class="column"><hr/></div></div>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Block(tc.in, []api.Block{tc.in}).String())
		})
	}
}

func TestNestedListFollowsFirstChild(t *testing.T) {
	numbered := blk("n1", "numbered_list_item", api.BlockPayload{RichText: runs("a")})
	bulleted := blk("b1", "bulleted_list_item", api.BlockPayload{RichText: runs("b")})

	parent := blk("p", "bulleted_list_item", api.BlockPayload{RichText: runs("top")}, numbered, bulleted)
	out := Block(parent, nil).String()
	assert.Equal(t, `<li><span>top</span><ol class="notion-list notion-list-numbered"><li><span>a</span></li><li><span>b</span></li></ol></li>`, out)

	parent = blk("p", "numbered_list_item", api.BlockPayload{RichText: runs("top")}, bulleted)
	assert.Contains(t, Block(parent, nil).String(), `<ul class="notion-list notion-list-disc">`)

	leaf := blk("p", "numbered_list_item", api.BlockPayload{RichText: runs("top")})
	assert.Equal(t, "<li><span>top</span></li>", Block(leaf, nil).String())
}

func TestChildrenRenderOnceInOrder(t *testing.T) {
	para := func(id string) api.Block {
		return blk(id, "paragraph", api.BlockPayload{RichText: runs("<" + id + ">")})
	}
	toggle := blk("t", "toggle", api.BlockPayload{RichText: runs("more")}, para("c3"), para("c4"), para("c5"))
	col := blk("col", "column", api.BlockPayload{}, para("c1"), para("c2"), toggle, para("c6"))
	out := Block(col, nil).String()

	last := -1
	for _, id := range []string{"c1", "c2", "c3", "c4", "c5", "c6"} {
		marker := "&lt;" + id + "&gt;"
		assert.Equal(t, 1, strings.Count(out, marker), id)
		i := strings.Index(out, marker)
		assert.Greater(t, i, last, "%s out of order", id)
		last = i
	}
}

func TestFile(t *testing.T) {
	assert.Equal(t, "report.pdf", FileName("https://files.example.com/a/b/report.pdf?v=2"))
	assert.Equal(t, "plain", FileName("plain"))
	assert.Equal(t, "", FileName(""))

	b := blk("f", "file", api.BlockPayload{Type: "file", File: &api.FileRef{URL: "https://s3/x/report.pdf?sig=1"}})
	out := Block(b, nil).String()
	assert.Contains(t, out, `<a class="notion-file-link" href="https://s3/x/report.pdf?sig=1">`)
	assert.Contains(t, out, "</svg></span> report.pdf</a>")
	assert.NotContains(t, out, "figcaption")

	out = Block(blk("f", "file", api.BlockPayload{Type: "file"}), nil).String()
	assert.Contains(t, out, `<a class="notion-file-link" href="">`)
	assert.Contains(t, out, "</svg></span> </a></figure>")
}

func TestTable(t *testing.T) {
	t.Run("column header", func(t *testing.T) {
		tb := blk("t", "table", api.BlockPayload{TableWidth: 3, HasColumnHeader: true}, row("r1", "A", "B", "C"), row("r2", "1", "2", "3"))
		out := Block(tb, nil).String()
		assert.Equal(t, `<table class="table"><tbody>`+
			`<tr><th><span>A</span></th><th><span>B</span></th><th><span>C</span></th></tr>`+
			`<tr><td><span>1</span></td><td><span>2</span></td><td><span>3</span></td></tr>`+
			`</tbody></table>`, out)
	})

	t.Run("row header", func(t *testing.T) {
		tb := blk("t", "table", api.BlockPayload{TableWidth: 3, HasRowHeader: true}, row("r1", "A", "B", "C"))
		assert.Contains(t, Block(tb, nil).String(), `<tr><th><span>A</span></th><td><span>B</span></td>`)
	})

	t.Run("chart", func(t *testing.T) {
		tb := blk("t", "table", api.BlockPayload{TableWidth: 2}, row("r1", "Jan", "42"), row("r2", "Feb", "0.5"))
		out := Block(tb, nil).String()
		assert.Contains(t, out, `<table data="2" class="charts-css column show-labels">`)
		assert.Contains(t, out, `<tr><th style="--size: Jan" data="0"><span>Jan</span></th><td style="--size: 42" data="1">4200%</td></tr>`)
		assert.Contains(t, out, `<td style="--size: 0.5" data="1">50%</td>`)
	})

	t.Run("standalone row", func(t *testing.T) {
		assert.Equal(t, `<table class="table"><tbody><tr><td><span>x</span></td></tr></tbody></table>`, Block(row("r", "x"), nil).String())
	})
}

func TestScalePercent(t *testing.T) {
	assert.Equal(t, "4200", ScalePercent("42"))
	assert.Equal(t, "50", ScalePercent("0.5"))
	assert.Equal(t, "n/a", ScalePercent("n/a"))
}
