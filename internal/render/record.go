package render

import (
	"golang.org/x/net/html"

	"github.com/mithrel/sprout/pkg/api"
)

const topAnchor = "top"

// Record renders a generic (type-less) database row. When b is the first
// element of siblings, a navigation index over all siblings precedes it.
func Record(b api.Block, siblings []api.Block) Fragment {
	first := len(siblings) > 0 && siblings[0].ID == b.ID
	return record(b, siblings, first)
}

// Records renders a whole collection of rows; only the first row carries
// the navigation index.
func Records(rows []api.Block) Fragment {
	var out Fragment
	for i, r := range rows {
		if r.Kind() != api.KindRecord {
			out = append(out, Block(r, rows)...)
			continue
		}
		out = append(out, record(r, rows, i == 0)...)
	}
	return out
}

func record(b api.Block, siblings []api.Block, first bool) Fragment {
	var out Fragment
	if first {
		out = append(out, recordIndex(siblings))
	}
	out = append(out,
		el("a", attr("id", b.ID), class("notion-anchor")),
		add(el("h2", class("notion-db-title")), Text(b.Name())...),
		recordTable(b.Properties),
	)
	return out
}

// recordIndex links every row by its Name title, then back to the top.
func recordIndex(rows []api.Block) *html.Node {
	nav := el("nav", class("notion-db-index"))
	for _, r := range rows {
		label := api.FirstPlainText(r.Name())
		if label == "" {
			label = r.ID
		}
		add(nav, add(el("a", attr("href", "#"+r.ID)), text(label)))
	}
	return add(nav, add(el("a", attr("href", "#"+topAnchor), class("notion-db-top")), text("↑ Top")))
}

// recordTable lists the properties in reverse declaration order. Title
// values become header cells, rich text values data cells; other property
// types are skipped.
func recordTable(props api.Properties) *html.Node {
	body := el("tbody")
	for _, p := range props.Reversed() {
		var tag string
		var runs []api.RichText
		switch {
		case p.Value.Title != nil:
			tag, runs = "th", p.Value.Title
		case p.Value.RichText != nil:
			tag, runs = "td", p.Value.RichText
		default:
			continue
		}
		tr := add(el("tr"), add(el(tag), text(p.Name)), add(el(tag), Text(runs)...))
		add(body, tr)
	}
	return add(el("table", class("notion-db-row")), body)
}
