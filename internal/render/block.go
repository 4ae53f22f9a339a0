package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/mithrel/sprout/pkg/api"
)

const defaultCalloutIcon = "💡"

// fileIconPath is the paperclip glyph shown in front of file links.
const fileIconPath = "M22,8v12c0,3.866-3.134,7-7,7s-7-3.134-7-7V8c0-2.762,2.238-5,5-5s5,2.238,5,5v12c0,1.657-1.343,3-3,3s-3-1.343-3-3V8h-2v12c0,2.762,2.238,5,5,5s5-2.238,5-5V8c0-3.866-3.134-7-7-7S6,4.134,6,8v12c0,4.971,4.029,9,9,9s9-4.029,9-9V8H22z"

// Blocks renders a sequence of sibling blocks in document order.
func Blocks(blocks []api.Block) Fragment {
	var out Fragment
	for _, b := range blocks {
		out = append(out, Block(b, blocks)...)
	}
	return out
}

// Block renders b and, recursively, all of its descendants. siblings is
// the sequence b belongs to; only record blocks look at it.
// Block never fails: unknown discriminators render a visible placeholder.
func Block(b api.Block, siblings []api.Block) Fragment {
	p := b.Payload
	switch b.Kind() {
	case api.KindParagraph:
		return one(add(el("p"), Text(p.RichText)...))
	case api.KindHeading1:
		return one(add(el("h1", class("notion-h notion-h1")), Text(p.RichText)...))
	case api.KindHeading2:
		return one(add(el("h2", class("notion-h notion-h2")), Text(p.RichText)...))
	case api.KindHeading3:
		return one(add(el("h3", class("notion-h notion-h3")), Text(p.RichText)...))
	case api.KindBulletedList:
		return one(add(el("ul", class("notion-list notion-list-disc")), Blocks(b.ChildBlocks())...))
	case api.KindNumberedList:
		return one(add(el("ol", class("notion-list notion-list-numbered")), Blocks(b.ChildBlocks())...))
	case api.KindBulletedListItem, api.KindNumberedListItem:
		li := add(el("li"), Text(p.RichText)...)
		return one(add(li, nestedList(b)))
	case api.KindToDo:
		return one(toDo(b))
	case api.KindToggle:
		summary := add(el("summary"), Text(p.RichText)...)
		return one(add(add(el("details"), summary), Blocks(b.ChildBlocks())...))
	case api.KindChildPage:
		div := add(el("div", class("child-page")), add(el("strong"), text(p.Title)))
		return one(add(div, Blocks(b.ChildBlocks())...))
	case api.KindImage:
		return one(image(p))
	case api.KindDivider:
		return one(el("hr"))
	case api.KindQuote:
		return one(add(el("blockquote", class("notion-quote")), text(leadText(p))))
	case api.KindCode:
		return one(code(p))
	case api.KindFile:
		return one(file(p))
	case api.KindBookmark:
		a := el("a", attr("href", p.URL), attr("target", "_blank"), class("bookmark"))
		return one(add(a, text(p.URL)))
	case api.KindTable:
		return one(table(b))
	case api.KindTableRow:
		return one(add(el("table", class("table")), add(el("tbody"), tableRow(b, api.BlockPayload{}, 0))))
	case api.KindColumnList:
		return one(add(el("div", class("row")), Blocks(b.ChildBlocks())...))
	case api.KindColumn:
		return one(add(el("div", class("column")), Blocks(b.ChildBlocks())...))
	case api.KindCallout:
		return one(callout(p))
	case api.KindChildDatabase:
		return nil
	case api.KindRecord:
		return Record(b, siblings)
	case api.KindUnknown:
		return unsupported(b.Type)
	default:
		return unsupported(b.Type)
	}
}

// Unsupported returns the placeholder text shown for an unknown block type.
func Unsupported(blockType string) string {
	if blockType == "unsupported" {
		blockType = "unsupported by Notion API"
	}
	return "❌ Unsupported block (" + blockType + ")"
}

func unsupported(blockType string) Fragment {
	return one(text(Unsupported(blockType)))
}

// nestedList wraps a list item's children in a list whose kind follows
// the first child: ordered for numbered items, unordered otherwise.
func nestedList(b api.Block) *html.Node {
	children := b.ChildBlocks()
	if len(children) == 0 {
		return nil
	}
	list := el("ul", class("notion-list notion-list-disc"))
	if nestedOrdered(children) {
		list = el("ol", class("notion-list notion-list-numbered"))
	}
	return add(list, Blocks(children)...)
}

func toDo(b api.Block) *html.Node {
	input := el("input", attr("type", "checkbox"), attr("id", b.ID))
	if b.Payload.Checked {
		input.Attr = append(input.Attr, attr("checked", ""))
	}
	label := add(el("label", attr("for", b.ID)), input, text(" "))
	label = add(label, Text(b.Payload.RichText)...)
	return add(el("div", class("to-do")), label)
}

func image(p api.BlockPayload) *html.Node {
	src, caption := mediaParts(p)
	fig := el("figure", class("notion-asset-wrapper notion-asset-wrapper-image"))
	add(fig, add(el("div", class("wrap")), el("img", attr("src", src), attr("alt", caption))))
	if caption != "" {
		add(fig, add(el("figcaption"), text(caption)))
	}
	return fig
}

func code(p api.BlockPayload) *html.Node {
	c := el("code", class("code-block"))
	if p.Language != "" {
		c.Attr = append(c.Attr, attr("data-language", p.Language))
	}
	return add(el("pre", class("pre")), add(c, text(leadText(p))))
}

func file(p api.BlockPayload) *html.Node {
	src, caption := mediaParts(p)

	svg := add(el("svg", class("notion-file-icon"), attr("viewBox", "0 0 30 30")), el("path", attr("d", fileIconPath)))
	link := add(el("a", class("notion-file-link"), attr("href", src)), add(el("span"), svg), text(" "+FileName(src)))

	fig := add(el("figure", class("notion-file")), link)
	if caption != "" {
		add(fig, add(el("figcaption"), text(caption)))
	}
	return fig
}

// FileName extracts the display name of a file URL: the last path
// segment with any query suffix removed.
func FileName(src string) string {
	name := src[strings.LastIndex(src, "/")+1:]
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return name
}

func callout(p api.BlockPayload) *html.Node {
	icon, content := calloutParts(p)
	iconSpan := el("span", class("notion-page-icon"), attr("role", "img"), attr("aria-label", icon))
	div := el("div", class("notion-callout notion-gray_background_co"))
	add(div, add(el("div", class("notion-page-icon-inline notion-page-icon-span")), add(iconSpan, text(icon))))
	return add(div, add(el("div", class("notion-callout-text")), text(content)))
}

// ScalePercent converts a chart cell into its percentage label:
// value * 10000 / 100. Values that are not numbers pass through unchanged.
func ScalePercent(raw string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(f*10000/100, 'f', -1, 64)
}
