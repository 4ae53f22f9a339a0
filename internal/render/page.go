package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/mithrel/sprout/pkg/api"
)

// Options are the site-wide settings that surround rendered content.
type Options struct {
	// SiteTitle is the index page title.
	SiteTitle string
	// BasePath prefixes page links on the index; "/" when empty.
	BasePath string
	// Stylesheet and Icon are optional hrefs added to every document head.
	Stylesheet string
	Icon       string
	// ReadMore labels the index link to each page.
	ReadMore string
	Lang     string
}

// Renderer renders whole documents. Block-level rendering needs no
// options and lives in package-level functions.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.BasePath == "" {
		opts.BasePath = "/"
	}
	if !strings.HasSuffix(opts.BasePath, "/") {
		opts.BasePath += "/"
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.ReadMore == "" {
		opts.ReadMore = "Read more →"
	}
	return &Renderer{opts: opts}
}

// Page renders one page document: its title, every top-level block in
// order and, when records is non-empty, the attached collection rows.
// A nil page or nil blocks renders an empty <div>.
func (r *Renderer) Page(page *api.Page, blocks []api.Block, records []api.Block) Fragment {
	if page == nil || blocks == nil {
		return one(el("div"))
	}
	article := el("article", class("container"))
	add(article, el("a", attr("id", topAnchor)))
	add(article, add(el("h1", class("notion-h2")), Text(page.Title())...))
	add(article, add(el("section"), Blocks(blocks)...))
	if len(records) > 0 {
		add(article, add(el("section", class("notion-db")), Records(records)...))
	}
	return r.document(api.FirstPlainText(page.Title()), article)
}

// PageHref is the link to a page's output directory.
func (r *Renderer) PageHref(id string) string {
	return r.opts.BasePath + id + "/"
}

func (r *Renderer) document(title string, content *html.Node) Fragment {
	head := add(el("head"),
		el("meta", attr("charset", "utf-8")),
		el("meta", attr("name", "viewport"), attr("content", "width=device-width, initial-scale=1")),
		add(el("title"), text(title)),
	)
	if r.opts.Stylesheet != "" {
		add(head, el("link", attr("rel", "stylesheet"), attr("href", r.opts.Stylesheet)))
	}
	if r.opts.Icon != "" {
		add(head, el("link", attr("rel", "icon"), attr("href", r.opts.Icon)))
	}
	root := add(el("html", attr("lang", r.opts.Lang)), head, add(el("body"), content))
	doctype := &html.Node{Type: html.DoctypeNode, Data: "html"}
	return Fragment{doctype, root}
}
