package render

import (
	"github.com/mithrel/sprout/pkg/api"
)

// IndexDateLayout formats a post's last edit on the index.
const IndexDateLayout = "Jan 02, 2006"

// Index renders the listing of every page in the collection.
func (r *Renderer) Index(pages []api.Page) Fragment {
	list := el("ol", class("posts"))
	for _, p := range pages {
		href := r.PageHref(p.ID)
		title := add(el("h3", class("post-title")), add(el("a", attr("href", href)), Text(p.Title())...))
		date := add(el("p", class("post-description")), text(p.LastEditedTime.Format(IndexDateLayout)))
		more := add(el("div", attr("style", "text-align: left")), add(el("a", attr("href", href)), text(r.opts.ReadMore)))
		add(list, add(el("li", class("post")), title, date, more))
	}
	content := add(el("main", class("container")),
		el("header", class("header")),
		add(el("h2", class("heading")), text("All Posts")),
		list,
	)
	return r.document(r.opts.SiteTitle, content)
}
