package render

import (
	"strings"

	"github.com/mithrel/sprout/pkg/api"
)

// Text renders a sequence of text runs as inline spans, one per run, in
// input order. Nil or empty input renders nothing.
func Text(runs []api.RichText) Fragment {
	if len(runs) == 0 {
		return nil
	}
	out := make(Fragment, 0, len(runs))
	for _, r := range runs {
		span := el("span")
		if c := runClass(r.Annotations); c != "" {
			span.Attr = append(span.Attr, class(c))
		}
		content := text(r.Content())
		if u := r.LinkURL(); u != "" {
			content = add(el("a", attr("href", u)), content)
		}
		out = append(out, add(span, content))
	}
	return out
}

// runClass combines every active style flag into one class list.
func runClass(a api.Annotations) string {
	classes := make([]string, 0, 6)
	if a.Bold {
		classes = append(classes, "bold")
	}
	if a.Color != "" {
		classes = append(classes, "notion-"+a.Color)
	}
	if a.Code {
		classes = append(classes, "code")
	}
	if a.Italic {
		classes = append(classes, "italic")
	}
	if a.Strikethrough {
		classes = append(classes, "strikethrough")
	}
	if a.Underline {
		classes = append(classes, "underline")
	}
	return strings.Join(classes, " ")
}
