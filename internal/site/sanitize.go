package site

import (
	"bytes"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

const doctype = "<!DOCTYPE html>"

// NewPolicy extends the UGC policy with the document shell and the
// classes, data attributes and chart styles the renderer emits.
func NewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowElements("html", "head", "body", "title", "meta", "link", "main", "header", "article",
		"section", "nav", "figure", "figcaption", "details", "summary", "label", "input", "svg", "path")
	p.AllowNoAttrs().OnElements("html", "head", "body", "title", "main", "header", "article",
		"section", "figure", "figcaption", "details", "summary")
	p.AllowAttrs("lang").OnElements("html")
	p.AllowAttrs("charset", "name", "content").OnElements("meta")
	p.AllowAttrs("rel", "href").OnElements("link")
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("for").OnElements("label")
	p.AllowAttrs("type", "id", "checked").OnElements("input")
	p.AllowAttrs("viewBox").OnElements("svg")
	p.AllowAttrs("d").OnElements("path")
	p.AllowAttrs("role", "aria-label").OnElements("span")
	p.AllowAttrs("data").Matching(regexp.MustCompile(`^[0-9]+$`)).OnElements("table", "th", "td")
	p.AllowAttrs("data-language").OnElements("code")
	p.AllowStyles("--size").Matching(regexp.MustCompile(`^[\w .%-]*$`)).OnElements("th", "td")
	p.AllowStyles("text-align").OnElements("div")
	return p
}

// Sanitize filters a rendered document through p. The doctype is not
// token-safe for the sanitizer, so it is stripped and put back.
func Sanitize(p *bluemonday.Policy, doc []byte) []byte {
	body, hadDoctype := bytes.CutPrefix(doc, []byte(doctype))
	out := p.SanitizeBytes(body)
	if !hadDoctype {
		return out
	}
	return append([]byte(doctype), out...)
}
