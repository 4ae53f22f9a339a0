package util

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/sprout/pkg/api"
)

// pageTitles adapts pages to fuzzy.Source.
type pageTitles []api.Page

func (p pageTitles) String(i int) string { return api.PlainText(p[i].Title()) }
func (p pageTitles) Len() int            { return len(p) }

// FindPages returns up to n pages whose title fuzzily matches query, best
// first. An empty query returns pages unchanged; n <= 0 means no limit.
func FindPages(query string, pages []api.Page, n int) []api.Page {
	if query == "" {
		return pages
	}
	matches := fuzzy.FindFrom(query, pageTitles(pages))
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]api.Page, limit)
	for i := 0; i < limit; i++ {
		out[i] = pages[matches[i].Index]
	}
	return out
}

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}
	out := make([]string, 0, limit)
	for _, m := range matches[:limit] {
		out = append(out, m.Str)
	}
	return out
}

// ResolvePageID turns ref into a page id. Ids and page URLs are parsed
// directly; anything else is matched against page titles, where an exact
// (case-insensitive) title wins and otherwise the fuzzy match must be unique.
func ResolvePageID(ref string, pages []api.Page) (string, error) {
	if id, err := api.ParseID(ref); err == nil {
		return id, nil
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty page reference")
	}
	for _, p := range pages {
		if strings.EqualFold(api.PlainText(p.Title()), ref) {
			return p.ID, nil
		}
	}
	found := FindPages(ref, pages, 0)
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no page matches %q", ref)
	case 1:
		return found[0].ID, nil
	}
	titles := make([]string, 0, 3)
	for _, p := range found[:min(3, len(found))] {
		titles = append(titles, fmt.Sprintf("%q", api.PlainText(p.Title())))
	}
	return "", fmt.Errorf("%q matches %d pages (%s...); be more specific", ref, len(found), strings.Join(titles, ", "))
}
