package present

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mithrel/sprout/internal/present/format"
	"github.com/mithrel/sprout/internal/present/tui"
	"github.com/mithrel/sprout/internal/render"
	"github.com/mithrel/sprout/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
	ModeHTML
	ModeMarkdown
)

var modeNames = map[string]Mode{
	"plain":    ModePlain,
	"pretty":   ModePretty,
	"json":     ModeJSON,
	"ndjson":   ModeNDJSON,
	"tui":      ModeTUI,
	"html":     ModeHTML,
	"markdown": ModeMarkdown,
	"md":       ModeMarkdown,
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui",
// "html" or "markdown".
func ParseMode(s string) (Mode, bool) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

// ParseModeFor is ParseMode restricted to the modes a command supports.
func ParseModeFor(s string, allowed ...Mode) (Mode, error) {
	m, ok := ParseMode(s)
	if ok && slices.Contains(allowed, m) {
		return m, nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = a.String()
	}
	return 0, fmt.Errorf("invalid output mode %q (want %s)", s, strings.Join(names, "|"))
}

func (m Mode) String() string {
	for name, v := range modeNames {
		if v == m && name != "md" {
			return name
		}
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Width      int
}

// RenderPages renders a page list according to options. ModeTUI is
// interactive and handled by BrowsePages.
func RenderPages(w io.Writer, pages []api.Page, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONPages(w, pages, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONPages(w, pages)
	case ModePlain, ModePretty:
		return format.WritePlainPages(w, pages, opts.Headers)
	default:
		return fmt.Errorf("page lists cannot be shown as %s", opts.Mode)
	}
}

// BrowsePages opens the interactive page table and returns the chosen page.
func BrowsePages(ctx context.Context, pages []api.Page, opts Options) (*api.Page, error) {
	return tui.Browse(ctx, pages, opts.Headers)
}

// RenderDocument renders one page with r according to options.
func RenderDocument(w io.Writer, r *render.Renderer, doc format.Document, opts Options) error {
	switch opts.Mode {
	case ModeHTML:
		_, err := io.WriteString(w, r.Page(doc.Page, doc.Blocks, doc.Records).String())
		return err
	case ModeMarkdown, ModePlain:
		_, err := io.WriteString(w, render.Markdown(doc.Page, doc.Blocks, doc.Records))
		return err
	case ModePretty:
		return format.WritePretty(w, render.Markdown(doc.Page, doc.Blocks, doc.Records), opts.Width)
	case ModeJSON:
		return format.WriteJSONDocument(w, doc, opts.JSONIndent)
	default:
		return fmt.Errorf("pages cannot be shown as %s", opts.Mode)
	}
}

// NewResultWriter returns a streaming writer for build results. It
// returns nil for ModePretty, which renders the finished report instead.
func NewResultWriter(w io.Writer, opts Options) (format.ResultWriter, error) {
	switch opts.Mode {
	case ModeJSON:
		return format.NewJSONStreamWriter(w, opts.JSONIndent), nil
	case ModeNDJSON:
		return format.NewNDJSONStreamWriter(w), nil
	case ModePlain:
		return format.NewPlainStreamWriter(w, opts.Headers), nil
	case ModePretty:
		return nil, nil
	default:
		return nil, fmt.Errorf("build results cannot be shown as %s", opts.Mode)
	}
}
