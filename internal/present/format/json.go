package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/sprout/pkg/api"
)

// Document is the JSON shape of a fetched page.
type Document struct {
	Page    *api.Page   `json:"page"`
	Blocks  []api.Block `json:"blocks"`
	Records []api.Block `json:"records,omitempty"`
}

func newEncoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc
}

func WriteJSONPages(w io.Writer, pages []api.Page, indent bool) error {
	if pages == nil {
		pages = []api.Page{}
	}
	return newEncoder(w, indent).Encode(pages)
}

// WriteNDJSONPages writes pages as newline-delimited JSON objects.
func WriteNDJSONPages(w io.Writer, pages []api.Page) error {
	enc := newEncoder(w, false)
	for _, p := range pages {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

func WriteJSONDocument(w io.Writer, doc Document, indent bool) error {
	return newEncoder(w, indent).Encode(doc)
}
