package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/sprout/pkg/api"
)

// TSV columns: id, title, last_edited, url
var headerLine = "id\ttitle\tlast_edited\turl\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func editedAt(p api.Page) string {
	if p.LastEditedTime.IsZero() {
		return "-"
	}
	return p.LastEditedTime.UTC().Format(time.RFC3339)
}

func WritePlainPages(w io.Writer, pages []api.Page, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, p := range pages {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			esc(p.ID), esc(api.PlainText(p.Title())), editedAt(p), esc(p.URL))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
