package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// DefaultStyle is the glamour style used for terminal previews.
const DefaultStyle = "dracula"

// WritePretty renders markdown for the terminal using glamour.
func WritePretty(w io.Writer, md string, width int) error {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(DefaultStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
