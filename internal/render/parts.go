package render

import "github.com/mithrel/sprout/pkg/api"

// Per-kind content shared by the HTML and Markdown renderers. Each helper
// decides what a block shows; the renderers only decide how.

// leadText is the first run's plain text. Quote and code blocks show
// nothing else.
func leadText(p api.BlockPayload) string {
	return api.FirstPlainText(p.RichText)
}

// calloutParts returns the callout's icon, the block's emoji when set, and
// the first run's raw content without inline styling.
func calloutParts(p api.BlockPayload) (icon, content string) {
	icon = defaultCalloutIcon
	if p.Icon != nil && p.Icon.Emoji != "" {
		icon = p.Icon.Emoji
	}
	if len(p.RichText) > 0 {
		content = p.RichText[0].Content()
	}
	return icon, content
}

// mediaParts returns the URL of an image or file, empty when the block
// carries no reference, and its caption.
func mediaParts(p api.BlockPayload) (src, caption string) {
	return p.MediaURL(), api.FirstPlainText(p.Caption)
}

// nestedOrdered reports whether the children of a list item form an
// ordered list, which follows the first child.
func nestedOrdered(children []api.Block) bool {
	return len(children) > 0 && children[0].Kind() == api.KindNumberedListItem
}

// isChart reports whether a table renders as a [label, percentage] chart.
func isChart(b api.Block) bool {
	return b.Payload.TableWidth == chartWidth
}

// chartValue returns the raw value of a chart cell and its percentage
// label.
func chartValue(cell []api.RichText) (raw, label string) {
	raw = api.FirstPlainText(cell)
	return raw, ScalePercent(raw) + "%"
}

// headerCell reports whether the cell at row, col of a standard table is a
// header cell.
func headerCell(p api.BlockPayload, row, col int) bool {
	return (p.HasColumnHeader && row == 0) || (p.HasRowHeader && col == 0)
}
