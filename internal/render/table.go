package render

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/mithrel/sprout/pkg/api"
)

// chartWidth is the table width rendered as a [label, percentage] chart.
const chartWidth = 2

func table(b api.Block) *html.Node {
	if isChart(b) {
		return chartTable(b.ChildBlocks())
	}
	body := el("tbody")
	for i, row := range b.ChildBlocks() {
		add(body, tableRow(row, b.Payload, i))
	}
	return add(el("table", class("table")), body)
}

// tableRow renders the cells of the i-th table_row of a table with
// payload tp.
func tableRow(row api.Block, tp api.BlockPayload, i int) *html.Node {
	tr := el("tr")
	for j, cell := range row.Payload.Cells {
		tag := "td"
		if headerCell(tp, i, j) {
			tag = "th"
		}
		add(tr, add(el(tag), Text(cell)...))
	}
	return tr
}

// chartTable renders a two-column table as a column chart: the first cell
// of each row is the label, the second is scaled to a percentage. Each
// cell carries its raw value in the --size custom property.
func chartTable(rows []api.Block) *html.Node {
	body := el("tbody")
	for _, row := range rows {
		tr := el("tr")
		for i, cell := range row.Payload.Cells {
			raw, label := chartValue(cell)
			tag := "td"
			if i == 0 {
				tag = "th"
			}
			c := el(tag, attr("style", "--size: "+raw), attr("data", strconv.Itoa(i)))
			if i == 0 {
				add(c, Text(cell)...)
			} else {
				add(c, text(label))
			}
			add(tr, c)
		}
		add(body, tr)
	}
	return add(el("table", attr("data", "2"), class("charts-css column show-labels")), body)
}
