package render

import (
	"fmt"
	"strings"

	"github.com/mithrel/sprout/pkg/api"
)

// Markdown renders a page as Markdown for terminal preview. It follows
// the same dispatch as the HTML renderer; styling without a Markdown
// equivalent (underline, colors) is dropped.
func Markdown(page *api.Page, blocks []api.Block, records []api.Block) string {
	if page == nil || blocks == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", MarkdownText(page.Title()))
	mdBlocks(&b, blocks, 0)
	if len(records) > 0 {
		b.WriteString("---\n\n")
		for _, r := range records {
			mdBlock(&b, r, 0)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "~", `\~`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`, "#", `\#`,
)

// escapeMarkdown escapes the characters that would otherwise start inline
// Markdown markup.
func escapeMarkdown(s string) string { return mdEscaper.Replace(s) }

// MarkdownText renders text runs as inline Markdown. Content is escaped
// before markers are added.
func MarkdownText(runs []api.RichText) string {
	var b strings.Builder
	for _, r := range runs {
		s := r.Content()
		if s == "" {
			continue
		}
		a := r.Annotations
		if a.Code {
			s = codeSpan(s)
		} else {
			s = escapeMarkdown(s)
		}
		if a.Bold {
			s = "**" + s + "**"
		}
		if a.Italic {
			s = "_" + s + "_"
		}
		if a.Strikethrough {
			s = "~~" + s + "~~"
		}
		if u := r.LinkURL(); u != "" {
			s = "[" + s + "](" + u + ")"
		}
		b.WriteString(s)
	}
	return b.String()
}

// codeSpan wraps s in a backtick fence longer than any run inside it.
func codeSpan(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}

func mdBlocks(b *strings.Builder, blocks []api.Block, depth int) {
	for _, blk := range blocks {
		mdBlock(b, blk, depth)
	}
}

func mdBlock(b *strings.Builder, blk api.Block, depth int) {
	indent := strings.Repeat("  ", depth)
	p := blk.Payload
	switch blk.Kind() {
	case api.KindParagraph:
		fmt.Fprintf(b, "%s%s\n\n", indent, MarkdownText(p.RichText))
	case api.KindHeading1:
		fmt.Fprintf(b, "# %s\n\n", MarkdownText(p.RichText))
	case api.KindHeading2:
		fmt.Fprintf(b, "## %s\n\n", MarkdownText(p.RichText))
	case api.KindHeading3:
		fmt.Fprintf(b, "### %s\n\n", MarkdownText(p.RichText))
	case api.KindBulletedList, api.KindNumberedList, api.KindColumnList, api.KindColumn:
		mdBlocks(b, blk.ChildBlocks(), depth)
		b.WriteString("\n")
	case api.KindBulletedListItem:
		fmt.Fprintf(b, "%s- %s\n", indent, MarkdownText(p.RichText))
		mdBlocks(b, blk.ChildBlocks(), depth+1)
	case api.KindNumberedListItem:
		fmt.Fprintf(b, "%s1. %s\n", indent, MarkdownText(p.RichText))
		mdBlocks(b, blk.ChildBlocks(), depth+1)
	case api.KindToDo:
		mark := " "
		if p.Checked {
			mark = "x"
		}
		fmt.Fprintf(b, "%s- [%s] %s\n", indent, mark, MarkdownText(p.RichText))
	case api.KindToggle:
		fmt.Fprintf(b, "%s- ▸ %s\n", indent, MarkdownText(p.RichText))
		mdBlocks(b, blk.ChildBlocks(), depth+1)
	case api.KindChildPage:
		fmt.Fprintf(b, "%s**%s**\n\n", indent, escapeMarkdown(p.Title))
		mdBlocks(b, blk.ChildBlocks(), depth)
	case api.KindImage:
		src, caption := mediaParts(p)
		fmt.Fprintf(b, "%s![%s](%s)\n\n", indent, escapeMarkdown(caption), src)
	case api.KindDivider:
		b.WriteString("---\n\n")
	case api.KindQuote:
		fmt.Fprintf(b, "%s> %s\n\n", indent, escapeMarkdown(leadText(p)))
	case api.KindCode:
		fmt.Fprintf(b, "```%s\n%s\n```\n\n", p.Language, leadText(p))
	case api.KindFile:
		src, _ := mediaParts(p)
		fmt.Fprintf(b, "%s[📎 %s](%s)\n\n", indent, escapeMarkdown(FileName(src)), src)
	case api.KindBookmark:
		fmt.Fprintf(b, "%s[%s](%s)\n\n", indent, escapeMarkdown(p.URL), p.URL)
	case api.KindTable:
		mdTable(b, blk)
	case api.KindTableRow:
		mdRow(b, blk.Payload.Cells, false)
		b.WriteString("\n")
	case api.KindCallout:
		icon, content := calloutParts(p)
		fmt.Fprintf(b, "%s> %s %s\n\n", indent, icon, escapeMarkdown(content))
	case api.KindChildDatabase:
	case api.KindRecord:
		mdRecord(b, blk)
	default:
		fmt.Fprintf(b, "%s%s\n\n", indent, escapeMarkdown(Unsupported(blk.Type)))
	}
}

func mdTable(b *strings.Builder, blk api.Block) {
	rows := blk.ChildBlocks()
	if len(rows) == 0 {
		return
	}
	chart := isChart(blk)
	width := blk.Payload.TableWidth
	if width <= 0 {
		width = len(rows[0].Payload.Cells)
	}
	start := 0
	if blk.Payload.HasColumnHeader && !chart {
		mdRow(b, rows[0].Payload.Cells, false)
		start = 1
	} else {
		b.WriteString("|" + strings.Repeat("   |", width) + "\n")
	}
	b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range rows[start:] {
		mdRow(b, row.Payload.Cells, chart)
	}
	b.WriteString("\n")
}

func mdRow(b *strings.Builder, cells [][]api.RichText, chart bool) {
	b.WriteString("|")
	for i, cell := range cells {
		s := MarkdownText(cell)
		if chart && i == 1 {
			_, label := chartValue(cell)
			s = escapeMarkdown(label)
		}
		b.WriteString(" " + s + " |")
	}
	b.WriteString("\n")
}

func mdRecord(b *strings.Builder, blk api.Block) {
	fmt.Fprintf(b, "## %s\n\n", MarkdownText(blk.Name()))
	b.WriteString("| | |\n| --- | --- |\n")
	for _, p := range blk.Properties.Reversed() {
		var v string
		switch {
		case p.Value.Title != nil:
			v = "**" + MarkdownText(p.Value.Title) + "**"
		case p.Value.RichText != nil:
			v = MarkdownText(p.Value.RichText)
		default:
			continue
		}
		fmt.Fprintf(b, "| %s | %s |\n", escapeMarkdown(p.Name), v)
	}
	b.WriteString("\n")
}
