package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/sprout/internal/site"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	writtenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unchangedStyle = lipgloss.NewStyle().Faint(true)
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pathStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	boxStyle       = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func statusStyle(s site.Status) lipgloss.Style {
	switch s {
	case site.StatusWritten:
		return writtenStyle
	case site.StatusFailed:
		return failedStyle
	default:
		return unchangedStyle
	}
}

// FormatReport returns a human-readable summary of a build. Unchanged
// files are listed only when verbose is set.
func FormatReport(rep *site.Report, verbose bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Built "+rep.OutDir) + "\n")
	for _, f := range rep.Files {
		if f.Status == site.StatusUnchanged && !verbose {
			continue
		}
		label := statusStyle(f.Status).Render(fmt.Sprintf("%-9s", f.Status))
		line := label + " " + pathStyle.Render(f.Path)
		if f.Title != "" && f.PageID != "" {
			line += "  " + f.Title
		}
		if f.Err != nil {
			line += "\n          " + failedStyle.Render(f.Err.Error())
		}
		b.WriteString(line + "\n")
	}

	summary := fmt.Sprintf("%s written · %s unchanged · %s failed · %s",
		writtenStyle.Render(fmt.Sprint(rep.Count(site.StatusWritten))),
		unchangedStyle.Render(fmt.Sprint(rep.Count(site.StatusUnchanged))),
		statusStyle(failedOr(rep)).Render(fmt.Sprint(rep.Count(site.StatusFailed))),
		rep.Duration.Round(time.Millisecond))
	b.WriteString(boxStyle.Render(summary) + "\n")
	return b.String()
}

// failedOr picks the failed style only when something failed.
func failedOr(rep *site.Report) site.Status {
	if rep.Count(site.StatusFailed) > 0 {
		return site.StatusFailed
	}
	return site.StatusUnchanged
}
