package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/sprout/internal/util"
	"github.com/mithrel/sprout/pkg/api"
)

// Browse opens an interactive Bubble Tea table of pages. It returns the
// page chosen with enter, or nil when the user quits.
func Browse(ctx context.Context, pages []api.Page, headers bool) (*api.Page, error) {
	m := newModel(pages, headers)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(model); ok && fm.chosen != nil {
		return fm.chosen, nil
	}
	return nil, nil
}

type model struct {
	table   table.Model
	all     []api.Page
	shown   []api.Page
	chosen  *api.Page
	filter  *filterModal
	query   string
	since   string
	until   string
	headers bool
	width   int
	height  int
	status  string
	now     func() time.Time
}

func newModel(pages []api.Page, headers bool) model {
	m := model{all: pages, shown: pages, headers: headers, now: time.Now}
	m.table = table.New(table.WithColumns(m.columnsFor(40, 16, 36)), table.WithFocused(true))
	m.updateRows()
	m.applyStyles()
	return m
}

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.shown))
	for _, p := range m.shown {
		edited := ""
		if !p.LastEditedTime.IsZero() {
			edited = p.LastEditedTime.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{api.PlainText(p.Title()), edited, p.ID})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// applyFilter narrows the table to pages edited in range whose title
// matches the query.
func (m *model) applyFilter(query, since, until string) {
	pages, err := util.EditedBetween(m.all, since, until, m.now())
	if err != nil {
		m.status = err.Error()
		return
	}
	m.query, m.since, m.until = query, since, until
	m.shown = util.FindPages(query, pages, 0)
	m.status = ""
	if query != "" || since != "" || until != "" {
		m.status = fmt.Sprintf("filter %q", strings.TrimSpace(strings.Join([]string{query, since, until}, " ")))
	}
	m.updateRows()
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.filter != nil {
		return m.updateFilter(msg)
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.shown) {
				sel := m.shown[idx]
				m.chosen = &sel
			}
			return m, tea.Quit
		case "/", "f":
			m.filter = newFilterModal(m.query, m.since, m.until, m.width, m.height)
			return m, nil
		case "ctrl+x":
			m.applyFilter("", "", "")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+q":
			m.filter = nil
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			query, since, until := m.filter.values()
			m.filter = nil
			m.applyFilter(query, since, until)
			return m, nil
		case "ctrl+x":
			m.filter = newFilterModal("", "", "", m.width, m.height)
			return m, nil
		}
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.applyLayout()
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.update(msg)
	return m, cmd
}

func (m model) renderFooter() string {
	left := "↑/↓ to navigate • enter=open • /=filter • ctrl+x=clear • q=exit"

	var right string
	if m.status != "" {
		right = m.status + " • "
	}
	right += fmt.Sprintf("%d/%d pages ", len(m.shown), len(m.all))

	space := m.table.Width() - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	var base string
	if len(m.all) == 0 {
		base = "(no pages)\n"
	} else {
		base = m.table.View() + "\n" + m.renderFooter() + "\n"
	}
	if m.filter != nil {
		return m.renderOverlay(base, m.filter.View(), m.filter.width, m.filter.height)
	}
	return base
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	avail := m.width - 4
	if avail < 40 {
		return
	}
	idW := 36
	if avail < idW+60 {
		idW = 8
	}
	editedW := 16
	titleW := max(8, avail-idW-editedW)
	m.table.SetColumns(m.columnsFor(titleW, editedW, idW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(titleW, editedW, idW int) []table.Column {
	titles := []string{"Title", "Edited", "ID"}
	if !m.headers {
		titles = []string{"", "", ""}
	}
	return []table.Column{
		{Title: titles[0], Width: titleW},
		{Title: titles[1], Width: editedW},
		{Title: titles[2], Width: idW},
	}
}
