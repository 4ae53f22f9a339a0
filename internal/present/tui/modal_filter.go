package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// filterModal is a foreground modal with inputs to filter the page table.
type filterModal struct {
	inputs []textinput.Model
	width  int
	height int
	padX   int
	padY   int
	box    lipglossv2.Style
	focus  int
}

func newFilterModal(query, since, until string, termW, termH int) *filterModal {
	m := &filterModal{padX: 2, padY: 1}
	m.inputs = []textinput.Model{
		newFilterInput("title: ", "fuzzy title match", query),
		newFilterInput("since: ", "2h | 3d | 2025-10-26", since),
		newFilterInput("until: ", "1w | 2025-10-26T14:30", until),
	}
	m.setFocus(0)
	m.resizeForTerm(termW, termH)
	return m
}

func newFilterInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func (m *filterModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := min(90, max(42, termW*6/10))
	if termW < 80 {
		w = max(30, termW-4)
	}
	h := min(14, max(10, termH-4))
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(12, w-2-m.padX*2)
	for i := range m.inputs {
		m.inputs[i].Width = max(12, innerW-lipgloss.Width(m.inputs[i].Prompt))
	}
}

func (m *filterModal) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *filterModal) values() (query, since, until string) {
	v := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	return v(0), v(1), v(2)
}

func (m *filterModal) update(msg tea.Msg) (*filterModal, tea.Cmd) {
	n := len(m.inputs)
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % n)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + n - 1) % n)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *filterModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Filter pages")
	help := lipgloss.NewStyle().Faint(true).Render("enter=apply • esc=cancel • tab=next • ctrl+x=clear")
	lines := []string{header, ""}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "", help)
	return m.box.Render(strings.Join(lines, "\n"))
}
