package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/sprout/pkg/api"
)

func makePages() []api.Page {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	titled := func(id, title string, d int) api.Page {
		return api.Page{ID: id, LastEditedTime: t0.AddDate(0, 0, d), Properties: api.Properties{
			{Name: "Name", Value: api.PropertyValue{Type: "title", Title: []api.RichText{{PlainText: title}}}},
		}}
	}
	return []api.Page{titled("a", "Alpha notes", 0), titled("b", "Beta release", 5), titled("c", "Alphabet soup", 10)}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestEnterChoosesCursorPage(t *testing.T) {
	m := send(newModel(makePages(), true), tea.WindowSizeMsg{Width: 120, Height: 30}, key("down"), key("enter"))
	require.NotNil(t, m.chosen)
	assert.Equal(t, "b", m.chosen.ID)
}

func TestQuitChoosesNothing(t *testing.T) {
	m := send(newModel(makePages(), true), key("q"))
	assert.Nil(t, m.chosen)
}

func TestFilterModal(t *testing.T) {
	m := send(newModel(makePages(), true), tea.WindowSizeMsg{Width: 120, Height: 30}, key("/"))
	require.NotNil(t, m.filter)
	assert.Contains(t, m.View(), "Filter pages")

	m = send(m, key("alp"), key("enter"))
	assert.Nil(t, m.filter)
	assert.Len(t, m.shown, 2)
	assert.Contains(t, m.renderFooter(), "2/3 pages")

	m = send(m, key("enter"))
	require.NotNil(t, m.chosen)
	assert.Contains(t, []string{"a", "c"}, m.chosen.ID)
}

func TestFilterByEditTime(t *testing.T) {
	m := newModel(makePages(), false)
	m.applyFilter("", "2024-03-04", "")
	assert.Len(t, m.shown, 2)

	m.applyFilter("", "nonsense", "")
	assert.Contains(t, m.status, "--since")
	assert.Len(t, m.shown, 2, "a bad filter keeps the previous rows")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Len(t, m.shown, 3)
}

func TestFilterEscCancels(t *testing.T) {
	m := send(newModel(makePages(), true), key("/"), key("zzz"), key("esc"))
	assert.Nil(t, m.filter)
	assert.Len(t, m.shown, 3)
}
