package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zident/internal/identity"
)

// listModel displays saved records in a scrollable list.
type listModel struct {
	records []identity.Record
	cursor  int
	flash   string
}

// deleteRecordMsg requests deletion of a saved record.
type deleteRecordMsg struct {
	id string
}

// recordDeletedMsg confirms deletion.
type recordDeletedMsg struct{}

// viewRecordMsg requests viewing a specific record.
type viewRecordMsg struct {
	record identity.Record
}

func newListModel(recs []identity.Record) listModel {
	return listModel{records: recs}
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case recordDeletedMsg:
		m.flash = "deleted"
		// reload is handled by root
		return m, nil

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	if len(m.records) == 0 {
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		rec := m.records[m.cursor]
		return m, func() tea.Msg { return viewRecordMsg{record: rec} }
	}

	if msg.String() == "d" {
		rec := m.records[m.cursor]
		return m, func() tea.Msg { return deleteRecordMsg{id: rec.ID} }
	}

	return m, nil
}

func (m listModel) View() string {
	accentStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)

	s := "\n"

	if len(m.records) == 0 {
		s += "  " + zstyle.MutedText.Render("no saved identities") + "\n"
		s += "\n"
		// reserved flash line (empty for empty state)
		s += "\n"
		return s
	}

	for i, rec := range m.records {
		name := truncate(rec.Identity.Name, 12)
		phone := truncate(rec.Identity.Phone, 15)
		created := rec.CreatedAt.Format("2006-01-02")
		line := fmt.Sprintf("%-12s %-15s %s", name, phone, zstyle.MutedText.Render(created))

		if i == m.cursor {
			s += "  " + accentStyle.Render("▸") + " " + line + "\n"
		} else {
			s += "    " + line + "\n"
		}
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
