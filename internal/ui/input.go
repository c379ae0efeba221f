package ui

import (
	"unicode"

	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) enterFilter() {
	m.mode = ModeFilter
	m.setFocus(FocusQueues)
	m.list.MoveFilterCursorEnd()
}

func (m *Model) exitFilter() {
	m.mode = ModeBrowse
}

func (m *Model) clearFilter() tea.Cmd {
	if m.list.Filter == "" {
		return nil
	}
	m.list.SetFilter("", 0)
	events.Filter.Cleared()
	m.list.SyncCursor(m.queues.SelectedIndex())
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.exitFilter()
		return m.clearFilter()
	case "enter":
		m.exitFilter()
		return m.selectCurrent()
	case "up":
		m.list.MoveCursorUp()
		return m.selectCurrent()
	case "down":
		m.list.MoveCursorDown()
		return m.selectCurrent()
	case "ctrl+u":
		return m.clearFilter()
	case "ctrl+w":
		if !m.list.DeleteFilterWordBackward() {
			return nil
		}
		events.Filter.Backspace(m.list.Filter, len(m.list.Rows))
		return m.selectCurrent()
	case "ctrl+a":
		m.list.MoveFilterCursorStart()
		return nil
	case "ctrl+e":
		m.list.MoveFilterCursorEnd()
		return nil
	case "alt+b":
		m.list.MoveFilterCursorWordBackward()
		return nil
	case "alt+f":
		m.list.MoveFilterCursorWordForward()
		return nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !m.list.DeleteFilterRuneBackward() {
			return nil
		}
		events.Filter.Backspace(m.list.Filter, len(m.list.Rows))
		return m.selectCurrent()
	case tea.KeyLeft:
		m.list.MoveFilterCursorRuneBackward()
		return nil
	case tea.KeyRight:
		m.list.MoveFilterCursorRuneForward()
		return nil
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return nil
			}
		}
		return m.appendToFilter(string(msg.Runes))
	}
	return nil
}

func (m *Model) appendToFilter(text string) tea.Cmd {
	if !m.list.InsertFilterText(text) {
		return nil
	}
	m.forceClearInfo()
	events.Filter.Append(m.list.Filter, len(m.list.Rows))
	return m.selectCurrent()
}

func (m *Model) filterPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	prompt := "/ "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := m.list.Filter
	if text == "" {
		if m.mode != ModeFilter {
			return ""
		}
		placeholder := []rune("(type to filter queues)")
		caret := m.renderFilterCursor(string(placeholder[0]))
		return prompt + caret + render(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	if m.mode != ModeFilter {
		return prompt + render(styles.Filter, text)
	}
	runes := []rune(text)
	pos := m.list.FilterCursorPos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)
	return m.filterCursor.View()
}
