package ui

import (
	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch m.mode {
	case ModeFilter:
		return m.handleFilterKey(keyMsg)
	case ModeBrowse:
	default:
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m.quit()
	case "esc":
		return m.handleEscapeKey()
	case "tab":
		m.toggleFocus()
		return nil
	case "/":
		m.enterFilter()
		return nil
	case "up", "k":
		return m.moveUp()
	case "down", "j":
		return m.moveDown()
	case "pgup":
		return m.moveCursorPageUp()
	case "pgdown":
		return m.moveCursorPageDown()
	case "home", "g":
		return m.moveCursorHome()
	case "end", "G":
		return m.moveCursorEnd()
	case "r":
		m.forceClearInfo()
		return m.listQueues()
	case "x":
		m.dismissError()
		return nil
	case "c":
		return m.openCreateForm()
	case "s":
		return m.openSendForm()
	case "d":
		m.openConfirm(confirmDelete)
		return nil
	case "p":
		m.openConfirm(confirmPurge)
		return nil
	case "y":
		return m.copyFocusedMessage()
	}
	return nil
}

func (m *Model) handleEscapeKey() tea.Cmd {
	if m.focus == FocusMessages {
		m.setFocus(FocusQueues)
		return nil
	}
	if m.list.Filter != "" {
		m.clearFilter()
		return nil
	}
	m.forceClearInfo()
	return nil
}

func (m *Model) toggleFocus() {
	if m.focus == FocusQueues {
		m.setFocus(FocusMessages)
		return
	}
	m.setFocus(FocusQueues)
}

func (m *Model) setFocus(f Focus) {
	if m.focus == f {
		return
	}
	m.focus = f
	if f == FocusMessages && m.msgCursor >= len(m.visibleMessages()) {
		m.msgCursor = 0
	}
	events.UI.Focus(f.String())
}

func (m *Model) dismissError() {
	if !m.errors.Active() {
		return
	}
	events.UI.ErrorDismissed(m.errors.Current())
	m.errors.Dismiss()
}

func (m *Model) moveUp() tea.Cmd {
	if m.focus == FocusMessages {
		m.moveMessageCursor(-1)
		return nil
	}
	m.list.MoveCursorUp()
	return m.selectCurrent()
}

func (m *Model) moveDown() tea.Cmd {
	if m.focus == FocusMessages {
		m.moveMessageCursor(1)
		return nil
	}
	m.list.MoveCursorDown()
	return m.selectCurrent()
}

func (m *Model) moveMessageCursor(delta int) {
	n := len(m.visibleMessages())
	if n == 0 {
		m.msgCursor = 0
		return
	}
	m.msgCursor = (m.msgCursor + delta + n) % n
}

func (m *Model) moveCursorPageUp() tea.Cmd {
	if m.focus != FocusQueues {
		return nil
	}
	m.list.MoveCursorPageUp(m.maxVisibleRows())
	return m.selectCurrent()
}

func (m *Model) moveCursorPageDown() tea.Cmd {
	if m.focus != FocusQueues {
		return nil
	}
	m.list.MoveCursorPageDown(m.maxVisibleRows())
	return m.selectCurrent()
}

func (m *Model) moveCursorHome() tea.Cmd {
	if m.focus == FocusMessages {
		m.msgCursor = 0
		return nil
	}
	m.list.MoveCursorHome()
	return m.selectCurrent()
}

func (m *Model) moveCursorEnd() tea.Cmd {
	if m.focus == FocusMessages {
		if n := len(m.visibleMessages()); n > 0 {
			m.msgCursor = n - 1
		}
		return nil
	}
	m.list.MoveCursorEnd()
	return m.selectCurrent()
}

// selectCurrent makes the row under the cursor the selected queue. A changed
// selection triggers an immediate feed refresh for the new queue.
func (m *Model) selectCurrent() tea.Cmd {
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	row, ok := m.list.Current()
	if !ok {
		return nil
	}
	return m.selectIndex(row.Index)
}

func (m *Model) selectIndex(idx int) tea.Cmd {
	if !m.queues.Select(idx) {
		if idx < 0 || idx >= m.queues.Len() {
			events.Queue.SelectRejected(idx, m.queues.Len())
		}
		return nil
	}
	queue, _ := m.queues.Selected()
	events.Queue.Select(idx, queue.QueueUrl)
	m.msgCursor = 0
	m.list.SyncCursor(idx)
	return refreshFeedCmd()
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok || m.mode != ModeBrowse {
		return nil
	}
	switch mouse.Button {
	case tea.MouseButtonWheelUp:
		if mouse.Action == tea.MouseActionPress {
			return m.moveUp()
		}
		return nil
	case tea.MouseButtonWheelDown:
		if mouse.Action == tea.MouseActionPress {
			return m.moveDown()
		}
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}
	if mouse.Action != tea.MouseActionPress {
		return nil
	}
	if w := m.listWidth(); w > 0 && mouse.X >= w {
		return nil
	}
	if mouse.Y < m.listTop() {
		return nil
	}
	line := mouse.Y - m.listTop()
	if visible := m.maxVisibleRows(); visible > 0 && line >= visible {
		return nil
	}
	pos := line + m.list.ViewportOffset
	row, ok := m.list.RowAt(pos)
	if !ok {
		return nil
	}
	m.setFocus(FocusQueues)
	m.list.Cursor = pos
	return m.selectIndex(row.Index)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	events.UI.Resize(m.width, m.height)
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}
