package ui

import (
	"fmt"

	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmPurge
)

func (k confirmKind) String() string {
	if k == confirmPurge {
		return "purge"
	}
	return "delete"
}

// confirmation holds a pending destructive action. The queue is captured
// when the prompt opens so a later selection change cannot retarget it.
type confirmation struct {
	kind  confirmKind
	queue sqs.Queue
}

func (c *confirmation) Prompt() string {
	switch c.kind {
	case confirmPurge:
		return fmt.Sprintf("Purge all messages from %s? (y/n)", c.queue.Label())
	default:
		return fmt.Sprintf("Delete queue %s? (y/n)", c.queue.Label())
	}
}

func (m *Model) openConfirm(kind confirmKind) {
	if m.Disabled() {
		return
	}
	queue, ok := m.queues.Selected()
	if !ok {
		return
	}
	m.confirm = &confirmation{kind: kind, queue: queue}
	m.mode = ModeConfirm
	m.forceClearInfo()
}

func (m *Model) handleConfirm(msg tea.Msg) (bool, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.confirm == nil {
		m.mode = ModeBrowse
		return false, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		c := m.confirm
		m.confirm = nil
		m.mode = ModeBrowse
		events.UI.Confirm(c.kind.String(), true)
		if c.kind == confirmPurge {
			return true, m.purgeQueue(c.queue)
		}
		return true, m.deleteQueue(c.queue)
	case "n", "N", "esc", "q":
		events.UI.Confirm(m.confirm.kind.String(), false)
		m.confirm = nil
		m.mode = ModeBrowse
		return true, nil
	case "ctrl+c":
		return true, m.quit()
	}
	return true, nil
}
