package ui

import (
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/backend"
	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// settleTickMsg stands in for a watcher settle event when no watcher is
// configured.
type settleTickMsg struct {
	at time.Time
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil && m.listening {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	m.listening = false
	return nil
}

func (m *Model) handleSettleTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(settleTickMsg)
	if !ok {
		return nil
	}
	return m.settleFired(tick.at)
}

func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	switch evt.Kind {
	case backend.KindPoll:
		queue, ok := m.queues.Selected()
		if !ok {
			return nil
		}
		events.Poll.Tick(evt.At, queue.QueueUrl)
		return m.getMessages()
	case backend.KindSettle:
		return m.settleFired(evt.At)
	default:
		return nil
	}
}

func (m *Model) settleFired(at time.Time) tea.Cmd {
	if m.pendingSettles > 0 {
		m.pendingSettles--
	}
	events.Poll.SettleFired(at, m.pendingSettles)
	return m.listQueues()
}

// scheduleSettle arranges a registry refresh once a create or delete has
// had time to propagate. Each mutation gets its own timer.
func (m *Model) scheduleSettle() tea.Cmd {
	m.pendingSettles++
	events.Poll.SettleScheduled(m.settleDelay, m.pendingSettles)
	if m.backend != nil {
		if !m.backend.ScheduleSettle(m.settleDelay) {
			// stopped watcher, nothing will fire
			m.pendingSettles--
		}
		return nil
	}
	return tea.Tick(m.settleDelay, func(t time.Time) tea.Msg {
		return settleTickMsg{at: t}
	})
}

func (m *Model) setInfo(msg string) {
	m.infoMsg = msg
	m.infoExpire = m.clock.Now().Add(infoDuration)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg == "" {
		return ""
	}
	if !m.infoExpire.IsZero() && m.clock.Now().After(m.infoExpire) {
		m.forceClearInfo()
		return ""
	}
	return m.infoMsg
}
