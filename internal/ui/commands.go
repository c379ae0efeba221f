package ui

import (
	"fmt"

	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	uistate "github.com/atomicstack/sqs-admin-tui/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

type queuesListedMsg struct {
	queues []sqs.Queue
}

type messagesReceivedMsg struct {
	queueURL string
	messages []sqs.Message
}

type queueCreatedMsg struct {
	name string
}

type queueDeletedMsg struct {
	queueURL string
}

type queuePurgedMsg struct {
	queueURL string
}

type messageSentMsg struct {
	queueURL string
	bytes    int
}

type actionFailedMsg struct {
	err error
}

// feedRefreshMsg asks for the selected queue's messages. The selection is
// read when the message is handled, not when it was produced.
type feedRefreshMsg struct{}

type copiedMsg struct {
	id  string
	err error
}

func failed(err error) tea.Msg {
	return actionFailedMsg{err: err}
}

func refreshFeedCmd() tea.Cmd {
	return func() tea.Msg { return feedRefreshMsg{} }
}

func (m *Model) begin(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	m.inflight++
	return cmd
}

func (m *Model) done() {
	if m.inflight > 0 {
		m.inflight--
	}
}

func (m *Model) listQueues() tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	return m.begin(m.dispatcher.ListQueues(func(resp sqs.Response) tea.Msg {
		return queuesListedMsg{queues: resp.Queues}
	}, failed))
}

func (m *Model) getMessages() tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	queue, ok := m.queues.Selected()
	if !ok {
		return nil
	}
	url := queue.QueueUrl
	return m.begin(m.dispatcher.GetMessages(queue, func(resp sqs.Response) tea.Msg {
		return messagesReceivedMsg{queueURL: url, messages: resp.Messages}
	}, failed))
}

func (m *Model) createQueue(queue sqs.Queue) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	name := queue.QueueName
	return m.begin(m.dispatcher.CreateQueue(queue, func(sqs.Response) tea.Msg {
		return queueCreatedMsg{name: name}
	}, failed))
}

func (m *Model) deleteQueue(queue sqs.Queue) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	url := queue.QueueUrl
	return m.begin(m.dispatcher.DeleteQueue(queue, func(sqs.Response) tea.Msg {
		return queueDeletedMsg{queueURL: url}
	}, failed))
}

func (m *Model) purgeQueue(queue sqs.Queue) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	url := queue.QueueUrl
	return m.begin(m.dispatcher.PurgeQueue(queue, func(sqs.Response) tea.Msg {
		return queuePurgedMsg{queueURL: url}
	}, failed))
}

// sendMessage targets whatever queue is selected at submit time. With no
// selection the dispatcher rejects the send without a remote call.
func (m *Model) sendMessage(msg sqs.Message) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	var target *sqs.Queue
	if queue, ok := m.queues.Selected(); ok {
		target = &queue
	}
	url := ""
	if target != nil {
		url = target.QueueUrl
	}
	size := len(msg.Body)
	return m.begin(m.dispatcher.SendMessage(target, msg, func(sqs.Response) tea.Msg {
		return messageSentMsg{queueURL: url, bytes: size}
	}, failed))
}

func (m *Model) handleQueuesListedMsg(msg tea.Msg) tea.Cmd {
	listed, ok := msg.(queuesListedMsg)
	if !ok {
		return nil
	}
	m.done()
	m.reconciler.Queues(listed.queues)
	m.syncList()
	return refreshFeedCmd()
}

// syncList rebuilds the visible rows from the registry and puts the cursor
// on the selected queue.
func (m *Model) syncList() {
	m.list.UpdateRows(uistate.RowsFromQueues(m.queues.Queues()))
	m.list.SyncCursor(m.queues.SelectedIndex())
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	if m.msgCursor >= m.feed.Len() {
		m.msgCursor = 0
	}
}

func (m *Model) handleFeedRefreshMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(feedRefreshMsg); !ok {
		return nil
	}
	return m.getMessages()
}

func (m *Model) handleMessagesReceivedMsg(msg tea.Msg) tea.Cmd {
	received, ok := msg.(messagesReceivedMsg)
	if !ok {
		return nil
	}
	m.done()
	res := m.reconciler.Messages(received.queueURL, received.messages)
	if res.FeedReplaced && m.msgCursor >= m.feed.Len() {
		m.msgCursor = 0
	}
	return nil
}

func (m *Model) handleQueueCreatedMsg(msg tea.Msg) tea.Cmd {
	created, ok := msg.(queueCreatedMsg)
	if !ok {
		return nil
	}
	m.done()
	events.Queue.Created(created.name)
	m.setInfo(fmt.Sprintf("Created queue %s", created.name))
	return m.scheduleSettle()
}

func (m *Model) handleQueueDeletedMsg(msg tea.Msg) tea.Cmd {
	deleted, ok := msg.(queueDeletedMsg)
	if !ok {
		return nil
	}
	m.done()
	events.Queue.Deleted(deleted.queueURL)
	if m.reconciler.Clear(deleted.queueURL).FeedCleared {
		m.msgCursor = 0
	}
	m.setInfo(fmt.Sprintf("Deleted queue %s", sqs.QueueNameFromURL(deleted.queueURL)))
	return m.scheduleSettle()
}

func (m *Model) handleQueuePurgedMsg(msg tea.Msg) tea.Cmd {
	purged, ok := msg.(queuePurgedMsg)
	if !ok {
		return nil
	}
	m.done()
	events.Queue.Purged(purged.queueURL)
	if m.reconciler.Clear(purged.queueURL).FeedCleared {
		m.msgCursor = 0
	}
	m.setInfo(fmt.Sprintf("Purged queue %s", sqs.QueueNameFromURL(purged.queueURL)))
	return nil
}

func (m *Model) handleMessageSentMsg(msg tea.Msg) tea.Cmd {
	sent, ok := msg.(messageSentMsg)
	if !ok {
		return nil
	}
	m.done()
	events.Message.Sent(sent.queueURL, sent.bytes)
	if m.verbose {
		m.setInfo(fmt.Sprintf("Sent %d bytes to %s", sent.bytes, sqs.QueueNameFromURL(sent.queueURL)))
	}
	return nil
}

func (m *Model) handleActionFailedMsg(msg tea.Msg) tea.Cmd {
	failure, ok := msg.(actionFailedMsg)
	if !ok {
		return nil
	}
	m.done()
	m.reconciler.Failed(failure.err)
	return nil
}

func (m *Model) handleCopiedMsg(msg tea.Msg) tea.Cmd {
	copied, ok := msg.(copiedMsg)
	if !ok {
		return nil
	}
	if copied.err != nil {
		m.reconciler.Failed(fmt.Errorf("copy message body: %w", copied.err))
		return nil
	}
	events.Message.Copied(copied.id)
	m.setInfo("Copied message body")
	return nil
}
