package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atomicstack/sqs-admin-tui/internal/format/table"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

const (
	cardBodyMaxLines   = 3
	detailMaxLines     = 20
	messageIDShortSize = 8
)

// visibleMessages returns the feed only when it belongs to the selected
// queue. A feed left over from another queue is never shown.
func (m *Model) visibleMessages() []sqs.Message {
	queue, ok := m.queues.Selected()
	if !ok || m.feed.QueueURL() != queue.QueueUrl {
		return nil
	}
	return m.feed.Messages()
}

func (m *Model) focusedMessage() (sqs.Message, bool) {
	msgs := m.visibleMessages()
	if m.msgCursor < 0 || m.msgCursor >= len(msgs) {
		return sqs.Message{}, false
	}
	return msgs[m.msgCursor], true
}

func (m *Model) copyFocusedMessage() tea.Cmd {
	if m.focus != FocusMessages {
		return nil
	}
	msg, ok := m.focusedMessage()
	if !ok {
		return nil
	}
	write := m.copy
	id, body := msg.MessageId, msg.Body
	return func() tea.Msg {
		return copiedMsg{id: id, err: write(body)}
	}
}

func shortID(id string) string {
	if len(id) <= messageIDShortSize {
		return id
	}
	return id[:messageIDShortSize]
}

// cardLines renders one message as a compact card.
func (m *Model) cardLines(msg sqs.Message, focused bool, width int) []styledLine {
	titleStyle := styles.CardTitle
	marker := "  "
	if focused {
		titleStyle = styles.FocusedCardTitle
		marker = "▸ "
	}
	meta := make([]string, 0, 3)
	if !msg.SentAt.IsZero() {
		meta = append(meta, humanize.RelTime(msg.SentAt, m.clock.Now(), "ago", "from now"))
	}
	if group := msg.GroupID(); group != "" {
		meta = append(meta, "group "+group)
	}
	title := marker + shortID(msg.MessageId)
	if len(meta) > 0 {
		title += "  " + strings.Join(meta, " · ")
	}
	lines := []styledLine{{text: title, style: titleStyle}}
	for _, row := range attributeRows(msg.MessageAttributes) {
		lines = append(lines, styledLine{text: "    " + row, style: styles.CardMeta})
	}
	body := strings.Split(strings.TrimRight(msg.Body, "\n"), "\n")
	if len(body) > cardBodyMaxLines {
		body = append(body[:cardBodyMaxLines-1], "…")
	}
	for _, line := range body {
		lines = append(lines, styledLine{text: "    " + line, style: styles.CardBody})
	}
	return applyWidth(lines, width)
}

// attributeRows aligns custom message attributes into key/value columns.
func attributeRows(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, attrs[k]})
	}
	return table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
}

// prettyBody indents JSON bodies; anything else is returned as is.
func prettyBody(body string) []string {
	trimmed := strings.TrimSpace(body)
	if trimmed != "" && gjson.Valid(trimmed) {
		if res := gjson.Get(trimmed, "@pretty"); res.Exists() {
			body = strings.TrimRight(res.String(), "\n")
		}
	}
	return strings.Split(body, "\n")
}

// detailLines renders the focused message in full.
func (m *Model) detailLines(width int) []styledLine {
	msg, ok := m.focusedMessage()
	if !ok {
		return nil
	}
	lines := []styledLine{
		{text: fmt.Sprintf("Message %s", msg.MessageId), style: styles.DetailTitle},
	}
	if len(msg.Attributes) > 0 {
		keys := make([]string, 0, len(msg.Attributes))
		for k := range msg.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, msg.Attributes[k]})
		}
		for _, row := range table.Format(rows, nil) {
			lines = append(lines, styledLine{text: row, style: styles.CardMeta})
		}
	}
	body := prettyBody(msg.Body)
	if len(body) > detailMaxLines {
		body = append(body[:detailMaxLines-1], "…")
	}
	for _, line := range body {
		lines = append(lines, styledLine{text: line, style: styles.DetailBody})
	}
	return applyWidth(lines, width)
}
