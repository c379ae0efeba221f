package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultViewWidth   = 100
	listColumnMin      = 24
	listColumnFraction = 0.35
	headerSeparator    = " · "
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.viewWidth()
	top := m.topLines()
	switch m.mode {
	case ModeCreateForm:
		if m.createForm != nil {
			return m.viewWithBody(top, m.createFormLines(), width)
		}
	case ModeSendForm:
		if m.sendForm != nil {
			return m.viewWithBody(top, m.sendFormLines(), width)
		}
	case ModeConfirm:
		if m.confirm != nil {
			body := []styledLine{{text: m.confirm.Prompt(), style: styles.Error}}
			return m.viewWithBody(top, body, width)
		}
	}
	return m.viewColumns(top, width)
}

func (m *Model) viewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return defaultViewWidth
}

// listWidth returns the width of the queue column, or 0 when the terminal
// size is not known yet.
func (m *Model) listWidth() int {
	if m.width <= 0 {
		return 0
	}
	return m.listColumnWidth(m.width)
}

func (m *Model) listColumnWidth(total int) int {
	w := int(float64(total) * listColumnFraction)
	if w < listColumnMin {
		w = listColumnMin
	}
	if w > total {
		w = total
	}
	return w
}

// topLines are the rows above the columns: header and error banner.
func (m *Model) topLines() []styledLine {
	lines := []styledLine{{text: m.header(), style: styles.Header}}
	if m.errors.Active() {
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s (x to dismiss)", m.errors.Current()), style: styles.Error})
	}
	return lines
}

// listTop is the screen row of the first queue row.
func (m *Model) listTop() int {
	top := 2
	if m.errors.Active() {
		top++
	}
	return top
}

func (m *Model) header() string {
	segments := []string{"SQS Admin"}
	if m.region != "" {
		segments = append(segments, "region "+m.region)
	}
	n := m.queues.Len()
	if n == 1 {
		segments = append(segments, "1 queue")
	} else {
		segments = append(segments, fmt.Sprintf("%d queues", n))
	}
	if m.pendingSettles > 0 {
		segments = append(segments, "syncing…")
	}
	if m.inflight > 0 {
		segments = append(segments, "loading…")
	}
	return strings.Join(segments, headerSeparator)
}

func (m *Model) bottomRows() int {
	rows := 2 // info line + filter prompt
	if m.showFooter {
		rows++
	}
	return rows
}

func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return -1
	}
	remain := m.height - m.listTop() - m.bottomRows()
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) viewColumns(top []styledLine, width int) string {
	listW := m.listColumnWidth(width)
	feedW := width - listW - 1
	if feedW < 1 {
		feedW = 1
	}

	left := []styledLine{{text: "Queues", style: styles.ColumnTitle}}
	left = append(left, m.queueLines(listW)...)
	right := []styledLine{{text: m.feedTitle(), style: styles.ColumnTitle}}
	right = append(right, m.feedLines(feedW)...)

	height := len(left)
	if len(right) > height {
		height = len(right)
	}
	if m.height > 0 {
		height = m.height - len(top) - m.bottomRows()
		if height < 1 {
			height = 1
		}
		left = limitHeight(left, height, listW)
		right = limitHeight(right, height, feedW)
	}
	leftStr := padBlock(renderLines(applyWidth(left, listW)), listW, height)
	rightStr := renderLines(applyWidth(right, feedW))
	sep := styles.Separator.Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, sep, rightStr)

	out := renderLines(applyWidth(top, width)) + "\n" + columns
	return out + "\n" + renderLines(applyWidth(m.bottomLines(), width))
}

func (m *Model) viewWithBody(top, body []styledLine, width int) string {
	lines := append([]styledLine{}, top...)
	lines = append(lines, styledLine{})
	lines = append(lines, body...)
	if m.height > 0 {
		lines = limitHeight(lines, m.height, width)
	}
	return renderLines(applyWidth(lines, width))
}

func (m *Model) queueLines(width int) []styledLine {
	if m.queues.Len() == 0 {
		return []styledLine{{text: fmt.Sprintf("No queues exist in region %q", m.region), style: styles.Notice}}
	}
	if len(m.list.Rows) == 0 {
		return []styledLine{{text: fmt.Sprintf("No matches for %q", m.list.Filter), style: styles.Info}}
	}
	m.list.EnsureCursorVisible(m.maxVisibleRows())
	rows := m.list.Rows
	start := 0
	if maxRows := m.maxVisibleRows(); maxRows > 0 && len(rows) > maxRows {
		start = m.list.ViewportOffset
		if start+maxRows > len(rows) {
			start = len(rows) - maxRows
		}
		rows = rows[start : start+maxRows]
	}
	selected := m.queues.SelectedIndex()
	lines := make([]styledLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, m.buildRowLine(row.Label, row.FIFO, row.Index == selected, width))
	}
	return lines
}

// buildRowLine renders one queue row. The selected queue gets the
// highlighted indicator and background across the full column.
func (m *Model) buildRowLine(label string, fifo, selected bool, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	text := indicator + " " + label
	if fifo {
		text += " [fifo]"
	}
	if width > 0 {
		if pad := width - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          text,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func (m *Model) feedTitle() string {
	title := "Messages"
	if queue, ok := m.queues.Selected(); ok {
		title += ": " + queue.Label()
	}
	if m.focus == FocusMessages {
		title += " (focused)"
	}
	return title
}

func (m *Model) feedLines(width int) []styledLine {
	queue, ok := m.queues.Selected()
	if !ok {
		return nil
	}
	if m.feed.QueueURL() != queue.QueueUrl {
		return []styledLine{{text: "Loading messages…", style: styles.Loading}}
	}
	msgs := m.feed.Messages()
	if len(msgs) == 0 {
		return []styledLine{{text: "(no messages)", style: styles.Info}}
	}
	lines := make([]styledLine, 0, len(msgs)*3)
	for i, msg := range msgs {
		if i > 0 {
			lines = append(lines, styledLine{})
		}
		lines = append(lines, m.cardLines(msg, m.focus == FocusMessages && i == m.msgCursor, width)...)
	}
	if m.focus == FocusMessages {
		if detail := m.detailLines(width); len(detail) > 0 {
			lines = append(lines, styledLine{text: strings.Repeat("─", width), style: styles.Separator})
			lines = append(lines, detail...)
		}
	}
	return lines
}

func (m *Model) bottomLines() []styledLine {
	lines := make([]styledLine, 0, 3)
	lines = append(lines, styledLine{text: m.currentInfo(), style: styles.Info})
	if m.showFooter {
		lines = append(lines, styledLine{text: m.footer()})
	}
	lines = append(lines, styledLine{text: m.filterPrompt()})
	return lines
}

type hint struct {
	key, label string
	scoped     bool
}

var footerHints = []hint{
	{key: "↑/↓", label: "move"},
	{key: "/", label: "filter"},
	{key: "tab", label: "focus"},
	{key: "c", label: "create"},
	{key: "d", label: "delete", scoped: true},
	{key: "p", label: "purge", scoped: true},
	{key: "s", label: "send", scoped: true},
	{key: "r", label: "refresh"},
	{key: "x", label: "dismiss"},
	{key: "y", label: "copy"},
	{key: "q", label: "quit"},
}

// footer lists the key hints. Queue-scoped hints are rendered disabled
// while no queue exists.
func (m *Model) footer() string {
	parts := make([]string, 0, len(footerHints))
	for _, h := range footerHints {
		text := h.key + " " + h.label
		style := styles.Footer
		if h.scoped && m.Disabled() {
			style = styles.Disabled
		}
		if style != nil {
			text = style.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) createFormLines() []styledLine {
	f := m.createForm
	nameStyle, toggleStyle := styles.FormFocusedLabel, styles.FormLabel
	if f.OnToggle() {
		nameStyle, toggleStyle = styles.FormLabel, styles.FormFocusedLabel
	}
	check := "[ ]"
	if f.Dedup() {
		check = "[x]"
	}
	lines := []styledLine{
		{text: "Create Queue", style: styles.DetailTitle},
		{},
		{text: "Name", style: nameStyle},
		{text: "  " + f.InputView()},
	}
	if f.FIFO() {
		lines = append(lines, styledLine{text: check + " content-based deduplication", style: toggleStyle})
	}
	if err := f.Error(); err != "" {
		lines = append(lines, styledLine{}, styledLine{text: err, style: styles.Error})
	}
	lines = append(lines, styledLine{}, styledLine{text: "Press Enter to create. Tab toggles options. Esc to cancel.", style: styles.Footer})
	return lines
}

func (m *Model) sendFormLines() []styledLine {
	f := m.sendForm
	title := "Send Message"
	if target := f.Target(); target.QueueUrl != "" {
		title += " to " + target.Label()
	}
	lines := []styledLine{{text: title, style: styles.DetailTitle}, {}}
	for i, label := range sendFieldLabels {
		style := styles.FormLabel
		if i == f.Focused() {
			style = styles.FormFocusedLabel
		}
		lines = append(lines, styledLine{text: label, style: style})
		lines = append(lines, styledLine{text: "  " + f.InputView(i)})
	}
	if err := f.Error(); err != "" {
		lines = append(lines, styledLine{}, styledLine{text: err, style: styles.Error})
	}
	lines = append(lines, styledLine{}, styledLine{text: "Enter moves to the next field and sends from the last. Esc to cancel.", style: styles.Footer})
	return lines
}

// padBlock pads every row of block to exactly width columns and height rows
// so JoinHorizontal keeps the right column aligned.
func padBlock(block string, width, height int) string {
	rows := strings.Split(block, "\n")
	for len(rows) < height {
		rows = append(rows, "")
	}
	for i, row := range rows {
		w := lipgloss.Width(row)
		if w > width {
			rows[i] = truncate.StringWithTail(row, uint(width-1), "…")
		} else if w < width {
			rows[i] = row + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(rows, "\n")
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

// applyWidth truncates lines to width. Input and footer lines may carry
// ANSI escapes already, so truncation is ANSI aware.
func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return truncate.String(text, 1)
	}
	return truncate.StringWithTail(text, uint(width-1), "…")
}
