package ui

import (
	"strconv"
	"strings"

	"github.com/atomicstack/sqs-admin-tui/internal/action"
	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// createQueueForm collects a queue name and, for FIFO names, whether the
// queue deduplicates on content.
type createQueueForm struct {
	input    textinput.Model
	dedup    bool
	onToggle bool
	existing []sqs.Queue
	err      string
}

func newCreateQueueForm(existing []sqs.Queue) *createQueueForm {
	ti := newInput("queue-name or queue-name.fifo", action.MaxQueueNameLength)
	ti.Focus()
	return &createQueueForm{input: ti, existing: existing}
}

func (f *createQueueForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *createQueueForm) InputView() string { return f.input.View() }
func (f *createQueueForm) Error() string     { return f.err }
func (f *createQueueForm) Dedup() bool       { return f.dedup }
func (f *createQueueForm) OnToggle() bool    { return f.onToggle }
func (f *createQueueForm) FIFO() bool        { return sqs.IsFIFOName(f.Value()) }

// Queue builds the queue to create from the current input.
func (f *createQueueForm) Queue() sqs.Queue {
	q := sqs.Queue{QueueName: f.Value()}
	if f.FIFO() && f.dedup {
		q.Attributes = map[string]string{sqs.ContentBasedDeduplicationAttribute: "true"}
	}
	return q
}

func (f *createQueueForm) validate() string {
	if f.Value() == "" {
		return ""
	}
	if err := action.ValidateQueueName(f.Value(), f.existing); err != nil {
		return err.Error()
	}
	return ""
}

// Update returns (cmd, done, cancel) in the same manner as the other forms.
func (f *createQueueForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return nil, false, true
		case "tab", "shift+tab":
			f.onToggle = !f.onToggle
			if f.onToggle {
				f.input.Blur()
			} else {
				f.input.Focus()
			}
			return nil, false, false
		case "ctrl+u":
			f.input.SetValue("")
			f.err = ""
			return nil, false, false
		case "enter":
			if err := action.ValidateQueueName(f.Value(), f.existing); err != nil {
				f.err = err.Error()
				return nil, false, false
			}
			f.err = ""
			return nil, true, false
		}
		if f.onToggle {
			if key.Type == tea.KeySpace || key.String() == " " {
				f.dedup = !f.dedup
			}
			return nil, false, false
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.err = f.validate()
	return cmd, false, false
}

const (
	sendFieldBody = iota
	sendFieldGroup
	sendFieldDedup
	sendFieldDelay
	sendFieldAttributes
	sendFieldCount
)

var sendFieldLabels = [sendFieldCount]string{
	"Body",
	"Group ID",
	"Deduplication ID",
	"Delay (seconds)",
	"Attributes (k=v,...)",
}

// sendMessageForm collects the body and send options. Enter moves to the
// next field; enter on the last field submits.
type sendMessageForm struct {
	inputs  [sendFieldCount]textinput.Model
	focused int
	target  sqs.Queue
	err     string
}

func newSendMessageForm(target sqs.Queue) *sendMessageForm {
	f := &sendMessageForm{target: target}
	f.inputs[sendFieldBody] = newInput(`{"hello":"world"}`, 256*1024)
	f.inputs[sendFieldGroup] = newInput("required for FIFO queues", 128)
	f.inputs[sendFieldDedup] = newInput("generated when blank", 128)
	f.inputs[sendFieldDelay] = newInput("0", 3)
	f.inputs[sendFieldAttributes] = newInput("key=value,other=value", 1024)
	f.inputs[sendFieldBody].Focus()
	return f
}

func (f *sendMessageForm) Target() sqs.Queue      { return f.target }
func (f *sendMessageForm) Focused() int           { return f.focused }
func (f *sendMessageForm) Error() string          { return f.err }
func (f *sendMessageForm) InputView(i int) string { return f.inputs[i].View() }

func (f *sendMessageForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *sendMessageForm) setFocus(i int) {
	if i < 0 {
		i = sendFieldCount - 1
	}
	if i >= sendFieldCount {
		i = 0
	}
	f.inputs[f.focused].Blur()
	f.focused = i
	f.inputs[f.focused].Focus()
}

// Message builds the outgoing message. Delay and attribute syntax errors are
// reported here, before anything is dispatched.
func (f *sendMessageForm) Message() (sqs.Message, error) {
	msg := sqs.Message{Body: f.inputs[sendFieldBody].Value()}
	attrs := map[string]string{}
	if v := f.value(sendFieldGroup); v != "" {
		attrs[sqs.GroupIDAttribute] = v
	}
	if v := f.value(sendFieldDedup); v != "" {
		attrs[sqs.DeduplicationIDAttribute] = v
	}
	if raw := f.value(sendFieldDelay); raw != "" {
		delay, err := action.ParseDelay(raw)
		if err != nil {
			return sqs.Message{}, err
		}
		attrs[sqs.DelayAttribute] = strconv.Itoa(delay)
	}
	custom, err := action.ParseAttributes(f.value(sendFieldAttributes))
	if err != nil {
		return sqs.Message{}, err
	}
	if len(attrs) > 0 {
		msg.Attributes = attrs
	}
	msg.MessageAttributes = custom
	return msg, nil
}

func (f *sendMessageForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return nil, false, true
		case "tab", "down":
			f.setFocus(f.focused + 1)
			return nil, false, false
		case "shift+tab", "up":
			f.setFocus(f.focused - 1)
			return nil, false, false
		case "enter":
			if f.focused < sendFieldCount-1 {
				f.setFocus(f.focused + 1)
				return nil, false, false
			}
			if _, err := f.Message(); err != nil {
				f.err = err.Error()
				return nil, false, false
			}
			f.err = ""
			return nil, true, false
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	f.err = ""
	return cmd, false, false
}

func (m *Model) openCreateForm() tea.Cmd {
	m.createForm = newCreateQueueForm(m.queues.Queues())
	m.mode = ModeCreateForm
	m.forceClearInfo()
	events.UI.FormOpen("create-queue")
	return nil
}

func (m *Model) openSendForm() tea.Cmd {
	if m.Disabled() {
		return nil
	}
	queue, _ := m.queues.Selected()
	m.sendForm = newSendMessageForm(queue)
	m.mode = ModeSendForm
	m.forceClearInfo()
	events.UI.FormOpen("send-message")
	return nil
}

func (m *Model) handleCreateForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.createForm == nil {
		m.mode = ModeBrowse
		return false, nil
	}
	cmd, done, cancel := m.createForm.Update(msg)
	if cancel {
		m.createForm = nil
		m.mode = ModeBrowse
		events.UI.FormCancel("create-queue")
		return true, cmd
	}
	if done {
		queue := m.createForm.Queue()
		m.createForm = nil
		m.mode = ModeBrowse
		return true, m.createQueue(queue)
	}
	return true, cmd
}

func (m *Model) handleSendForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.sendForm == nil {
		m.mode = ModeBrowse
		return false, nil
	}
	cmd, done, cancel := m.sendForm.Update(msg)
	if cancel {
		m.sendForm = nil
		m.mode = ModeBrowse
		events.UI.FormCancel("send-message")
		return true, cmd
	}
	if done {
		out, err := m.sendForm.Message()
		if err != nil {
			m.sendForm.err = err.Error()
			return true, nil
		}
		m.sendForm = nil
		m.mode = ModeBrowse
		return true, m.sendMessage(out)
	}
	return true, cmd
}
