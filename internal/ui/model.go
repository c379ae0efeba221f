package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/action"
	"github.com/atomicstack/sqs-admin-tui/internal/backend"
	"github.com/atomicstack/sqs-admin-tui/internal/data/reconcile"
	"github.com/atomicstack/sqs-admin-tui/internal/metrics"
	"github.com/atomicstack/sqs-admin-tui/internal/state"
	"github.com/atomicstack/sqs-admin-tui/internal/theme"
	uistate "github.com/atomicstack/sqs-admin-tui/internal/ui/state"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

type Mode int

const (
	ModeBrowse Mode = iota
	ModeFilter
	ModeCreateForm
	ModeSendForm
	ModeConfirm
)

// Focus names the column receiving navigation keys.
type Focus int

const (
	FocusQueues Focus = iota
	FocusMessages
)

func (f Focus) String() string {
	if f == FocusMessages {
		return "messages"
	}
	return "queues"
}

var styles = theme.Default()

const infoDuration = 5 * time.Second

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Dispatcher  *action.Dispatcher
	Watcher     *backend.Watcher
	Metrics     *metrics.Recorder
	Clock       clockwork.Clock
	Region      string
	SettleDelay time.Duration
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	// Copy writes text to the system clipboard.
	Copy func(string) error
}

// Model implements the Bubble Tea model for the queue console.
type Model struct {
	queues     state.QueueRegistry
	feed       state.MessageFeed
	errors     state.ErrorSurface
	reconciler *reconcile.Reconciler
	dispatcher *action.Dispatcher
	backend    *backend.Watcher
	listening  bool

	list      *uistate.List
	mode      Mode
	focus     Focus
	msgCursor int

	createForm *createQueueForm
	sendForm   *sendMessageForm
	confirm    *confirmation

	inflight       int
	pendingSettles int
	settleDelay    time.Duration

	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	region      string

	filterCursor cursor.Model
	clock        clockwork.Clock
	copy         func(string) error

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state with empty stores.
func NewModel(opts Options) *Model {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	queues := state.NewQueueRegistry()
	feed := state.NewMessageFeed()
	errs := state.NewErrorSurface()
	m := &Model{
		queues:      queues,
		feed:        feed,
		errors:      errs,
		reconciler:  reconcile.New(queues, feed, errs, opts.Metrics),
		dispatcher:  opts.Dispatcher,
		backend:     opts.Watcher,
		list:        uistate.NewList(),
		mode:        ModeBrowse,
		focus:       FocusQueues,
		settleDelay: opts.SettleDelay,
		showFooter:  opts.ShowFooter,
		verbose:     opts.Verbose,
		region:      opts.Region,
		clock:       clock,
		copy:        opts.Copy,
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	c.SetMode(cursor.CursorStatic)
	c.Focus()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		c.TextStyle = *styles.Filter
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init loads the queue listing and starts listening for scheduler events.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startupCmd()}
	if m.backend != nil {
		m.listening = true
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	return tea.Batch(cmds...)
}

// startupCmd is the initial registry refresh.
func (m *Model) startupCmd() tea.Cmd {
	return m.listQueues()
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return false, nil
	}
	switch m.mode {
	case ModeCreateForm:
		return m.handleCreateForm(msg)
	case ModeSendForm:
		return m.handleSendForm(msg)
	case ModeConfirm:
		return m.handleConfirm(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):        m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):     m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):      m.handleBackendDoneMsg,
		reflect.TypeOf(settleTickMsg{}):       m.handleSettleTickMsg,
		reflect.TypeOf(feedRefreshMsg{}):      m.handleFeedRefreshMsg,
		reflect.TypeOf(queuesListedMsg{}):     m.handleQueuesListedMsg,
		reflect.TypeOf(messagesReceivedMsg{}): m.handleMessagesReceivedMsg,
		reflect.TypeOf(queueCreatedMsg{}):     m.handleQueueCreatedMsg,
		reflect.TypeOf(queueDeletedMsg{}):     m.handleQueueDeletedMsg,
		reflect.TypeOf(queuePurgedMsg{}):      m.handleQueuePurgedMsg,
		reflect.TypeOf(messageSentMsg{}):      m.handleMessageSentMsg,
		reflect.TypeOf(actionFailedMsg{}):     m.handleActionFailedMsg,
		reflect.TypeOf(copiedMsg{}):           m.handleCopiedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// quit stops the scheduler so no timer fires into a torn down model.
func (m *Model) quit() tea.Cmd {
	if m.backend != nil {
		m.backend.Stop()
	}
	return tea.Quit
}

// Disabled reports whether queue-scoped actions are unavailable.
func (m *Model) Disabled() bool {
	return m.queues.Disabled()
}

// Queues exposes the registry for callers that render or inspect it.
func (m *Model) Queues() state.QueueRegistry { return m.queues }

// Feed exposes the message feed.
func (m *Model) Feed() state.MessageFeed { return m.feed }

// Errors exposes the error slot.
func (m *Model) Errors() state.ErrorSurface { return m.errors }

// PendingSettles reports scheduled registry refreshes not yet fired.
func (m *Model) PendingSettles() int { return m.pendingSettles }
