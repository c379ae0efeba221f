package action

import (
	"context"
	"fmt"

	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"github.com/atomicstack/sqs-admin-tui/internal/metrics"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// OnSuccess builds the message delivered when a call succeeds.
type OnSuccess func(sqs.Response) tea.Msg

// OnError builds the message delivered when a call fails. The error is
// either a *ValidationError or a *RemoteError.
type OnError func(error) tea.Msg

// Dispatcher turns each action into a Bubble Tea command performing exactly
// one remote call. It holds no state of its own.
type Dispatcher struct {
	ctx       context.Context
	transport sqs.Transport
	metrics   *metrics.Recorder
	clock     clockwork.Clock
	newID     func() string
}

type Option func(*Dispatcher)

// WithContext sets the context passed to every transport call.
func WithContext(ctx context.Context) Option {
	return func(d *Dispatcher) { d.ctx = ctx }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithClock(c clockwork.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithIDGenerator replaces the deduplication id source for FIFO sends.
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) { d.newID = fn }
}

func NewDispatcher(transport sqs.Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ctx:       context.Background(),
		transport: transport,
		clock:     clockwork.NewRealClock(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) ListQueues(ok OnSuccess, fail OnError) tea.Cmd {
	return d.call(sqs.NewRequest(sqs.ActionListQueues, nil, nil), ok, fail)
}

func (d *Dispatcher) CreateQueue(queue sqs.Queue, ok OnSuccess, fail OnError) tea.Cmd {
	return d.call(sqs.NewRequest(sqs.ActionCreateQueue, &queue, nil), ok, fail)
}

func (d *Dispatcher) DeleteQueue(queue sqs.Queue, ok OnSuccess, fail OnError) tea.Cmd {
	return d.call(sqs.NewRequest(sqs.ActionDeleteQueue, &queue, nil), ok, fail)
}

func (d *Dispatcher) PurgeQueue(queue sqs.Queue, ok OnSuccess, fail OnError) tea.Cmd {
	return d.call(sqs.NewRequest(sqs.ActionPurgeQueue, &queue, nil), ok, fail)
}

func (d *Dispatcher) GetMessages(queue sqs.Queue, ok OnSuccess, fail OnError) tea.Cmd {
	return d.call(sqs.NewRequest(sqs.ActionGetMessages, &queue, nil), ok, fail)
}

// SendMessage validates msg against queue before dispatching. A validation
// failure is delivered through fail without touching the transport.
func (d *Dispatcher) SendMessage(queue *sqs.Queue, msg sqs.Message, ok OnSuccess, fail OnError) tea.Cmd {
	if err := ValidateSend(queue, msg); err != nil {
		d.metrics.ValidationFailed(reasonOf(err))
		events.Message.Invalid(err.Error())
		if fail == nil {
			return nil
		}
		return func() tea.Msg { return fail(err) }
	}
	q := *queue
	out := d.withDeduplicationID(q, msg)
	return d.call(sqs.NewRequest(sqs.ActionSendMessage, &q, &out), ok, fail)
}

// withDeduplicationID gives a FIFO send a fresh deduplication id unless one
// is set or the queue deduplicates on content.
func (d *Dispatcher) withDeduplicationID(queue sqs.Queue, msg sqs.Message) sqs.Message {
	if !queue.IsFIFO() {
		return msg
	}
	if _, ok := msg.Attribute(sqs.DeduplicationIDAttribute); ok {
		return msg
	}
	if queue.Attributes[sqs.ContentBasedDeduplicationAttribute] == "true" {
		return msg
	}
	out := msg
	out.Attributes = make(map[string]string, len(msg.Attributes)+1)
	for k, v := range msg.Attributes {
		out.Attributes[k] = v
	}
	out.Attributes[sqs.DeduplicationIDAttribute] = d.newID()
	return out
}

func (d *Dispatcher) call(req sqs.Request, ok OnSuccess, fail OnError) tea.Cmd {
	target := ""
	if req.Queue != nil {
		target = req.Queue.QueueUrl
		if target == "" {
			target = req.Queue.QueueName
		}
	}
	events.Command.Queue(string(req.Action), string(req.Method), target)
	return func() tea.Msg {
		start := d.clock.Now()
		resp, err := d.transport.Call(d.ctx, req)
		d.metrics.ObserveCall(string(req.Action), err, d.clock.Since(start))
		if err != nil {
			remote := &RemoteError{Op: OpFor(req.Action), Err: err}
			events.Action.Error(remote)
			if fail == nil {
				events.Command.Result(string(req.Action), "<nil>", remote)
				return nil
			}
			msg := fail(remote)
			events.Command.Result(string(req.Action), fmt.Sprintf("%T", msg), remote)
			return msg
		}
		if ok == nil {
			events.Command.Result(string(req.Action), "<nil>", nil)
			return nil
		}
		msg := ok(resp)
		events.Command.Result(string(req.Action), fmt.Sprintf("%T", msg), nil)
		return msg
	}
}
