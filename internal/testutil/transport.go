// Package testutil provides an in-memory queue service for tests. It
// implements sqs.Transport and records every request it receives.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/jonboulle/clockwork"
)

// BaseURL prefixes every queue URL handed out by FakeTransport.
const BaseURL = "http://localhost:4566/000000000000/"

// ErrNonExistentQueue is returned for calls naming an unknown queue URL.
var ErrNonExistentQueue = errors.New("AWS.SimpleQueueService.NonExistentQueue: The specified queue does not exist.")

// Call is one recorded request and the fake clock time it arrived.
type Call struct {
	Request sqs.Request
	At      time.Time
}

type FakeTransport struct {
	clock clockwork.Clock

	mu       sync.Mutex
	queues   []sqs.Queue
	messages map[string][]sqs.Message
	nextID   int
	calls    []Call
	failNext map[sqs.Action][]error
	failAll  map[sqs.Action]error
}

// NewFakeTransport returns an empty service. A nil clock uses real time.
func NewFakeTransport(clock clockwork.Clock) *FakeTransport {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FakeTransport{
		clock:    clock,
		messages: make(map[string][]sqs.Message),
		failNext: make(map[sqs.Action][]error),
		failAll:  make(map[sqs.Action]error),
	}
}

// QueueFor builds the queue value the fake would list for name.
func QueueFor(name string) sqs.Queue {
	return sqs.Queue{QueueUrl: BaseURL + name, QueueName: name}
}

// SetQueues replaces the remote listing with queues named names, in order.
func (f *FakeTransport) SetQueues(names ...string) []sqs.Queue {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues = f.queues[:0]
	for _, name := range names {
		f.queues = append(f.queues, QueueFor(name))
	}
	return sqs.CloneQueues(f.queues)
}

// SetMessages replaces the messages stored for the queue named name.
func (f *FakeTransport) SetMessages(name string, msgs ...sqs.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[BaseURL+name] = sqs.CloneMessages(msgs)
}

// FailNext makes the next call for action return err. Calls queue up.
func (f *FakeTransport) FailNext(action sqs.Action, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[action] = append(f.failNext[action], err)
}

// FailAlways makes every call for action return err until cleared with a
// nil error.
func (f *FakeTransport) FailAlways(action sqs.Action, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failAll, action)
		return
	}
	f.failAll[action] = err
}

// Calls returns every recorded request in arrival order.
func (f *FakeTransport) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsFor returns the recorded requests for action.
func (f *FakeTransport) CallsFor(action sqs.Action) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Request.Action == action {
			out = append(out, c)
		}
	}
	return out
}

// Count reports how many requests for action were recorded.
func (f *FakeTransport) Count(action sqs.Action) int {
	return len(f.CallsFor(action))
}

// ResetCalls forgets recorded requests but keeps the remote state.
func (f *FakeTransport) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeTransport) Call(ctx context.Context, req sqs.Request) (sqs.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Request: cloneRequest(req), At: f.clock.Now()})
	if err := ctx.Err(); err != nil {
		return sqs.Response{}, err
	}
	if errs := f.failNext[req.Action]; len(errs) > 0 {
		f.failNext[req.Action] = errs[1:]
		return sqs.Response{}, errs[0]
	}
	if err := f.failAll[req.Action]; err != nil {
		return sqs.Response{}, err
	}
	if err := req.Validate(); err != nil {
		return sqs.Response{}, err
	}

	switch req.Action {
	case sqs.ActionListQueues:
		out := sqs.CloneQueues(f.queues)
		if out == nil {
			out = []sqs.Queue{}
		}
		return sqs.Response{Queues: out}, nil
	case sqs.ActionCreateQueue:
		name := req.Queue.QueueName
		if f.indexOf(BaseURL+name) < 0 {
			queue := QueueFor(name)
			if queue.IsFIFO() {
				queue.Attributes = map[string]string{sqs.FifoQueueAttribute: "true"}
				if req.Queue.Attributes[sqs.ContentBasedDeduplicationAttribute] == "true" {
					queue.Attributes[sqs.ContentBasedDeduplicationAttribute] = "true"
				}
			}
			f.queues = append(f.queues, queue)
		}
		return sqs.Response{}, nil
	case sqs.ActionDeleteQueue:
		idx := f.indexOf(req.Queue.QueueUrl)
		if idx < 0 {
			return sqs.Response{}, ErrNonExistentQueue
		}
		f.queues = append(f.queues[:idx], f.queues[idx+1:]...)
		delete(f.messages, req.Queue.QueueUrl)
		return sqs.Response{}, nil
	case sqs.ActionPurgeQueue:
		if f.indexOf(req.Queue.QueueUrl) < 0 {
			return sqs.Response{}, ErrNonExistentQueue
		}
		delete(f.messages, req.Queue.QueueUrl)
		return sqs.Response{}, nil
	case sqs.ActionSendMessage:
		if f.indexOf(req.Queue.QueueUrl) < 0 {
			return sqs.Response{}, ErrNonExistentQueue
		}
		f.nextID++
		msg := sqs.CloneMessages([]sqs.Message{*req.Message})[0]
		msg.MessageId = fmt.Sprintf("msg-%d", f.nextID)
		msg.SentAt = f.clock.Now().UTC()
		f.messages[req.Queue.QueueUrl] = append(f.messages[req.Queue.QueueUrl], msg)
		return sqs.Response{}, nil
	case sqs.ActionGetMessages:
		if f.indexOf(req.Queue.QueueUrl) < 0 {
			return sqs.Response{}, ErrNonExistentQueue
		}
		out := sqs.CloneMessages(f.messages[req.Queue.QueueUrl])
		if out == nil {
			out = []sqs.Message{}
		}
		return sqs.Response{Messages: out}, nil
	}
	return sqs.Response{}, fmt.Errorf("unsupported action %q", req.Action)
}

func (f *FakeTransport) indexOf(url string) int {
	for i, q := range f.queues {
		if q.QueueUrl == url {
			return i
		}
	}
	return -1
}

func cloneRequest(req sqs.Request) sqs.Request {
	out := req
	if req.Queue != nil {
		q := sqs.CloneQueues([]sqs.Queue{*req.Queue})[0]
		out.Queue = &q
	}
	if req.Message != nil {
		m := sqs.CloneMessages([]sqs.Message{*req.Message})[0]
		out.Message = &m
	}
	return out
}
