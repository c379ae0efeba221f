package sqs

import (
	"context"
	"fmt"
)

// Method mirrors the request verb of the remote call description.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Action names a remote operation. ListQueues is the implicit GET.
type Action string

const (
	ActionListQueues  Action = "ListQueues"
	ActionCreateQueue Action = "CreateQueue"
	ActionDeleteQueue Action = "DeleteQueue"
	ActionPurgeQueue  Action = "PurgeQueue"
	ActionSendMessage Action = "SendMessage"
	ActionGetMessages Action = "GetMessages"
)

// Actions lists every action in catalogue order.
func Actions() []Action {
	return []Action{
		ActionListQueues,
		ActionCreateQueue,
		ActionDeleteQueue,
		ActionPurgeQueue,
		ActionSendMessage,
		ActionGetMessages,
	}
}

// Request describes a single remote call.
type Request struct {
	Method  Method
	Action  Action
	Queue   *Queue
	Message *Message
}

// Response carries the typed payload of a successful call. Only the field
// matching the action is populated.
type Response struct {
	Queues   []Queue
	Messages []Message
}

// Transport performs exactly one remote call per Request.
type Transport interface {
	Call(ctx context.Context, req Request) (Response, error)
}

// NewRequest builds a request for action, filling in the method.
func NewRequest(action Action, queue *Queue, message *Message) Request {
	method := MethodPost
	if action == ActionListQueues {
		method = MethodGet
	}
	return Request{Method: method, Action: action, Queue: queue, Message: message}
}

// Validate checks the request against the action catalogue.
func (r Request) Validate() error {
	switch r.Action {
	case ActionListQueues:
		return nil
	case ActionCreateQueue:
		if r.Queue == nil || r.Queue.QueueName == "" {
			return fmt.Errorf("%s requires a queue name", r.Action)
		}
		return nil
	case ActionDeleteQueue, ActionPurgeQueue, ActionGetMessages:
		if r.Queue == nil || r.Queue.QueueUrl == "" {
			return fmt.Errorf("%s requires a queue url", r.Action)
		}
		return nil
	case ActionSendMessage:
		if r.Queue == nil || r.Queue.QueueUrl == "" {
			return fmt.Errorf("%s requires a queue url", r.Action)
		}
		if r.Message == nil {
			return fmt.Errorf("%s requires a message", r.Action)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
}
