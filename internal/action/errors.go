package action

import (
	"errors"
	"fmt"

	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
)

// Op is the human readable name of an operation as shown in error messages.
type Op string

const (
	OpListQueues  Op = "list queues"
	OpCreateQueue Op = "create queue"
	OpDeleteQueue Op = "delete queue"
	OpPurgeQueue  Op = "purge queue"
	OpSendMessage Op = "send message"
	OpGetMessages Op = "receive messages"
)

// OpFor maps a transport action onto its display name.
func OpFor(a sqs.Action) Op {
	switch a {
	case sqs.ActionListQueues:
		return OpListQueues
	case sqs.ActionCreateQueue:
		return OpCreateQueue
	case sqs.ActionDeleteQueue:
		return OpDeleteQueue
	case sqs.ActionPurgeQueue:
		return OpPurgeQueue
	case sqs.ActionSendMessage:
		return OpSendMessage
	case sqs.ActionGetMessages:
		return OpGetMessages
	default:
		return Op(a)
	}
}

// Reason classifies a validation failure. Reasons double as metric labels.
type Reason string

const (
	ReasonNoQueue           Reason = "no-queue"
	ReasonMissingGroupID    Reason = "missing-group-id"
	ReasonEmptyBody         Reason = "empty-body"
	ReasonInvalidDelay      Reason = "invalid-delay"
	ReasonInvalidAttributes Reason = "invalid-attributes"
	ReasonInvalidQueueName  Reason = "invalid-queue-name"
	ReasonDuplicateQueue    Reason = "duplicate-queue"
)

// ValidationError is a local failure detected before any remote call.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(reason Reason, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// RemoteError wraps a transport failure with the operation that caused it.
type RemoteError struct {
	Op  Op
	Err error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Failed to %s", e.Op)
	}
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
