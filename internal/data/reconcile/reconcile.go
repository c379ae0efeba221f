package reconcile

import (
	"github.com/atomicstack/sqs-admin-tui/internal/action"
	"github.com/atomicstack/sqs-admin-tui/internal/logging"
	"github.com/atomicstack/sqs-admin-tui/internal/logging/events"
	"github.com/atomicstack/sqs-admin-tui/internal/metrics"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/atomicstack/sqs-admin-tui/internal/state"
)

// Result reports which state slots a payload changed.
type Result struct {
	QueuesReplaced bool
	FeedReplaced   bool
	FeedCleared    bool
	Stale          bool
	ErrorSet       bool
}

// Reconciler applies remote payloads to the state stores. It is the only
// writer of the registry, the feed and the error slot.
type Reconciler struct {
	queues  state.QueueRegistry
	feed    state.MessageFeed
	errors  state.ErrorSurface
	metrics *metrics.Recorder
}

func New(q state.QueueRegistry, f state.MessageFeed, e state.ErrorSurface, m *metrics.Recorder) *Reconciler {
	return &Reconciler{queues: q, feed: f, errors: e, metrics: m}
}

// Queues replaces the registry with a fresh listing.
func (r *Reconciler) Queues(queues []sqs.Queue) Result {
	r.queues.Replace(queues)
	events.Queue.Listed(r.queues.Len(), r.queues.SelectedIndex(), r.queues.Generation())
	return Result{QueuesReplaced: true}
}

// Messages replaces the feed with a receive response for queueURL. Responses
// for a queue that is no longer selected are dropped.
func (r *Reconciler) Messages(queueURL string, msgs []sqs.Message) Result {
	selected, ok := r.queues.Selected()
	if !ok || selected.QueueUrl != queueURL {
		events.Message.Stale(queueURL, selected.QueueUrl)
		r.metrics.StaleResponse()
		return Result{Stale: true}
	}
	r.feed.Replace(queueURL, msgs)
	events.Message.Received(queueURL, len(msgs))
	return Result{FeedReplaced: true}
}

// Clear empties the feed after queueURL was purged or deleted. A feed that
// already shows another queue is left alone.
func (r *Reconciler) Clear(queueURL string) Result {
	if r.feed.QueueURL() != queueURL {
		return Result{}
	}
	r.feed.Clear()
	return Result{FeedCleared: true}
}

// Failed publishes err to the error slot. Prior store contents are kept.
// Validation failures are already traced and stay out of the error log.
func (r *Reconciler) Failed(err error) Result {
	if err == nil {
		return Result{}
	}
	if !action.IsValidation(err) {
		logging.Error(err)
	}
	r.errors.Set(err.Error())
	return Result{ErrorSet: true}
}
