package events

import "github.com/atomicstack/sqs-admin-tui/internal/logging"

type MessageTracer struct{}

var Message = MessageTracer{}

func (MessageTracer) Received(url string, count int) {
	logging.Trace("message.received", map[string]interface{}{"url": url, "count": count})
}

// Stale records a receive response dropped because its queue is no longer
// the selected one.
func (MessageTracer) Stale(url, selected string) {
	logging.Trace("message.stale", map[string]interface{}{"url": url, "selected": selected})
}

func (MessageTracer) Sent(url string, bytes int) {
	logging.Trace("message.sent", map[string]interface{}{"url": url, "bytes": bytes})
}

func (MessageTracer) Invalid(reason string) {
	logging.Trace("message.invalid", map[string]interface{}{"reason": reason})
}

func (MessageTracer) Copied(id string) {
	logging.Trace("message.copied", map[string]interface{}{"id": id})
}
