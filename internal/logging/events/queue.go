package events

import "github.com/atomicstack/sqs-admin-tui/internal/logging"

type QueueTracer struct{}

var Queue = QueueTracer{}

func (QueueTracer) Listed(count, selected int, generation uint64) {
	logging.Trace("queue.listed", map[string]interface{}{
		"count":      count,
		"selected":   selected,
		"generation": generation,
	})
}

func (QueueTracer) Select(index int, url string) {
	logging.Trace("queue.select", map[string]interface{}{"index": index, "url": url})
}

func (QueueTracer) SelectRejected(index, count int) {
	logging.Trace("queue.select-rejected", map[string]interface{}{"index": index, "count": count})
}

func (QueueTracer) Created(name string) {
	logging.Trace("queue.created", map[string]interface{}{"name": name})
}

func (QueueTracer) Deleted(url string) {
	logging.Trace("queue.deleted", map[string]interface{}{"url": url})
}

func (QueueTracer) Purged(url string) {
	logging.Trace("queue.purged", map[string]interface{}{"url": url})
}
