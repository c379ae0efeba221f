package events

import (
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/logging"
)

type PollTracer struct{}

var Poll = PollTracer{}

func (PollTracer) Tick(at time.Time, url string) {
	logging.Trace("poll.tick", map[string]interface{}{"at": at, "url": url})
}

func (PollTracer) SettleScheduled(delay time.Duration, pending int) {
	logging.Trace("poll.settle-scheduled", map[string]interface{}{"delay": delay.String(), "pending": pending})
}

func (PollTracer) SettleFired(at time.Time, pending int) {
	logging.Trace("poll.settle-fired", map[string]interface{}{"at": at, "pending": pending})
}
