package sqs

import (
	"net/url"
	"strings"
	"time"
)

// FIFOSuffix marks a queue name as a FIFO queue.
const FIFOSuffix = ".fifo"

// Message attribute keys understood by SendMessage.
const (
	GroupIDAttribute         = "MessageGroupId"
	DeduplicationIDAttribute = "MessageDeduplicationId"
	DelayAttribute           = "DelaySeconds"
	SentTimestampAttribute   = "SentTimestamp"
)

// Queue attribute keys used when creating queues.
const (
	FifoQueueAttribute                 = "FifoQueue"
	ContentBasedDeduplicationAttribute = "ContentBasedDeduplication"
)

// Queue identifies a remote queue. QueueUrl is the identity; QueueName is
// kept for display and for the FIFO suffix convention.
type Queue struct {
	QueueUrl   string
	QueueName  string
	Attributes map[string]string
}

// IsFIFO reports whether the queue name carries the FIFO suffix.
func (q Queue) IsFIFO() bool {
	return IsFIFOName(q.QueueName)
}

// IsFIFOName reports whether name ends in the reserved FIFO suffix.
func IsFIFOName(name string) bool {
	return strings.HasSuffix(strings.TrimSpace(name), FIFOSuffix)
}

// Label returns the display name for the queue.
func (q Queue) Label() string {
	if q.QueueName != "" {
		return q.QueueName
	}
	return QueueNameFromURL(q.QueueUrl)
}

// QueueNameFromURL extracts the trailing path segment of a queue URL.
func QueueNameFromURL(queueURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(queueURL), "/")
	if trimmed == "" {
		return ""
	}
	if u, err := url.Parse(trimmed); err == nil && u.Path != "" {
		trimmed = u.Path
	}
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// Message is a single message as sent to or received from a queue.
//
// Attributes carries send options (group id, deduplication id, delay) on
// the way out and system attributes on the way in. MessageAttributes holds
// user supplied string attributes.
type Message struct {
	MessageId         string
	Body              string
	Attributes        map[string]string
	MessageAttributes map[string]string
	SentAt            time.Time
}

// Attribute returns the trimmed value for key and whether it was non-empty.
func (m Message) Attribute(key string) (string, bool) {
	if m.Attributes == nil {
		return "", false
	}
	v := strings.TrimSpace(m.Attributes[key])
	return v, v != ""
}

// GroupID returns the FIFO group identifier, if any.
func (m Message) GroupID() string {
	v, _ := m.Attribute(GroupIDAttribute)
	return v
}

// CloneQueues copies a queue slice. A nil or empty input yields nil.
func CloneQueues(queues []Queue) []Queue {
	if len(queues) == 0 {
		return nil
	}
	dup := make([]Queue, len(queues))
	for i, q := range queues {
		dup[i] = q
		dup[i].Attributes = cloneMap(q.Attributes)
	}
	return dup
}

// CloneMessages copies a message slice. A nil or empty input yields nil.
func CloneMessages(messages []Message) []Message {
	if len(messages) == 0 {
		return nil
	}
	dup := make([]Message, len(messages))
	for i, m := range messages {
		dup[i] = m
		dup[i].Attributes = cloneMap(m.Attributes)
		dup[i].MessageAttributes = cloneMap(m.MessageAttributes)
	}
	return dup
}

func cloneMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
