package state

import "github.com/atomicstack/sqs-admin-tui/internal/sqs"

// MessageFeed holds the messages visible for a single queue.
type MessageFeed interface {
	Messages() []sqs.Message
	QueueURL() string
	Len() int
	Replace(queueURL string, messages []sqs.Message)
	Clear()
}

type messageFeed struct {
	queueURL string
	messages []sqs.Message
}

func NewMessageFeed() MessageFeed {
	return &messageFeed{}
}

func (f *messageFeed) Messages() []sqs.Message {
	return sqs.CloneMessages(f.messages)
}

func (f *messageFeed) QueueURL() string {
	return f.queueURL
}

func (f *messageFeed) Len() int {
	return len(f.messages)
}

func (f *messageFeed) Replace(queueURL string, messages []sqs.Message) {
	f.queueURL = queueURL
	f.messages = sqs.CloneMessages(messages)
}

// Clear empties the feed without touching the remote side.
func (f *messageFeed) Clear() {
	f.messages = nil
}
