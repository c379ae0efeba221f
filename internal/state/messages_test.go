package state

import (
	"testing"

	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/stretchr/testify/assert"
)

func TestMessageFeedReplaceIsWholesale(t *testing.T) {
	f := NewMessageFeed()
	f.Replace("q1", []sqs.Message{{MessageId: "1"}, {MessageId: "2"}})
	f.Replace("q1", []sqs.Message{{MessageId: "3"}})
	msgs := f.Messages()
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, "3", msgs[0].MessageId)
	}
	assert.Equal(t, "q1", f.QueueURL())
}

func TestMessageFeedReplaceWithSameResponseIsValueEqual(t *testing.T) {
	f := NewMessageFeed()
	payload := []sqs.Message{{MessageId: "1", Body: "a", Attributes: map[string]string{"k": "v"}}}
	f.Replace("q1", payload)
	first := f.Messages()
	f.Replace("q1", payload)
	assert.Equal(t, first, f.Messages())
}

func TestMessageFeedClear(t *testing.T) {
	f := NewMessageFeed()
	f.Replace("q1", []sqs.Message{{MessageId: "1"}})
	f.Clear()
	assert.Empty(t, f.Messages())
	assert.Equal(t, 0, f.Len())
}

func TestErrorSurfaceSingleSlot(t *testing.T) {
	e := NewErrorSurface()
	assert.False(t, e.Active())
	e.Set("first")
	e.Set("second")
	assert.Equal(t, "second", e.Current())
	e.Set("   ")
	assert.Equal(t, "second", e.Current(), "blank errors are ignored")
	e.Dismiss()
	assert.False(t, e.Active())
	assert.Equal(t, "", e.Current())
}
