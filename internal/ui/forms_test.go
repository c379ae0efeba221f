package ui

import (
	"testing"

	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQueueFormBuildsFIFOQueue(t *testing.T) {
	form := newCreateQueueForm(nil)
	form.Update(key("events.fifo"))
	form.Update(key("tab"))
	form.Update(key(" "))
	_, done, cancel := form.Update(key("enter"))

	require.True(t, done)
	assert.False(t, cancel)
	q := form.Queue()
	assert.Equal(t, "events.fifo", q.QueueName)
	assert.Equal(t, "true", q.Attributes[sqs.ContentBasedDeduplicationAttribute])
}

func TestCreateQueueFormIgnoresDedupForStandardQueue(t *testing.T) {
	form := newCreateQueueForm(nil)
	form.Update(key("events"))
	form.Update(key("tab"))
	form.Update(key(" "))

	assert.True(t, form.Dedup())
	assert.Nil(t, form.Queue().Attributes)
}

func TestCreateQueueFormValidatesAsYouType(t *testing.T) {
	form := newCreateQueueForm([]sqs.Queue{{QueueName: "taken"}})

	form.Update(key("bad name"))
	assert.NotEmpty(t, form.Error())

	form.Update(key("ctrl+u"))
	assert.Empty(t, form.Error())

	_, done, _ := form.Update(key("enter"))
	assert.False(t, done, "empty name is rejected")
	assert.Equal(t, "Queue name is required", form.Error())

	form.Update(key("taken"))
	_, done, _ = form.Update(key("enter"))
	assert.False(t, done)
	assert.Contains(t, form.Error(), "already exists")
}

func TestCreateQueueFormCancel(t *testing.T) {
	form := newCreateQueueForm(nil)
	_, done, cancel := form.Update(key("esc"))
	assert.False(t, done)
	assert.True(t, cancel)
}

func TestSendMessageFormMessage(t *testing.T) {
	form := newSendMessageForm(sqs.Queue{QueueName: "q"})
	form.Update(key("body"))
	form.Update(key("tab"))
	form.Update(key("grp"))
	form.Update(key("tab"))
	form.Update(key("dedup"))
	form.Update(key("tab"))
	form.Update(key("30"))
	form.Update(key("tab"))
	form.Update(key("a=1, b = 2"))

	msg, err := form.Message()
	require.NoError(t, err)
	assert.Equal(t, "body", msg.Body)
	assert.Equal(t, map[string]string{
		sqs.GroupIDAttribute:         "grp",
		sqs.DeduplicationIDAttribute: "dedup",
		sqs.DelayAttribute:           "30",
	}, msg.Attributes)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, msg.MessageAttributes)
}

func TestSendMessageFormFocusWraps(t *testing.T) {
	form := newSendMessageForm(sqs.Queue{})
	form.Update(key("up"))
	assert.Equal(t, sendFieldAttributes, form.Focused())
	form.Update(key("down"))
	assert.Equal(t, sendFieldBody, form.Focused())

	for i := 0; i < sendFieldCount-1; i++ {
		_, done, _ := form.Update(key("enter"))
		assert.False(t, done, "enter advances field %d", i)
	}
	_, done, _ := form.Update(key("enter"))
	assert.True(t, done)
}

func TestSendMessageFormRejectsBadAttributes(t *testing.T) {
	form := newSendMessageForm(sqs.Queue{})
	form.Update(key("x"))
	form.Update(key("up"))
	form.Update(key("novalue"))

	_, done, _ := form.Update(key("enter"))
	assert.False(t, done)
	assert.Contains(t, form.Error(), "key=value")
}
