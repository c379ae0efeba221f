package action

import (
	"errors"
	"testing"

	"github.com/atomicstack/sqs-admin-tui/internal/metrics"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/atomicstack/sqs-admin-tui/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okMsg struct{ resp sqs.Response }

type errMsg struct{ err error }

func continuations() (OnSuccess, OnError) {
	return func(r sqs.Response) tea.Msg { return okMsg{resp: r} },
		func(err error) tea.Msg { return errMsg{err: err} }
}

func TestDispatcherListQueuesSuccess(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	fake.SetQueues("a", "b")
	d := NewDispatcher(fake)
	ok, fail := continuations()

	msg := d.ListQueues(ok, fail)()
	got, isOK := msg.(okMsg)
	require.True(t, isOK, "unexpected %T", msg)
	assert.Len(t, got.resp.Queues, 2)
	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, sqs.MethodGet, calls[0].Request.Method)
}

func TestDispatcherFailureWrapsRemoteError(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	fake.FailNext(sqs.ActionPurgeQueue, errors.New("AccessDenied: nope"))
	rec := metrics.New()
	d := NewDispatcher(fake, WithMetrics(rec))
	ok, fail := continuations()

	msg := d.PurgeQueue(testutil.QueueFor("a"), ok, fail)()
	got, isErr := msg.(errMsg)
	require.True(t, isErr, "unexpected %T", msg)
	var remote *RemoteError
	require.ErrorAs(t, got.err, &remote)
	assert.Equal(t, OpPurgeQueue, remote.Op)
	assert.Equal(t, "Failed to purge queue: AccessDenied: nope", got.err.Error())
	assert.Equal(t, 1, fake.Count(sqs.ActionPurgeQueue), "no retries")
	assert.Equal(t, 1, mustGatherCount(t, rec))
}

func TestDispatcherSendValidationSkipsTransport(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	fake.SetQueues("A", "B.fifo")
	d := NewDispatcher(fake)
	ok, fail := continuations()
	q := testutil.QueueFor("B.fifo")

	msg := d.SendMessage(&q, sqs.Message{Body: "hello"}, ok, fail)()
	got, isErr := msg.(errMsg)
	require.True(t, isErr)
	assert.True(t, IsValidation(got.err))
	assert.Empty(t, fake.Calls())

	msg = d.SendMessage(nil, sqs.Message{Body: "hello"}, ok, fail)()
	got = msg.(errMsg)
	assert.Equal(t, msgNoQueue, got.err.Error())
	assert.Empty(t, fake.Calls())
}

func TestDispatcherSendAddsDeduplicationIDForFIFO(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	fake.SetQueues("B.fifo", "plain")
	d := NewDispatcher(fake, WithIDGenerator(func() string { return "dedup-1" }))
	ok, fail := continuations()

	fifo := testutil.QueueFor("B.fifo")
	attrs := map[string]string{sqs.GroupIDAttribute: "g"}
	_, isOK := d.SendMessage(&fifo, sqs.Message{Body: "x", Attributes: attrs}, ok, fail)().(okMsg)
	require.True(t, isOK)
	_, present := attrs[sqs.DeduplicationIDAttribute]
	assert.False(t, present, "caller attributes must not be mutated")

	plain := testutil.QueueFor("plain")
	_, isOK = d.SendMessage(&plain, sqs.Message{Body: "y"}, ok, fail)().(okMsg)
	require.True(t, isOK)

	sends := fake.CallsFor(sqs.ActionSendMessage)
	require.Len(t, sends, 2)
	assert.Equal(t, "dedup-1", sends[0].Request.Message.Attributes[sqs.DeduplicationIDAttribute])
	assert.Empty(t, sends[1].Request.Message.Attributes[sqs.DeduplicationIDAttribute])
}

func TestDispatcherKeepsExplicitDeduplicationID(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	fake.SetQueues("B.fifo")
	d := NewDispatcher(fake, WithIDGenerator(func() string { return "generated" }))
	ok, fail := continuations()
	q := testutil.QueueFor("B.fifo")

	msg := sqs.Message{Body: "x", Attributes: map[string]string{
		sqs.GroupIDAttribute:         "g",
		sqs.DeduplicationIDAttribute: "mine",
	}}
	d.SendMessage(&q, msg, ok, fail)()
	sends := fake.CallsFor(sqs.ActionSendMessage)
	require.Len(t, sends, 1)
	assert.Equal(t, "mine", sends[0].Request.Message.Attributes[sqs.DeduplicationIDAttribute])
}

func TestDispatcherNilContinuations(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	d := NewDispatcher(fake)
	assert.Nil(t, d.CreateQueue(sqs.Queue{QueueName: "a"}, nil, nil)())
	fake.FailNext(sqs.ActionListQueues, errors.New("x"))
	assert.Nil(t, d.ListQueues(nil, nil)())
}

func TestDispatcherEachActionIssuesOneCall(t *testing.T) {
	fake := testutil.NewFakeTransport(nil)
	fake.SetQueues("a")
	d := NewDispatcher(fake)
	ok, fail := continuations()
	q := testutil.QueueFor("a")

	cmds := []tea.Cmd{
		d.ListQueues(ok, fail),
		d.CreateQueue(sqs.Queue{QueueName: "b"}, ok, fail),
		d.GetMessages(q, ok, fail),
		d.SendMessage(&q, sqs.Message{Body: "x"}, ok, fail),
		d.PurgeQueue(q, ok, fail),
		d.DeleteQueue(q, ok, fail),
	}
	assert.Empty(t, fake.Calls(), "commands are lazy")
	for i, cmd := range cmds {
		_, isOK := cmd().(okMsg)
		require.True(t, isOK, "command %d failed", i)
		assert.Len(t, fake.Calls(), i+1)
	}
}

func mustGatherCount(t *testing.T, rec *metrics.Recorder) int {
	t.Helper()
	n, err := promtest.GatherAndCount(rec.Registry(), "sqs_admin_remote_calls_total")
	require.NoError(t, err)
	return n
}
