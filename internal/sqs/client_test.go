package sqs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pages    []*awssqs.ListQueuesOutput
	received *awssqs.ReceiveMessageOutput
	err      error

	queueAttrs map[string]map[string]string
	attrErrs   map[string]error
	attrCalls  []*awssqs.GetQueueAttributesInput

	listCalls   int
	created     *awssqs.CreateQueueInput
	deleted     *awssqs.DeleteQueueInput
	purged      *awssqs.PurgeQueueInput
	sent        *awssqs.SendMessageInput
	receiveArgs *awssqs.ReceiveMessageInput
}

func (f *fakeAPI) ListQueues(_ context.Context, in *awssqs.ListQueuesInput, _ ...func(*awssqs.Options)) (*awssqs.ListQueuesOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	idx := f.listCalls
	f.listCalls++
	if idx >= len(f.pages) {
		return &awssqs.ListQueuesOutput{}, nil
	}
	return f.pages[idx], nil
}

func (f *fakeAPI) CreateQueue(_ context.Context, in *awssqs.CreateQueueInput, _ ...func(*awssqs.Options)) (*awssqs.CreateQueueOutput, error) {
	f.created = in
	return &awssqs.CreateQueueOutput{}, f.err
}

func (f *fakeAPI) DeleteQueue(_ context.Context, in *awssqs.DeleteQueueInput, _ ...func(*awssqs.Options)) (*awssqs.DeleteQueueOutput, error) {
	f.deleted = in
	return &awssqs.DeleteQueueOutput{}, f.err
}

func (f *fakeAPI) PurgeQueue(_ context.Context, in *awssqs.PurgeQueueInput, _ ...func(*awssqs.Options)) (*awssqs.PurgeQueueOutput, error) {
	f.purged = in
	return &awssqs.PurgeQueueOutput{}, f.err
}

func (f *fakeAPI) SendMessage(_ context.Context, in *awssqs.SendMessageInput, _ ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	f.sent = in
	return &awssqs.SendMessageOutput{}, f.err
}

func (f *fakeAPI) ReceiveMessage(_ context.Context, in *awssqs.ReceiveMessageInput, _ ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error) {
	f.receiveArgs = in
	if f.err != nil {
		return nil, f.err
	}
	if f.received == nil {
		return &awssqs.ReceiveMessageOutput{}, nil
	}
	return f.received, nil
}

func (f *fakeAPI) GetQueueAttributes(_ context.Context, in *awssqs.GetQueueAttributesInput, _ ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error) {
	f.attrCalls = append(f.attrCalls, in)
	url := aws.ToString(in.QueueUrl)
	if err := f.attrErrs[url]; err != nil {
		return nil, err
	}
	return &awssqs.GetQueueAttributesOutput{Attributes: f.queueAttrs[url]}, nil
}

func TestListQueuesFollowsPagination(t *testing.T) {
	api := &fakeAPI{pages: []*awssqs.ListQueuesOutput{
		{QueueUrls: []string{"http://localhost:4566/000000000000/alpha"}, NextToken: aws.String("next")},
		{QueueUrls: []string{"http://localhost:4566/000000000000/beta.fifo"}},
	}}
	client := NewClientWithAPI(api, Options{})

	resp, err := client.Call(context.Background(), NewRequest(ActionListQueues, nil, nil))
	require.NoError(t, err)
	require.Len(t, resp.Queues, 2)
	assert.Equal(t, "alpha", resp.Queues[0].QueueName)
	assert.Equal(t, "beta.fifo", resp.Queues[1].QueueName)
	assert.True(t, resp.Queues[1].IsFIFO())
	assert.Equal(t, 2, api.listCalls)
}

func TestListQueuesReadsFIFOAttributes(t *testing.T) {
	const (
		standardURL = "http://localhost:4566/000000000000/alpha"
		fifoURL     = "http://localhost:4566/000000000000/orders.fifo"
	)
	api := &fakeAPI{
		pages: []*awssqs.ListQueuesOutput{{QueueUrls: []string{standardURL, fifoURL}}},
		queueAttrs: map[string]map[string]string{fifoURL: {
			FifoQueueAttribute:                 "true",
			ContentBasedDeduplicationAttribute: "true",
		}},
	}
	client := NewClientWithAPI(api, Options{})

	resp, err := client.Call(context.Background(), NewRequest(ActionListQueues, nil, nil))
	require.NoError(t, err)
	require.Len(t, resp.Queues, 2)
	assert.Nil(t, resp.Queues[0].Attributes)
	assert.Equal(t, "true", resp.Queues[1].Attributes[ContentBasedDeduplicationAttribute])
	require.Len(t, api.attrCalls, 1, "only FIFO queues are inspected")
	assert.Equal(t, fifoURL, aws.ToString(api.attrCalls[0].QueueUrl))
	assert.ElementsMatch(t, []types.QueueAttributeName{
		types.QueueAttributeNameFifoQueue,
		types.QueueAttributeNameContentBasedDeduplication,
	}, api.attrCalls[0].AttributeNames)
}

func TestListQueuesSkipsFIFOQueueDeletedMidListing(t *testing.T) {
	const (
		goneURL = "http://localhost:4566/000000000000/gone.fifo"
		keptURL = "http://localhost:4566/000000000000/kept"
	)
	api := &fakeAPI{
		pages:    []*awssqs.ListQueuesOutput{{QueueUrls: []string{goneURL, keptURL}}},
		attrErrs: map[string]error{goneURL: &types.QueueDoesNotExist{Message: aws.String("gone")}},
	}
	client := NewClientWithAPI(api, Options{})

	resp, err := client.Call(context.Background(), NewRequest(ActionListQueues, nil, nil))
	require.NoError(t, err)
	require.Len(t, resp.Queues, 1)
	assert.Equal(t, "kept", resp.Queues[0].QueueName)
}

func TestListQueuesFailsOnFIFOAttributeError(t *testing.T) {
	const fifoURL = "http://localhost:4566/000000000000/orders.fifo"
	api := &fakeAPI{
		pages:    []*awssqs.ListQueuesOutput{{QueueUrls: []string{fifoURL}}},
		attrErrs: map[string]error{fifoURL: &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}},
	}
	client := NewClientWithAPI(api, Options{})

	_, err := client.Call(context.Background(), NewRequest(ActionListQueues, nil, nil))
	require.Error(t, err)
	assert.Equal(t, "AccessDenied: nope", err.Error())
}

func TestListQueuesEmptyReturnsEmptySequence(t *testing.T) {
	client := NewClientWithAPI(&fakeAPI{}, Options{})
	resp, err := client.Call(context.Background(), NewRequest(ActionListQueues, nil, nil))
	require.NoError(t, err)
	assert.NotNil(t, resp.Queues)
	assert.Empty(t, resp.Queues)
}

func TestCreateFIFOQueueSetsAttribute(t *testing.T) {
	api := &fakeAPI{}
	client := NewClientWithAPI(api, Options{})
	queue := &Queue{QueueName: "orders.fifo", Attributes: map[string]string{ContentBasedDeduplicationAttribute: "true"}}

	_, err := client.Call(context.Background(), NewRequest(ActionCreateQueue, queue, nil))
	require.NoError(t, err)
	require.NotNil(t, api.created)
	assert.Equal(t, "orders.fifo", aws.ToString(api.created.QueueName))
	assert.Equal(t, "true", api.created.Attributes[FifoQueueAttribute])
	assert.Equal(t, "true", api.created.Attributes[ContentBasedDeduplicationAttribute])
	assert.NotContains(t, queue.Attributes, FifoQueueAttribute, "caller attributes must not be mutated")
}

func TestSendMessageMapsAttributes(t *testing.T) {
	api := &fakeAPI{}
	client := NewClientWithAPI(api, Options{})
	queue := &Queue{QueueUrl: "http://q/orders.fifo", QueueName: "orders.fifo"}
	msg := &Message{
		Body: `{"id":1}`,
		Attributes: map[string]string{
			GroupIDAttribute:         "g1",
			DeduplicationIDAttribute: "d1",
			DelayAttribute:           "5",
		},
		MessageAttributes: map[string]string{"source": "console"},
	}

	_, err := client.Call(context.Background(), NewRequest(ActionSendMessage, queue, msg))
	require.NoError(t, err)
	require.NotNil(t, api.sent)
	assert.Equal(t, "g1", aws.ToString(api.sent.MessageGroupId))
	assert.Equal(t, "d1", aws.ToString(api.sent.MessageDeduplicationId))
	assert.Equal(t, int32(5), api.sent.DelaySeconds)
	assert.Equal(t, "console", aws.ToString(api.sent.MessageAttributes["source"].StringValue))
}

func TestReceiveMessagesConvertsPayload(t *testing.T) {
	sent := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeAPI{received: &awssqs.ReceiveMessageOutput{Messages: []types.Message{{
		MessageId: aws.String("m-1"),
		Body:      aws.String("hello"),
		Attributes: map[string]string{
			SentTimestampAttribute: "1767323045000",
		},
		MessageAttributes: map[string]types.MessageAttributeValue{
			"k": {DataType: aws.String("String"), StringValue: aws.String("v")},
		},
	}}}}
	client := NewClientWithAPI(api, Options{MaxMessages: 5, VisibilityTimeout: 2})

	resp, err := client.Call(context.Background(), NewRequest(ActionGetMessages, &Queue{QueueUrl: "http://q/a"}, nil))
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "m-1", resp.Messages[0].MessageId)
	assert.Equal(t, "v", resp.Messages[0].MessageAttributes["k"])
	assert.True(t, sent.Equal(resp.Messages[0].SentAt))
	assert.Equal(t, int32(5), api.receiveArgs.MaxNumberOfMessages)
	assert.Equal(t, int32(2), api.receiveArgs.VisibilityTimeout)
}

func TestCallWrapsAPIErrors(t *testing.T) {
	api := &fakeAPI{err: &smithy.GenericAPIError{Code: "AWS.SimpleQueueService.NonExistentQueue", Message: "The specified queue does not exist."}}
	client := NewClientWithAPI(api, Options{})

	_, err := client.Call(context.Background(), NewRequest(ActionPurgeQueue, &Queue{QueueUrl: "http://q/a"}, nil))
	require.Error(t, err)
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, ActionPurgeQueue, callErr.Action)
	assert.Equal(t, "AWS.SimpleQueueService.NonExistentQueue: The specified queue does not exist.", err.Error())
}

func TestCallRejectsInvalidRequests(t *testing.T) {
	api := &fakeAPI{}
	client := NewClientWithAPI(api, Options{})

	_, err := client.Call(context.Background(), NewRequest(ActionDeleteQueue, nil, nil))
	require.Error(t, err)
	assert.Nil(t, api.deleted)

	_, err = client.Call(context.Background(), NewRequest(ActionSendMessage, &Queue{QueueUrl: "http://q/a"}, nil))
	require.Error(t, err)
	assert.Nil(t, api.sent)
}

func TestQueueNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://sqs.eu-central-1.amazonaws.com/123456789012/orders", "orders"},
		{"http://localhost:4566/000000000000/jobs.fifo/", "jobs.fifo"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QueueNameFromURL(tt.in), tt.in)
	}
}

func TestNewRequestMethod(t *testing.T) {
	assert.Equal(t, MethodGet, NewRequest(ActionListQueues, nil, nil).Method)
	for _, action := range Actions()[1:] {
		assert.Equal(t, MethodPost, NewRequest(action, nil, nil).Method, string(action))
	}
}
