package sqs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"
	"github.com/jonboulle/clockwork"
)

// API is the subset of the SQS client the console needs.
type API interface {
	ListQueues(ctx context.Context, params *awssqs.ListQueuesInput, optFns ...func(*awssqs.Options)) (*awssqs.ListQueuesOutput, error)
	CreateQueue(ctx context.Context, params *awssqs.CreateQueueInput, optFns ...func(*awssqs.Options)) (*awssqs.CreateQueueOutput, error)
	DeleteQueue(ctx context.Context, params *awssqs.DeleteQueueInput, optFns ...func(*awssqs.Options)) (*awssqs.DeleteQueueOutput, error)
	PurgeQueue(ctx context.Context, params *awssqs.PurgeQueueInput, optFns ...func(*awssqs.Options)) (*awssqs.PurgeQueueOutput, error)
	SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *awssqs.ReceiveMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *awssqs.GetQueueAttributesInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error)
}

// Options configures a Client.
type Options struct {
	Endpoint  string
	Region    string
	Profile   string
	AccessKey string
	SecretKey string

	MaxMessages       int32
	VisibilityTimeout int32
	RequestInterval   time.Duration

	Clock clockwork.Clock
}

const (
	defaultMaxMessages = 10
	stringDataType     = "String"
)

// Client implements Transport on top of the AWS SDK.
type Client struct {
	api               API
	maxMessages       int32
	visibilityTimeout int32
	throttle          *throttle
}

var _ Transport = (*Client)(nil)

// NewClient loads AWS configuration and builds a Client. The SDK retryer is
// disabled: a failed call surfaces immediately and the user re-triggers it.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if region := strings.TrimSpace(opts.Region); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if profile := strings.TrimSpace(opts.Profile); profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	api := awssqs.NewFromConfig(cfg, func(o *awssqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewClientWithAPI(api, opts), nil
}

// NewClientWithAPI wraps an existing API implementation.
func NewClientWithAPI(api API, opts Options) *Client {
	maxMessages := opts.MaxMessages
	if maxMessages <= 0 || maxMessages > defaultMaxMessages {
		maxMessages = defaultMaxMessages
	}
	visibility := opts.VisibilityTimeout
	if visibility < 0 {
		visibility = 0
	}
	return &Client{
		api:               api,
		maxMessages:       maxMessages,
		visibilityTimeout: visibility,
		throttle:          newThrottle(opts.Clock, opts.RequestInterval),
	}
}

// Call performs the remote operation described by req.
func (c *Client) Call(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	if err := c.throttle.wait(ctx); err != nil {
		return Response{}, err
	}
	var (
		resp Response
		err  error
	)
	switch req.Action {
	case ActionListQueues:
		resp.Queues, err = c.listQueues(ctx)
	case ActionCreateQueue:
		err = c.createQueue(ctx, *req.Queue)
	case ActionDeleteQueue:
		_, err = c.api.DeleteQueue(ctx, &awssqs.DeleteQueueInput{QueueUrl: aws.String(req.Queue.QueueUrl)})
	case ActionPurgeQueue:
		_, err = c.api.PurgeQueue(ctx, &awssqs.PurgeQueueInput{QueueUrl: aws.String(req.Queue.QueueUrl)})
	case ActionSendMessage:
		err = c.sendMessage(ctx, *req.Queue, *req.Message)
	case ActionGetMessages:
		resp.Messages, err = c.receiveMessages(ctx, *req.Queue)
	}
	if err != nil {
		return Response{}, wrapCallError(req.Action, err)
	}
	return resp, nil
}

func (c *Client) listQueues(ctx context.Context) ([]Queue, error) {
	paginator := awssqs.NewListQueuesPaginator(c.api, &awssqs.ListQueuesInput{})
	queues := []Queue{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, queueURL := range page.QueueUrls {
			queue := Queue{QueueUrl: queueURL, QueueName: QueueNameFromURL(queueURL)}
			if queue.IsFIFO() {
				attrs, err := c.fifoAttributes(ctx, queueURL)
				var gone *types.QueueDoesNotExist
				if errors.As(err, &gone) {
					continue
				}
				if err != nil {
					return nil, err
				}
				queue.Attributes = attrs
			}
			queues = append(queues, queue)
		}
	}
	return queues, nil
}

// fifoAttributes reads the settings a FIFO send depends on. A queue deleted
// between the listing and this call is reported as QueueDoesNotExist.
func (c *Client) fifoAttributes(ctx context.Context, queueURL string) (map[string]string, error) {
	out, err := c.api.GetQueueAttributes(ctx, &awssqs.GetQueueAttributesInput{
		QueueUrl: aws.String(queueURL),
		AttributeNames: []types.QueueAttributeName{
			types.QueueAttributeNameFifoQueue,
			types.QueueAttributeNameContentBasedDeduplication,
		},
	})
	if err != nil {
		return nil, err
	}
	return cloneMap(out.Attributes), nil
}

func (c *Client) createQueue(ctx context.Context, queue Queue) error {
	attrs := cloneMap(queue.Attributes)
	if queue.IsFIFO() {
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrs[FifoQueueAttribute] = "true"
	}
	_, err := c.api.CreateQueue(ctx, &awssqs.CreateQueueInput{
		QueueName:  aws.String(strings.TrimSpace(queue.QueueName)),
		Attributes: attrs,
	})
	return err
}

func (c *Client) sendMessage(ctx context.Context, queue Queue, msg Message) error {
	input, err := sendMessageInput(queue, msg)
	if err != nil {
		return err
	}
	_, err = c.api.SendMessage(ctx, input)
	return err
}

func sendMessageInput(queue Queue, msg Message) (*awssqs.SendMessageInput, error) {
	input := &awssqs.SendMessageInput{
		QueueUrl:    aws.String(queue.QueueUrl),
		MessageBody: aws.String(msg.Body),
	}
	if groupID, ok := msg.Attribute(GroupIDAttribute); ok {
		input.MessageGroupId = aws.String(groupID)
	}
	if dedupID, ok := msg.Attribute(DeduplicationIDAttribute); ok {
		input.MessageDeduplicationId = aws.String(dedupID)
	}
	if delay, ok := msg.Attribute(DelayAttribute); ok {
		n, err := strconv.ParseInt(delay, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", DelayAttribute, delay, err)
		}
		input.DelaySeconds = int32(n)
	}
	if len(msg.MessageAttributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.MessageAttributes))
		for k, v := range msg.MessageAttributes {
			input.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    aws.String(stringDataType),
				StringValue: aws.String(v),
			}
		}
	}
	return input, nil
}

func (c *Client) receiveMessages(ctx context.Context, queue Queue) ([]Message, error) {
	out, err := c.api.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:              aws.String(queue.QueueUrl),
		MaxNumberOfMessages:   c.maxMessages,
		VisibilityTimeout:     c.visibilityTimeout,
		AttributeNames:        []types.QueueAttributeName{types.QueueAttributeNameAll},
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, messageFromAPI(m))
	}
	return messages, nil
}

func messageFromAPI(m types.Message) Message {
	msg := Message{
		MessageId:  aws.ToString(m.MessageId),
		Body:       aws.ToString(m.Body),
		Attributes: cloneMap(m.Attributes),
	}
	if len(m.MessageAttributes) > 0 {
		msg.MessageAttributes = make(map[string]string, len(m.MessageAttributes))
		for k, v := range m.MessageAttributes {
			msg.MessageAttributes[k] = attributeValueString(v)
		}
	}
	if ts, ok := msg.Attribute(SentTimestampAttribute); ok {
		if millis, err := strconv.ParseInt(ts, 10, 64); err == nil {
			msg.SentAt = time.UnixMilli(millis).UTC()
		}
	}
	return msg
}

func attributeValueString(v types.MessageAttributeValue) string {
	if v.StringValue != nil {
		return *v.StringValue
	}
	if len(v.BinaryValue) > 0 {
		return base64.StdEncoding.EncodeToString(v.BinaryValue)
	}
	return ""
}

// CallError annotates a failed remote call with the action that issued it.
type CallError struct {
	Action  Action
	Code    string
	Message string
	Err     error
}

func (e *CallError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Code != "":
		return e.Code
	default:
		return e.Err.Error()
	}
}

func (e *CallError) Unwrap() error { return e.Err }

func wrapCallError(action Action, err error) error {
	ce := &CallError{Action: action, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		ce.Code = apiErr.ErrorCode()
		ce.Message = apiErr.ErrorMessage()
	}
	return ce
}
