package action

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
)

const (
	// MaxQueueNameLength includes the FIFO suffix.
	MaxQueueNameLength = 80
	// MaxDelaySeconds is the largest per-message delay the service accepts.
	MaxDelaySeconds = 900
)

var queueNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	msgNoQueue        = "Could not send message to non-existent queue"
	msgMissingGroupID = "You need to set a MessageGroupId when sending messages to a FIFO queue"
)

// ValidateSend runs the pre-flight checks for a send. A nil error means the
// message may be dispatched.
func ValidateSend(queue *sqs.Queue, msg sqs.Message) error {
	if queue == nil || strings.TrimSpace(queue.QueueUrl) == "" {
		return invalid(ReasonNoQueue, msgNoQueue)
	}
	if queue.IsFIFO() && msg.GroupID() == "" {
		return invalid(ReasonMissingGroupID, msgMissingGroupID)
	}
	if msg.Body == "" {
		return invalid(ReasonEmptyBody, "Message body must not be empty")
	}
	if raw, ok := msg.Attribute(sqs.DelayAttribute); ok {
		if _, err := ParseDelay(raw); err != nil {
			return err
		}
	}
	return nil
}

// ParseDelay parses a delay in whole seconds within 0..MaxDelaySeconds.
// Blank input means no delay.
func ParseDelay(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > MaxDelaySeconds {
		return 0, invalid(ReasonInvalidDelay, "Delay must be a whole number of seconds between 0 and %d", MaxDelaySeconds)
	}
	return n, nil
}

// ParseAttributes parses "key=value,key2=value2" into a map. Blank input
// yields nil.
func ParseAttributes(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, invalid(ReasonInvalidAttributes, "Attribute %q must look like key=value", part)
		}
		if _, dup := out[key]; dup {
			return nil, invalid(ReasonInvalidAttributes, "Attribute %q given more than once", key)
		}
		out[key] = strings.TrimSpace(value)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// ValidateQueueName checks a new queue name against the naming rules and the
// queues already listed.
func ValidateQueueName(name string, existing []sqs.Queue) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(ReasonInvalidQueueName, "Queue name is required")
	}
	if len(name) > MaxQueueNameLength {
		return invalid(ReasonInvalidQueueName, "Queue name must be at most %d characters", MaxQueueNameLength)
	}
	base := strings.TrimSuffix(name, sqs.FIFOSuffix)
	if !queueNamePattern.MatchString(base) {
		return invalid(ReasonInvalidQueueName, "Queue name may only contain letters, digits, '-' and '_' (plus an optional %s suffix)", sqs.FIFOSuffix)
	}
	for _, q := range existing {
		if q.Label() == name {
			return invalid(ReasonDuplicateQueue, "Queue %s already exists", name)
		}
	}
	return nil
}

// reasonOf extracts the validation reason for metrics.
func reasonOf(err error) string {
	if v, ok := err.(*ValidationError); ok {
		return string(v.Reason)
	}
	return fmt.Sprintf("%T", err)
}
