// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"
)

// Readiness event types.
const (
	EventReadinessScored = "readiness.scored"
	EventPartnersMatched = "partners.matched"
)

// SNSAPI is the subset of the SNS client used by EventPublisher.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Event is the envelope published to the readiness topic.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	RequestID  string      `json:"requestId"`
	BusinessID string      `json:"businessId,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// EventPublisher publishes readiness events to a single SNS topic.
type EventPublisher struct {
	client   SNSAPI
	topicARN string
	now      func() time.Time
}

// NewEventPublisher loads the default AWS credential chain for region.
func NewEventPublisher(ctx context.Context, region, topicARN string) (*EventPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewEventPublisherWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

func NewEventPublisherWithClient(client SNSAPI, topicARN string) *EventPublisher {
	return &EventPublisher{client: client, topicARN: topicARN, now: time.Now}
}

// Publish wraps payload in an Event and sends it. The event ID is returned.
func (p *EventPublisher) Publish(ctx context.Context, eventType, requestID, businessID string, payload interface{}) (string, error) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RequestID:  requestID,
		BusinessID: businessID,
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Message:  awssdk.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(eventType),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return event.ID, nil
}
