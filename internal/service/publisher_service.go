package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-research-safety-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// AuditTopic is the in-process bus topic carrying safety audit events.
const AuditTopic = "SAFETY_AUDIT"

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

// auditEnvelope is the wire form of an event on the in-process bus.
type auditEnvelope struct {
	EventType  string                 `json:"event_type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (s *publisherService) Publish(_ context.Context, event events.Event) error {
	envelope := auditEnvelope{
		EventType:  event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return s.pubSub.Publish(s.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
