package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-research-safety-be/internal/pkg/logger"
	"ai-research-safety-be/pkg/events"
	pktNats "ai-research-safety-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IAuditService interface {
	Consume(ctx context.Context) error
}

// auditService drains the in-process audit topic into the isolated audit log
// and, when NATS is configured, fans the event out for external consumers.
type auditService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	auditLogger logger.ILogger
	natsPub     *pktNats.Publisher // nil: fan-out disabled
}

func NewAuditService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditLogger logger.ILogger,
	natsPub *pktNats.Publisher,
) IAuditService {
	return &auditService{
		pubSub:      pubSub,
		topicName:   topicName,
		auditLogger: auditLogger,
		natsPub:     natsPub,
	}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope auditEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal audit message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.auditLogger.Warn("audit", envelope.EventType, envelope.Payload)

	if s.natsPub != nil {
		evt := events.BaseEvent{
			Type:       envelope.EventType,
			Data:       envelope.Payload,
			OccurredAt: envelope.OccurredAt,
		}
		if err := s.natsPub.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to fan out audit event to NATS: %v", err)
		}
	}

	msg.Ack()
}
