package services

import (
	"context"
	"encoding/json"

	"order-care-service/kafka"
	awspkg "order-care-service/pkg/aws"

	"go.uber.org/zap"
)

// EventPublisher fans lifecycle events out to Kafka, with a best-effort SNS
// mirror. Publish failures are logged and never fail the request. A nil
// *EventPublisher is a no-op, which keeps service tests free of transport
// concerns.
type EventPublisher struct {
	producer    kafka.ProducerAPI
	topic       string
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewEventPublisher creates an EventPublisher. producer and snsClient may be
// nil to disable the respective sink.
func NewEventPublisher(producer kafka.ProducerAPI, topic string, snsClient awspkg.SNSPublisher, snsTopicArn string, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{
		producer:    producer,
		topic:       topic,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// Publish serializes the event and sends it to every configured sink.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, event interface{}) {
	if p == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	if p.producer != nil {
		if err := p.producer.Publish(p.topic, data); err != nil {
			p.logger.Error("Kafka publish failed", zap.String("event_type", eventType), zap.Error(err))
		}
	}

	if p.snsClient != nil && p.snsTopicArn != "" {
		if err := p.snsClient.Publish(ctx, p.snsTopicArn, data); err != nil {
			p.logger.Warn("SNS publish failed", zap.String("event_type", eventType), zap.Error(err))
		}
	}
}
