package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProducerAPI is the minimal producer surface the services depend on.
type ProducerAPI interface {
	Publish(topic string, message []byte) error
	Close() error
}

// Producer publishes lifecycle events to Kafka.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers and default topic.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	// Topic is set per message so one writer can serve every event stream.
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	logger.Info("Kafka producer initialized", zap.String("topic", topic), zap.Strings("brokers", brokers))
	return &Producer{writer: w, topic: topic, logger: logger}
}

// Publish writes a raw message to the given topic.
func (p *Producer) Publish(topic string, message []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Value: message,
	}
	return p.writer.WriteMessages(context.Background(), msg)
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	p.logger.Info("Closing Kafka producer", zap.String("topic", p.topic))
	return p.writer.Close()
}
