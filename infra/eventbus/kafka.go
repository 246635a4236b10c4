// Package eventbus provides Publisher implementations: an in-memory one for
// tests and a Kafka-backed one for deployments.
package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/sgbank/account-ledger/pkg/eventbus"
)

// KafkaPublisher writes JSON-encoded events to Kafka, one topic per event
// kind.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers. Topics are
// auto-created on first write.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger.With("bus", "kafka"),
	}
}

// Publish implements eventbus.Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: data,
	})
	if err != nil {
		p.logger.Error("write failed", "topic", topic, "error", err)
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ eventbus.Publisher = (*KafkaPublisher)(nil)
