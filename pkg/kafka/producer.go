// Package kafka publishes run events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
)

// Event is the unit of data published to Kafka. Key is used for partition
// hashing and Value is JSON-serialised.
type Event struct {
	Key   string
	Value any
}

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON-encoded events.
type Producer struct {
	writer MessageWriter
	logger *slog.Logger
}

// NewProducer creates a Producer for cfg.Topic.
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	return NewProducerWithWriter(w, cfg.Topic)
}

func NewProducerWithWriter(w MessageWriter, topic string) *Producer {
	return &Producer{
		writer: w,
		logger: slog.Default().With("component", "kafka-producer", "topic", topic),
	}
}

// PublishBatch writes the events in a single call, so a run lands on the
// topic all at once or not at all from the writer's point of view.
func (p *Producer) PublishBatch(ctx context.Context, events []Event) error {
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event.Value)
		if err != nil {
			return fmt.Errorf("marshaling event %s: %w", event.Key, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.Key),
			Value: value,
		})
	}
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.logger.Error("failed to publish batch",
			"count", len(messages),
			"error", err,
		)
		return fmt.Errorf("publishing batch to kafka: %w", err)
	}
	p.logger.Debug("batch published", "count", len(messages))
	return nil
}

// Close flushes pending writes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
