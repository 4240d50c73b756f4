// Package kafka publishes outbox messages to Kafka with segmentio/kafka-go.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aqualink/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

const (
	headerEventName  = "event-name"
	headerMessageID  = "message-id"
	headerOccurredAt = "occurred-at"
)

type Config struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.MessagePublisher. Messages are keyed by aggregate id,
// so the hash balancer keeps every event of one order on one partition, in order.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(cfg Config) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		MaxAttempts:            5,
		ReadTimeout:            10 * time.Second,
		WriteTimeout:           10 * time.Second,
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{writer: w, topic: cfg.Topic}
}

func newPublisherWithWriter(w messageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.AggregateID.String()),
		Value: msg.Payload,
		Time:  msg.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventName, Value: []byte(msg.EventName)},
			{Key: headerMessageID, Value: []byte(msg.ID.String())},
			{Key: headerOccurredAt, Value: []byte(msg.OccurredAt.UTC().Format(time.RFC3339Nano))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write message to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Topic() string {
	return p.topic
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// LogPublisher stands in for Kafka when no brokers are configured. It logs each
// message and always succeeds.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	p.logger.InfoContext(ctx, "Domain event",
		"event", msg.EventName,
		"message_id", msg.ID.String(),
		"aggregate_id", msg.AggregateID.String(),
		"payload", string(msg.Payload))
	return nil
}
