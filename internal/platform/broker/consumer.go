package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"stolikiApi/internal/modules/realtime/domain"
)

// KafkaConsumer reads one topic and hands decoded messages to a handler.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

func (c *KafkaConsumer) Close() error { return c.reader.Close() }

func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Message) error) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			continue
		}
		msg := decodeMessage(m)
		slog.Debug("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", m.Topic), slog.Any("error", err))
		}
	}
}

type rawEvent struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       any               `json:"data"`
}

func decodeMessage(m kafka.Message) *domain.Message {
	msg := &domain.Message{Topic: m.Topic, Timestamp: time.Now().UTC()}

	var event rawEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		// Not our envelope; pass the raw payload through untouched.
		msg.Data = string(m.Value)
		return msg
	}

	msg.Entity = event.Entity
	msg.Action = event.Action
	msg.ResourceID = event.ResourceID
	msg.Metadata = event.Metadata
	msg.Data = event.Data
	if event.Topic != "" {
		msg.Topic = event.Topic
	} else if topic := domain.EntityTopic(event.Entity, event.Action); topic != "" {
		msg.Topic = topic
	}
	return msg
}

// StartConsumers launches one consumer goroutine per topic, dispatching
// into the registry until ctx is cancelled.
func StartConsumers(ctx context.Context, registry *HandlerRegistry, brokers []string, groupID string, topics []string) {
	for _, topic := range topics {
		consumer := NewKafkaConsumer(brokers, groupID, topic)
		go func(topic string, consumer *KafkaConsumer) {
			defer consumer.Close()
			slog.Info("kafka consumer started", slog.String("topic", topic), slog.Any("brokers", brokers))
			err := consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("kafka consumer stopped", slog.String("topic", topic), slog.Any("error", err))
			}
		}(topic, consumer)
	}
}
