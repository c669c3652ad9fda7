package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"stolikiApi/internal/modules/booking/application/port"
)

// KafkaPublisher emits reservation lifecycle events. It satisfies the
// booking module's EventPublisher port; callers treat publish failures as
// non-fatal.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event port.ReservationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode reservation event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: event.Topic,
		Key:   []byte(event.ResourceID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("write reservation event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
