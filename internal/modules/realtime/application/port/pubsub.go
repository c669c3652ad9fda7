package port

import (
	"context"

	"stolikiApi/internal/modules/realtime/domain"
)

// Broadcaster delivers messages to connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles broker messages for one topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
