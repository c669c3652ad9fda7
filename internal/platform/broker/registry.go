package broker

import (
	"context"

	"stolikiApi/internal/modules/realtime/application/port"
	"stolikiApi/internal/modules/realtime/domain"
)

// HandlerRegistry routes consumed messages to the handler registered for
// their topic. Messages without a handler are dropped silently.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if h, ok := r.handlers[msg.Topic]; ok {
		return h.Handle(ctx, msg)
	}
	return nil
}
