package handler

import (
	"context"

	"stolikiApi/internal/modules/realtime/application/port"
	"stolikiApi/internal/modules/realtime/domain"
)

// ReservationStreamHandler forwards reservation lifecycle events from the
// broker into the websocket hub.
type ReservationStreamHandler struct {
	topic       string
	broadcaster port.Broadcaster
}

func NewReservationStreamHandler(topic string, broadcaster port.Broadcaster) *ReservationStreamHandler {
	return &ReservationStreamHandler{topic: topic, broadcaster: broadcaster}
}

func (h *ReservationStreamHandler) Topic() string { return h.topic }

func (h *ReservationStreamHandler) Handle(ctx context.Context, msg *domain.Message) error {
	h.broadcaster.Broadcast(ctx, msg)
	return nil
}
