package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"stolikiApi/internal/modules/realtime/domain"
)

// Hub fans broker messages out to connected dashboard clients. Clients
// either follow specific topics or, for the notifications feed, receive
// everything.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	global map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		global: make(map[*Client]struct{}),
	}
}

// AttachToAll registers a client for every broadcasted message.
func (h *Hub) AttachToAll(c *Client) {
	h.mu.Lock()
	h.global[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("ws client attached", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
}

// Subscribe registers a client for a single topic.
func (h *Hub) Subscribe(c *Client, topic string) {
	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	delete(h.global, c)
	h.mu.Unlock()
	c.close()
	slog.Info("ws client detached", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
}

// Broadcast delivers the message to topic subscribers and every global
// client. Slow clients are detached rather than allowed to stall the hub.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.topics[msg.Topic])+len(h.global))
	seen := make(map[*Client]struct{})
	for c := range h.topics[msg.Topic] {
		targets = append(targets, c)
		seen[c] = struct{}{}
	}
	for c := range h.global {
		if _, ok := seen[c]; !ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.send(data)
	}
}
