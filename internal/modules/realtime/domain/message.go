package domain

import (
	"strings"
	"time"
)

// Message is the event envelope travelling from the broker to connected
// back-office dashboards.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

const (
	SystemEntity = "system"

	TopicSystemConnected = SystemEntity + ".connected"

	ActionConnected     = "connected"
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"

	ReservationsEntity = "reservations"
)

// EntityTopic returns the canonical "<entity>.<action>" topic, or empty
// when either part is blank.
func EntityTopic(entity, action string) string {
	entity = strings.TrimSpace(entity)
	action = strings.TrimSpace(action)
	if entity == "" || action == "" {
		return ""
	}
	return entity + "." + action
}
