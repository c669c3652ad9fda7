package port

import (
	"context"
	"errors"

	bookingdomain "stolikiApi/internal/modules/booking/domain"
	remarked "stolikiApi/internal/modules/remarked/domain"
)

var ErrVenueNotFound = errors.New("venue not found")

// VenueStore resolves restaurants from persistence.
type VenueStore interface {
	FindByID(ctx context.Context, id string) (*bookingdomain.Venue, error)
	FindActive(ctx context.Context) ([]bookingdomain.Venue, error)
}

// ReservationProvider is the slice of the provider client the booking
// usecases consume.
type ReservationProvider interface {
	Token(ctx context.Context, pointID int, opts remarked.TokenOptions) (*remarked.TokenInfo, error)
	InvalidateToken(pointID int)
	DaysStates(ctx context.Context, token string, period remarked.Period, guests int) ([]remarked.DayState, error)
	Slots(ctx context.Context, token string, period remarked.Period, guests int, opts remarked.SlotOptions) ([]remarked.Slot, error)
	SendSMSCode(ctx context.Context, token, phone, uniqueID string) error
	CreateReserve(ctx context.Context, token string, data remarked.ReserveData, confirmCode, uniqueID string) (*remarked.ReserveResult, error)
	ReservesByPhone(ctx context.Context, token, phone string, guests int, filters remarked.ReserveFilters) (*remarked.ReserveList, error)
	ChangeReserveStatus(ctx context.Context, token string, reserveID int64, status, cancelReason string) error
	ReserveByID(ctx context.Context, token string, reserveID int64) (*remarked.Reserve, error)
	IsReserveRead(ctx context.Context, token string, reserveID int64) (bool, error)
	EventTags(ctx context.Context, token string) ([]remarked.EventTag, error)
}

// EventPublisher pushes reservation lifecycle events onto the broker.
// Publishing is best effort from the booking path's perspective.
type EventPublisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
}

// ReservationEvent is the broker payload emitted on reservation changes.
type ReservationEvent struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
}
