package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"stolikiApi/internal/modules/booking/application/port"
	remarked "stolikiApi/internal/modules/remarked/domain"
)

// ManageReservesUseCase backs the back-office surface: listing, detail,
// read receipts, status changes and event tags.
type ManageReservesUseCase struct {
	Venues   port.VenueStore
	Provider port.ReservationProvider
	Events   port.EventPublisher
}

func NewManageReservesUseCase(venues port.VenueStore, provider port.ReservationProvider, events port.EventPublisher) *ManageReservesUseCase {
	return &ManageReservesUseCase{Venues: venues, Provider: provider, Events: events}
}

func (uc *ManageReservesUseCase) ReservesByPhone(ctx context.Context, restaurantID, phone string, guests int, filters remarked.ReserveFilters) (*remarked.ReserveList, error) {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return nil, err
	}
	var list *remarked.ReserveList
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		var ferr error
		list, ferr = uc.Provider.ReservesByPhone(ctx, token, phone, guests, filters)
		return ferr
	})
	if err != nil {
		return nil, maskProviderError("getReservesByPhone", venue.ID, err)
	}
	return list, nil
}

func (uc *ManageReservesUseCase) ReserveByID(ctx context.Context, restaurantID string, reserveID int64) (*remarked.Reserve, error) {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return nil, err
	}
	var reserve *remarked.Reserve
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		var ferr error
		reserve, ferr = uc.Provider.ReserveByID(ctx, token, reserveID)
		return ferr
	})
	if err != nil {
		return nil, maskProviderError("getReserveById", venue.ID, err)
	}
	return reserve, nil
}

func (uc *ManageReservesUseCase) IsReserveRead(ctx context.Context, restaurantID string, reserveID int64) (bool, error) {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return false, err
	}
	var read bool
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		var ferr error
		read, ferr = uc.Provider.IsReserveRead(ctx, token, reserveID)
		return ferr
	})
	if err != nil {
		return false, maskProviderError("isReserveRead", venue.ID, err)
	}
	return read, nil
}

func (uc *ManageReservesUseCase) ChangeStatus(ctx context.Context, restaurantID string, reserveID int64, status, cancelReason string) error {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return err
	}
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		return uc.Provider.ChangeReserveStatus(ctx, token, reserveID, status, cancelReason)
	})
	if err != nil {
		return maskProviderError("changeReserveStatus", venue.ID, err)
	}

	if uc.Events != nil {
		event := port.ReservationEvent{
			ID:         uuid.NewString(),
			Entity:     "reservations",
			Action:     "status_changed",
			ResourceID: fmt.Sprintf("%d", reserveID),
			Topic:      "reservations.status_changed",
			Metadata:   map[string]string{"restaurantId": venue.ID},
			Data:       map[string]any{"reserveId": reserveID, "status": status},
		}
		if perr := uc.Events.Publish(ctx, event); perr != nil {
			slog.Warn("status event publish failed", slog.Int64("reserveId", reserveID), slog.Any("error", perr))
		}
	}
	return nil
}

func (uc *ManageReservesUseCase) EventTags(ctx context.Context, restaurantID string) ([]remarked.EventTag, error) {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return nil, err
	}
	var tags []remarked.EventTag
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		var ferr error
		tags, ferr = uc.Provider.EventTags(ctx, token)
		return ferr
	})
	if err != nil {
		return nil, maskProviderError("getEventTags", venue.ID, err)
	}
	return tags, nil
}
