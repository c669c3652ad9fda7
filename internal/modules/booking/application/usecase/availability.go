package usecase

import (
	"context"
	"errors"
	"log/slog"

	"stolikiApi/internal/modules/booking/application/port"
	bookingdomain "stolikiApi/internal/modules/booking/domain"
	remarked "stolikiApi/internal/modules/remarked/domain"
)

// AvailabilityUseCase serves the widget's pre-booking queries: per-day
// availability and concrete slots.
type AvailabilityUseCase struct {
	Venues   port.VenueStore
	Provider port.ReservationProvider
}

func NewAvailabilityUseCase(venues port.VenueStore, provider port.ReservationProvider) *AvailabilityUseCase {
	return &AvailabilityUseCase{Venues: venues, Provider: provider}
}

// resolveBookableVenue looks the venue up and refuses venues booking is
// not enabled for, before any provider traffic happens.
func resolveBookableVenue(ctx context.Context, venues port.VenueStore, restaurantID string) (*bookingdomain.Venue, error) {
	venue, err := venues.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !venue.Bookable() {
		return nil, ErrNotBookable
	}
	return venue, nil
}

// venueToken resolves a provider token for the venue, hiding provider
// failure detail behind ErrProviderUnavailable.
func venueToken(ctx context.Context, provider port.ReservationProvider, venue *bookingdomain.Venue) (string, error) {
	info, err := provider.Token(ctx, venue.PointID, remarked.TokenOptions{})
	if err != nil {
		slog.Error("provider token fetch failed", slog.String("restaurantId", venue.ID), slog.Int("pointId", venue.PointID), slog.Any("error", err))
		return "", ErrProviderUnavailable
	}
	return info.Token, nil
}

// withVenueToken runs fn with a venue token and retries exactly once with
// a fresh token when the provider answers 401/403, which means the cached
// token went stale before its TTL.
func withVenueToken(ctx context.Context, provider port.ReservationProvider, venue *bookingdomain.Venue, fn func(token string) error) error {
	token, err := venueToken(ctx, provider, venue)
	if err != nil {
		return err
	}
	err = fn(token)
	if err == nil || !remarked.IsAuthError(err) {
		return err
	}
	provider.InvalidateToken(venue.PointID)
	token, terr := venueToken(ctx, provider, venue)
	if terr != nil {
		return terr
	}
	return fn(token)
}

func (uc *AvailabilityUseCase) DaysStates(ctx context.Context, restaurantID string, period remarked.Period, guests int) ([]remarked.DayState, error) {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return nil, err
	}
	var days []remarked.DayState
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		var ferr error
		days, ferr = uc.Provider.DaysStates(ctx, token, period, guests)
		return ferr
	})
	if err != nil {
		return nil, maskProviderError("getDaysStates", venue.ID, err)
	}
	return days, nil
}

func (uc *AvailabilityUseCase) Slots(ctx context.Context, restaurantID string, period remarked.Period, guests int, opts remarked.SlotOptions) ([]remarked.Slot, error) {
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return nil, err
	}
	var slots []remarked.Slot
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		var ferr error
		slots, ferr = uc.Provider.Slots(ctx, token, period, guests, opts)
		return ferr
	})
	if err != nil {
		return nil, maskProviderError("getSlots", venue.ID, err)
	}
	return slots, nil
}

// maskProviderError keeps provider 400 messages (validation-adjacent) and
// collapses everything else into the generic unavailability error.
func maskProviderError(op, restaurantID string, err error) error {
	if errors.Is(err, ErrProviderUnavailable) {
		return err
	}
	var apiErr *remarked.APIError
	if errors.As(err, &apiErr) && apiErr.Status == remarked.StatusBadRequest {
		return &ProviderRejection{Message: apiErr.Message}
	}
	slog.Error("provider call failed", slog.String("op", op), slog.String("restaurantId", restaurantID), slog.Any("error", err))
	return ErrProviderUnavailable
}
