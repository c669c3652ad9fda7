package usecase

import (
	"context"

	"github.com/google/uuid"

	"stolikiApi/internal/modules/booking/application/port"
)

// SendSMSCodeUseCase dispatches the SMS confirmation challenge for venues
// that require one before createReserve.
type SendSMSCodeUseCase struct {
	Venues   port.VenueStore
	Provider port.ReservationProvider
}

func NewSendSMSCodeUseCase(venues port.VenueStore, provider port.ReservationProvider) *SendSMSCodeUseCase {
	return &SendSMSCodeUseCase{Venues: venues, Provider: provider}
}

func (uc *SendSMSCodeUseCase) Execute(ctx context.Context, restaurantID, phone string) error {
	if phone == "" {
		return &ValidationError{Fields: []string{"phone"}}
	}
	venue, err := resolveBookableVenue(ctx, uc.Venues, restaurantID)
	if err != nil {
		return err
	}
	err = withVenueToken(ctx, uc.Provider, venue, func(token string) error {
		return uc.Provider.SendSMSCode(ctx, token, phone, uuid.NewString())
	})
	if err != nil {
		return maskProviderError("getSMSCode", venue.ID, err)
	}
	return nil
}
