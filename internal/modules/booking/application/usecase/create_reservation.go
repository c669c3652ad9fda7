package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stolikiApi/internal/modules/booking/application/port"
	bookingdomain "stolikiApi/internal/modules/booking/domain"
	remarked "stolikiApi/internal/modules/remarked/domain"
)

const (
	// BookingSource tags reservations created through this service at the
	// provider side.
	BookingSource = "widget"

	MsgReserveCreated = "Бронирование успешно создано."
	MsgDepositNeeded  = "Бронирование создано. Для подтверждения необходимо внести депозит."
)

// CreateReservationUseCase is the booking orchestrator: validate the
// submission, resolve the venue, obtain a provider token and submit the
// reservation. A failed booking leaves no trace; the usecase performs no
// retries of its own.
type CreateReservationUseCase struct {
	Venues   port.VenueStore
	Provider port.ReservationProvider
	Events   port.EventPublisher
}

func NewCreateReservationUseCase(venues port.VenueStore, provider port.ReservationProvider, events port.EventPublisher) *CreateReservationUseCase {
	return &CreateReservationUseCase{Venues: venues, Provider: provider, Events: events}
}

func (uc *CreateReservationUseCase) Execute(ctx context.Context, req bookingdomain.BookingRequest) (*bookingdomain.BookingResult, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	venue, err := uc.Venues.FindByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, port.ErrVenueNotFound) {
			return nil, err
		}
		slog.Error("venue lookup failed", slog.String("restaurantId", req.RestaurantID), slog.Any("error", err))
		return nil, fmt.Errorf("venue lookup: %w", err)
	}
	if !venue.Bookable() {
		slog.Warn("booking rejected for non-bookable venue", slog.String("restaurantId", venue.ID), slog.Bool("active", venue.Active), slog.Int("pointId", venue.PointID))
		return nil, ErrNotBookable
	}

	info, err := uc.Provider.Token(ctx, venue.PointID, remarked.TokenOptions{})
	if err != nil {
		slog.Error("provider token fetch failed", slog.String("restaurantId", venue.ID), slog.Int("pointId", venue.PointID), slog.Any("error", err))
		return nil, ErrProviderUnavailable
	}

	uniqueID := uuid.NewString()
	started := time.Now()
	result, err := uc.Provider.CreateReserve(ctx, info.Token, remarked.ReserveData{
		Name:        req.Name,
		Phone:       req.Phone,
		Date:        req.Date,
		Time:        req.Time,
		GuestsCount: req.GuestsCount,
		Duration:    req.Duration,
		Comment:     req.Comment,
		TableIDs:    req.TableIDs,
		EventTags:   req.EventTags,
		Source:      BookingSource,
	}, req.ConfirmCode, uniqueID)
	if err != nil {
		return nil, uc.mapReserveError(venue, uniqueID, started, err)
	}

	slog.Info("reservation created",
		slog.String("restaurantId", venue.ID),
		slog.Int("pointId", venue.PointID),
		slog.Int64("reserveId", result.ReserveID),
		slog.Bool("deposit", result.FormURL != ""),
		slog.Duration("took", time.Since(started)),
	)
	uc.publishCreated(ctx, venue, result)

	message := MsgReserveCreated
	if result.FormURL != "" {
		message = MsgDepositNeeded
	}
	return &bookingdomain.BookingResult{
		ReserveID: result.ReserveID,
		FormURL:   result.FormURL,
		Message:   message,
	}, nil
}

// mapReserveError downgrades provider error detail for the user-facing
// boundary while logging the full picture for operators.
func (uc *CreateReservationUseCase) mapReserveError(venue *bookingdomain.Venue, uniqueID string, started time.Time, err error) error {
	var apiErr *remarked.APIError
	switch {
	case errors.Is(err, remarked.ErrGatewayTimeout):
		slog.Error("createReserve timed out", slog.String("restaurantId", venue.ID), slog.String("uniqueId", uniqueID), slog.Duration("took", time.Since(started)))
		return ErrProviderUnavailable
	case errors.As(err, &apiErr):
		slog.Error("createReserve rejected by provider",
			slog.String("restaurantId", venue.ID),
			slog.String("uniqueId", uniqueID),
			slog.Int("status", apiErr.Code),
			slog.String("message", apiErr.Message),
			slog.Time("at", apiErr.Timestamp),
			slog.Duration("took", time.Since(started)),
		)
		if apiErr.Status == remarked.StatusBadRequest {
			return &ProviderRejection{Message: apiErr.Message}
		}
		if remarked.IsAuthError(err) {
			// The cached token is suspect; drop it so the next booking
			// fetches a fresh one.
			uc.Provider.InvalidateToken(venue.PointID)
		}
		return ErrProviderUnavailable
	default:
		slog.Error("createReserve failed", slog.String("restaurantId", venue.ID), slog.String("uniqueId", uniqueID), slog.Any("error", err))
		return ErrProviderUnavailable
	}
}

func (uc *CreateReservationUseCase) publishCreated(ctx context.Context, venue *bookingdomain.Venue, result *remarked.ReserveResult) {
	if uc.Events == nil {
		return
	}
	event := port.ReservationEvent{
		ID:         uuid.NewString(),
		Entity:     "reservations",
		Action:     "created",
		ResourceID: fmt.Sprintf("%d", result.ReserveID),
		Topic:      "reservations.created",
		Metadata:   map[string]string{"restaurantId": venue.ID},
		Data: map[string]any{
			"reserveId": result.ReserveID,
			"deposit":   result.FormURL != "",
		},
	}
	if err := uc.Events.Publish(ctx, event); err != nil {
		slog.Warn("reservation event publish failed", slog.String("restaurantId", venue.ID), slog.Int64("reserveId", result.ReserveID), slog.Any("error", err))
	}
}
