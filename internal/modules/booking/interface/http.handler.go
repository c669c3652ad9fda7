package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"stolikiApi/internal/modules/booking/application/port"
	"stolikiApi/internal/modules/booking/application/usecase"
	bookingdomain "stolikiApi/internal/modules/booking/domain"
	remarked "stolikiApi/internal/modules/remarked/domain"
	"stolikiApi/internal/shared/httputil"
)

const (
	msgVenueNotFound     = "Ресторан не найден."
	msgNotBookable       = "Ресторан недоступен для бронирования."
	msgCreateFailed      = "Не удалось создать бронирование, попробуйте позже."
	msgServiceDown       = "Сервис бронирования временно недоступен, попробуйте позже."
	msgBadRequestBody    = "Некорректный запрос."
	msgSMSCodeDispatched = "Код подтверждения отправлен."
)

// respondError translates usecase errors into the widget envelope. The
// fallback message covers every error the end user must not see the
// details of.
func respondError(c echo.Context, err error, fallback string) error {
	var validation *usecase.ValidationError
	var rejection *usecase.ProviderRejection
	switch {
	case errors.As(err, &validation):
		return httputil.Fail(c, http.StatusBadRequest, validation.UserMessage())
	case errors.Is(err, port.ErrVenueNotFound):
		return httputil.Fail(c, http.StatusNotFound, msgVenueNotFound)
	case errors.Is(err, usecase.ErrNotBookable):
		return httputil.Fail(c, http.StatusBadRequest, msgNotBookable)
	case errors.As(err, &rejection):
		return httputil.Fail(c, http.StatusBadRequest, rejection.Message)
	case errors.Is(err, usecase.ErrProviderUnavailable):
		return httputil.Fail(c, http.StatusInternalServerError, fallback)
	default:
		slog.Error("unhandled booking error", slog.String("path", c.Path()), slog.Any("error", err))
		return httputil.Fail(c, http.StatusInternalServerError, fallback)
	}
}

// NewListRestaurantsHandler serves GET /api/v1/restaurants: the venues
// the widget may offer for booking.
func NewListRestaurantsHandler(venues port.VenueStore) echo.HandlerFunc {
	type restaurant struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		City    string `json:"city,omitempty"`
		Address string `json:"address,omitempty"`
	}
	return func(c echo.Context) error {
		active, err := venues.FindActive(c.Request().Context())
		if err != nil {
			slog.Error("restaurant listing failed", slog.Any("error", err))
			return httputil.Fail(c, http.StatusInternalServerError, msgServiceDown)
		}
		out := make([]restaurant, 0, len(active))
		for _, v := range active {
			if !v.Bookable() {
				continue
			}
			out = append(out, restaurant{ID: v.ID, Title: v.Title, City: v.City, Address: v.Address})
		}
		return httputil.OK(c, map[string]any{"restaurants": out})
	}
}

// NewCreateBookingHandler serves POST /api/v1/booking.
func NewCreateBookingHandler(uc *usecase.CreateReservationUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req bookingdomain.BookingRequest
		if err := c.Bind(&req); err != nil {
			return httputil.Fail(c, http.StatusBadRequest, msgBadRequestBody)
		}
		result, err := uc.Execute(c.Request().Context(), req)
		if err != nil {
			return respondError(c, err, msgCreateFailed)
		}
		return httputil.OK(c, result)
	}
}

// NewDaysStatesHandler serves GET /api/v1/booking/:restaurantId/days.
func NewDaysStatesHandler(uc *usecase.AvailabilityUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID := c.Param("restaurantId")
		period, guests, err := availabilityQuery(c)
		if err != nil {
			return httputil.Fail(c, http.StatusBadRequest, err.Error())
		}
		days, err := uc.DaysStates(c.Request().Context(), restaurantID, period, guests)
		if err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, map[string]any{"days": days})
	}
}

// NewSlotsHandler serves GET /api/v1/booking/:restaurantId/slots.
func NewSlotsHandler(uc *usecase.AvailabilityUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID := c.Param("restaurantId")
		period, guests, err := availabilityQuery(c)
		if err != nil {
			return httputil.Fail(c, http.StatusBadRequest, err.Error())
		}

		var opts remarked.SlotOptions
		if raw := strings.TrimSpace(c.QueryParam("with_rooms")); raw != "" {
			v := raw == "1" || strings.EqualFold(raw, "true")
			opts.WithRooms = &v
		}
		if raw := strings.TrimSpace(c.QueryParam("slot_duration")); raw != "" {
			minutes, perr := strconv.Atoi(raw)
			if perr != nil || minutes <= 0 {
				return httputil.Fail(c, http.StatusBadRequest, "Некорректная длительность слота.")
			}
			opts.SlotDuration = &minutes
		}

		slots, err := uc.Slots(c.Request().Context(), restaurantID, period, guests, opts)
		if err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, map[string]any{"slots": slots})
	}
}

// NewSMSCodeHandler serves POST /api/v1/booking/:restaurantId/sms.
func NewSMSCodeHandler(uc *usecase.SendSMSCodeUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Phone string `json:"phone"`
		}
		if err := c.Bind(&req); err != nil {
			return httputil.Fail(c, http.StatusBadRequest, msgBadRequestBody)
		}
		if err := uc.Execute(c.Request().Context(), c.Param("restaurantId"), strings.TrimSpace(req.Phone)); err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, map[string]any{"message": msgSMSCodeDispatched})
	}
}

func availabilityQuery(c echo.Context) (remarked.Period, int, error) {
	period := remarked.Period{
		From: strings.TrimSpace(c.QueryParam("from")),
		To:   strings.TrimSpace(c.QueryParam("to")),
	}
	if period.From == "" || period.To == "" {
		return remarked.Period{}, 0, errors.New("Не задан период from/to.")
	}
	if period.From > period.To {
		return remarked.Period{}, 0, errors.New("Дата from позже даты to.")
	}
	guests, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("guests_count")))
	if err != nil || guests <= 0 {
		return remarked.Period{}, 0, errors.New("Не задано число гостей.")
	}
	return period, guests, nil
}
