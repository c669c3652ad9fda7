package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"stolikiApi/internal/modules/booking/application/usecase"
	remarked "stolikiApi/internal/modules/remarked/domain"
	"stolikiApi/internal/shared/auth"
	"stolikiApi/internal/shared/httputil"
)

// RequireStaffToken guards back-office routes with the CMS-issued JWT.
func RequireStaffToken(validator auth.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := auth.ExtractToken(c.Request())
			claims, err := validator.Validate(token)
			if err != nil {
				slog.Warn("office auth failed", slog.String("path", c.Path()), slog.String("ip", c.RealIP()), slog.Any("error", err))
				return httputil.Fail(c, http.StatusUnauthorized, "Необходима авторизация.")
			}
			c.Set("staffSubject", claims.Subject)
			return next(c)
		}
	}
}

// NewListReservesHandler serves GET /api/v1/office/reserves.
func NewListReservesHandler(uc *usecase.ManageReservesUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID := strings.TrimSpace(c.QueryParam("restaurantId"))
		phone := strings.TrimSpace(c.QueryParam("phone"))
		if restaurantID == "" || phone == "" {
			return httputil.Fail(c, http.StatusBadRequest, "Не заданы restaurantId или phone.")
		}
		guests, _ := strconv.Atoi(c.QueryParam("guests_count"))

		var filters remarked.ReserveFilters
		if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 {
				filters.Limit = &v
			}
		}
		if raw := strings.TrimSpace(c.QueryParam("offset")); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
				filters.Offset = &v
			}
		}
		filters.Sort = strings.TrimSpace(c.QueryParam("sort"))
		from := strings.TrimSpace(c.QueryParam("from"))
		to := strings.TrimSpace(c.QueryParam("to"))
		if from != "" && to != "" {
			filters.Period = &remarked.Period{From: from, To: to}
		}

		list, err := uc.ReservesByPhone(c.Request().Context(), restaurantID, phone, guests, filters)
		if err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, list)
	}
}

// NewReserveDetailHandler serves GET /api/v1/office/reserves/:id.
func NewReserveDetailHandler(uc *usecase.ManageReservesUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID, reserveID, err := officeReserveParams(c)
		if err != nil {
			return httputil.Fail(c, http.StatusBadRequest, err.Error())
		}
		reserve, err := uc.ReserveByID(c.Request().Context(), restaurantID, reserveID)
		if err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, reserve)
	}
}

// NewReserveReadHandler serves GET /api/v1/office/reserves/:id/read.
func NewReserveReadHandler(uc *usecase.ManageReservesUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID, reserveID, err := officeReserveParams(c)
		if err != nil {
			return httputil.Fail(c, http.StatusBadRequest, err.Error())
		}
		read, err := uc.IsReserveRead(c.Request().Context(), restaurantID, reserveID)
		if err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, map[string]any{"read": read})
	}
}

// NewChangeStatusHandler serves PATCH /api/v1/office/reserves/:id/status.
func NewChangeStatusHandler(uc *usecase.ManageReservesUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID, reserveID, err := officeReserveParams(c)
		if err != nil {
			return httputil.Fail(c, http.StatusBadRequest, err.Error())
		}
		var req struct {
			Status       string `json:"status"`
			CancelReason string `json:"cancel_reason,omitempty"`
		}
		if err := c.Bind(&req); err != nil {
			return httputil.Fail(c, http.StatusBadRequest, msgBadRequestBody)
		}
		if strings.TrimSpace(req.Status) == "" {
			return httputil.Fail(c, http.StatusBadRequest, "Не задан статус.")
		}
		if err := uc.ChangeStatus(c.Request().Context(), restaurantID, reserveID, req.Status, req.CancelReason); err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, map[string]any{"status": req.Status})
	}
}

// NewEventTagsHandler serves GET /api/v1/office/event-tags.
func NewEventTagsHandler(uc *usecase.ManageReservesUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		restaurantID := strings.TrimSpace(c.QueryParam("restaurantId"))
		if restaurantID == "" {
			return httputil.Fail(c, http.StatusBadRequest, "Не задан restaurantId.")
		}
		tags, err := uc.EventTags(c.Request().Context(), restaurantID)
		if err != nil {
			return respondError(c, err, msgServiceDown)
		}
		return httputil.OK(c, map[string]any{"tags": tags})
	}
}

func officeReserveParams(c echo.Context) (string, int64, error) {
	restaurantID := strings.TrimSpace(c.QueryParam("restaurantId"))
	if restaurantID == "" {
		return "", 0, errors.New("Не задан restaurantId.")
	}
	reserveID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || reserveID <= 0 {
		return "", 0, errors.New("Некорректный идентификатор брони.")
	}
	return restaurantID, reserveID, nil
}
