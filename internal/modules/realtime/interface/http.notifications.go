package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"stolikiApi/internal/modules/realtime/domain"
	"stolikiApi/internal/modules/realtime/infrastructure"
	"stolikiApi/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var sessionCounter atomic.Uint64

// NewNotificationsHandler exposes GET /ws/notifications: back-office
// dashboards authenticate with the staff JWT and receive every
// reservation event broadcast by the hub.
func NewNotificationsHandler(hub *infrastructure.Hub, validator auth.TokenValidator) echo.HandlerFunc {
	return func(c echo.Context) error {
		peerIP := c.RealIP()

		claims, err := validator.Validate(auth.ExtractToken(c.Request()))
		if err != nil {
			slog.Warn("notifications ws auth failed", slog.String("ip", peerIP), slog.Any("error", err))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("notifications ws upgrade failed", slog.String("ip", peerIP), slog.Any("error", err))
			return err
		}

		sessionID := fmt.Sprintf("notif-%d", sessionCounter.Add(1))
		client := infrastructure.NewClient(hub, conn, claims.Subject, sessionID, 8)
		hub.AttachToAll(client)

		go client.WritePump()
		go client.ReadPump()

		connected := &domain.Message{
			Topic:     domain.TopicSystemConnected,
			Entity:    domain.SystemEntity,
			Action:    domain.ActionConnected,
			Metadata:  map[string]string{"sessionId": sessionID, "userId": claims.Subject},
			Timestamp: time.Now().UTC(),
		}
		if data, merr := json.Marshal(connected); merr == nil {
			client.Send(data)
		}

		slog.Info("notifications ws connected", slog.String("userId", claims.Subject), slog.String("sessionId", sessionID), slog.String("ip", peerIP))
		return nil
	}
}
