package infrastructure

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Client is one connected dashboard websocket.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	out        chan []byte
	userID     string
	sessionID  string
	subscribed map[string]struct{}
	closeOnce  sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, sessionID string, buf int) *Client {
	if buf <= 0 {
		buf = 8
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		out:        make(chan []byte, buf),
		userID:     userID,
		sessionID:  sessionID,
		subscribed: make(map[string]struct{}),
	}
}

func (c *Client) send(data []byte) {
	select {
	case c.out <- data:
	default:
		slog.Warn("ws send buffer full", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
		go c.hub.detachClient(c)
	}
}

// Send marshals nothing; callers hand over pre-encoded frames.
func (c *Client) Send(data []byte) { c.send(data) }

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.out)
		_ = c.conn.Close()
	})
}

// WritePump drains the outgoing channel and keeps the connection alive
// with pings.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.out:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("ws write error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Warn("ws ping error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
				return
			}
		}
	}
}

// ReadPump consumes (and discards) inbound frames so control messages are
// processed, detaching the client once the peer goes away.
func (c *Client) ReadPump() {
	defer c.hub.detachClient(c)
	c.conn.SetReadLimit(1 << 14)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws read error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
