package httputil

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the response shape every widget and back-office endpoint
// answers with.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a 200 success envelope with the given payload.
func OK(c echo.Context, data any) error {
	return c.JSON(200, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with the given status and user message.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}
