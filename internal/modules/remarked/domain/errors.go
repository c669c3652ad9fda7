package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrGatewayTimeout marks a provider call that was cancelled after the
// configured request timeout. It is deliberately not an *APIError: a timed
// out call carries no provider response to classify.
var ErrGatewayTimeout = errors.New("remarked: request timed out")

// StatusClass is the closed set of provider error classes the widget API
// is known to answer with.
type StatusClass int

const (
	StatusBadRequest   StatusClass = http.StatusBadRequest
	StatusUnauthorized StatusClass = http.StatusUnauthorized
	StatusForbidden    StatusClass = http.StatusForbidden
	StatusNotFound     StatusClass = http.StatusNotFound
	StatusUpstream     StatusClass = 520
	StatusUnknown      StatusClass = 0
)

// APIError is a non-2xx answer from the provider, normalized into a fixed
// shape: status class, human readable message and the moment it was seen.
type APIError struct {
	Status    StatusClass
	Code      int
	Message   string
	Timestamp time.Time
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remarked: %s (status=%d)", e.Message, e.Code)
}

func defaultMessage(status StatusClass) string {
	switch status {
	case StatusBadRequest:
		return "Bad Request"
	case StatusUnauthorized:
		return "Unauthorized"
	case StatusForbidden:
		return "Forbidden"
	case StatusNotFound:
		return "Not Found"
	default:
		return "Unknown error"
	}
}

// NewAPIError builds the typed error for a raw HTTP status and the message
// parsed from the response body. An empty message falls back to the class
// default, an unrecognized status collapses into the unknown class.
func NewAPIError(status int, message string) *APIError {
	class := StatusUnknown
	switch status {
	case http.StatusBadRequest:
		class = StatusBadRequest
	case http.StatusUnauthorized:
		class = StatusUnauthorized
	case http.StatusForbidden:
		class = StatusForbidden
	case http.StatusNotFound:
		class = StatusNotFound
	case 520:
		class = StatusUpstream
	}
	if message == "" {
		message = defaultMessage(class)
	}
	return &APIError{
		Status:    class,
		Code:      status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// IsAuthError reports whether err is a provider 401/403, the signal that a
// cached token is no longer valid.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == StatusUnauthorized || apiErr.Status == StatusForbidden
}
