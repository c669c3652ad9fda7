package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotBookable marks a venue that exists but is inactive or was
	// never wired to the reservation provider.
	ErrNotBookable = errors.New("venue not available for booking")

	// ErrProviderUnavailable hides every provider failure the end user
	// must not see the details of (timeouts, auth errors, upstream 5xx).
	// The full provider error is logged where it happened.
	ErrProviderUnavailable = errors.New("reservation provider unavailable")
)

// ValidationError carries the missing required fields of a submission.
// It is produced before any network call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// UserMessage is the widget-facing text, in the widget's language.
func (e *ValidationError) UserMessage() string {
	return "Не заполнены обязательные поля: " + strings.Join(e.Fields, ", ")
}

// ProviderRejection is a provider 400: the provider refused this specific
// request content, so its message is safe and useful to surface.
type ProviderRejection struct {
	Message string
}

func (e *ProviderRejection) Error() string {
	return fmt.Sprintf("provider rejected reservation: %s", e.Message)
}
