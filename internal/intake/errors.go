package intake

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError carries a user-facing message; it is safe to return the
// message verbatim to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(message string) error {
	return &ValidationError{Message: message}
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RateLimitError reports a throttled request along with when the window
// resets.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return "rate_limited"
}

var (
	ErrOriginForbidden = errors.New("origin_forbidden")
	ErrSlotUnavailable = errors.New("slot_unavailable")
	ErrUnauthenticated = errors.New("missing_or_invalid_token")
)
