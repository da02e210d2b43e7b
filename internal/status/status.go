package status

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned when a login attempt is rejected by the
	// server. The prior session state is left untouched.
	ErrAuthentication = errors.New("auth: invalid credentials")

	// ErrAuthorizationLost is returned when an authorized request comes back
	// 401/403. The session has already been torn down by the time callers
	// observe this error.
	ErrAuthorizationLost = errors.New("auth: authorization lost")

	ErrEventNotFound   = errors.New("event: event not found")
	ErrTicketNotFound  = errors.New("ticket: ticket not found in event")
	ErrBookingNotFound = errors.New("booking: booking not found")

	// ErrNotReady is returned when a funnel operation is invoked outside the
	// state that gates it, e.g. submitting before the purchase context loaded.
	ErrNotReady = errors.New("booking: purchase context not ready")
)

// RequestError is the normalized form of any transport or server failure.
// Message carries, in priority order, the server's structured error body
// message, then the transport-level message, then a fallback string.
type RequestError struct {
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed: %s", e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404-level RequestError or one of the
// client-detected not-found sentinels.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrTicketNotFound) || errors.Is(err, ErrBookingNotFound) {
		return true
	}
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == 404
}
