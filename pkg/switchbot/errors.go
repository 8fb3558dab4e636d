package switchbot

import (
	"errors"
	"fmt"
)

// Library errors.
var (
	// ErrNoService is returned from device operations when no service
	// is attached (e.g. offline test fixtures).
	ErrNoService = errors.New("no service configured")
)

// APIError is a non-success response envelope from the SwitchBot API.
// Every statusCode other than 100 is an error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SwitchBot API error: %s (%d)", e.Message, e.StatusCode)
}
