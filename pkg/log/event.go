package log

import "time"

// Event records one SwitchBot API call.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the call completed (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Method is the HTTP method.
	Method string `cbor:"2,keyasint"`

	// URL is the full request URL.
	URL string `cbor:"3,keyasint"`

	// DeviceID is the target device, when the call addresses one.
	DeviceID string `cbor:"4,keyasint,omitempty"`

	// HTTPStatus is the HTTP response status code. Zero when the
	// request failed before a response arrived.
	HTTPStatus int `cbor:"5,keyasint,omitempty"`

	// Elapsed is the wall-clock duration of the call.
	Elapsed time.Duration `cbor:"6,keyasint,omitempty"`

	// Size is the response body size in bytes.
	Size int `cbor:"7,keyasint,omitempty"`

	// Error is the transport error message, when the call failed.
	Error string `cbor:"8,keyasint,omitempty"`
}
