package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes API call events to an slog.Logger.
// Useful for development when you want to see API calls in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("method", event.Method),
		slog.String("url", event.URL),
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", event.Error))
	} else {
		attrs = append(attrs,
			slog.Int("http_status", event.HTTPStatus),
			slog.Duration("elapsed", event.Elapsed),
			slog.Int("size", event.Size),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "api_call", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
