// Package log provides structured API call logging for SwitchBot.
//
// This package defines the Logger interface and Event type for capturing
// one event per SwitchBot API call. It is separate from operational
// logging (slog) - call capture provides a complete machine-readable
// trace for debugging and latency analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("calls.blog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a concatenation of CBOR-encoded events. Reader streams
// them back, optionally filtered by device, method, or time range.
package log
