// Package log provides logging functionality tuned for binary analysis,
// built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Readable rendering of raw byte attributes as truncated hex
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// Analysis code logs byte slices constantly (header fragments, match
// contexts, sub-container prefixes). The default slog rendering prints
// them as decimal arrays, which is unreadable for anyone comparing
// against a hex editor; the HexHandler fixes the rendering in one place
// instead of at every call site.
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("signature hit",
//	    "offset", 0x12,
//	    "context", buf[10:26], // rendered as "40 01 00 00 f0 00 .."
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
