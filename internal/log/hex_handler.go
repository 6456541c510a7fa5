package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultMaxHexBytes is the number of bytes rendered before truncation.
// Sixteen bytes matches one hex editor row.
const DefaultMaxHexBytes = 16

// HexHandler wraps an slog.Handler to render []byte attribute values as
// space-separated hex instead of decimal arrays.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep passing raw slices without formatting them first
type HexHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// maxBytes bounds the rendered hex before truncation.
	maxBytes int
}

// HexHandlerOption configures a HexHandler.
type HexHandlerOption func(*HexHandler)

// WithMaxHexBytes sets the number of bytes rendered before truncation.
func WithMaxHexBytes(n int) HexHandlerOption {
	return func(h *HexHandler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// NewHexHandler creates a new HexHandler wrapping the given handler.
// If handler is nil, the returned HexHandler wraps slog.Default().Handler().
func NewHexHandler(handler slog.Handler, opts ...HexHandlerOption) *HexHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &HexHandler{
		handler:  handler,
		maxBytes: DefaultMaxHexBytes,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *HexHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's byte attributes and passes it to the
// underlying handler.
func (h *HexHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Byte attributes are rewritten before being added.
func (h *HexHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &HexHandler{handler: h.handler.WithAttrs(rewritten), maxBytes: h.maxBytes}
}

// WithGroup returns a new handler with the given group name.
func (h *HexHandler) WithGroup(name string) slog.Handler {
	return &HexHandler{handler: h.handler.WithGroup(name), maxBytes: h.maxBytes}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *HexHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	// Byte slices reach slog as KindAny.
	if a.Value.Kind() == slog.KindAny {
		if data, ok := a.Value.Any().([]byte); ok {
			return slog.String(a.Key, h.formatHex(data))
		}
	}

	return a
}

// formatHex renders bytes as space-separated hex pairs, truncated to
// maxBytes with a trailing marker when shortened.
func (h *HexHandler) formatHex(data []byte) string {
	truncated := false
	if len(data) > h.maxBytes {
		data = data[:h.maxBytes]
		truncated = true
	}

	parts := make([]string, 0, len(data))
	for _, b := range data {
		parts = append(parts, fmt.Sprintf("%02x", b))
	}

	s := strings.Join(parts, " ")
	if truncated {
		s += " .."
	}
	return s
}

// NewLogger creates a new slog.Logger with hex byte rendering.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewHexHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with hex byte rendering that
// outputs JSON format. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewHexHandler(jsonHandler))
}
