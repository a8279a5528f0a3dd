package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warn", "error"
}

// consoleHandler is a slog.Handler that copies Info and above to a browser
// console channel and passes every record on to next.
type consoleHandler struct {
	next  slog.Handler
	ch    chan<- ConsoleMessage
	attrs []slog.Attr
}

func newConsoleHandler(next slog.Handler, ch chan<- ConsoleMessage) *consoleHandler {
	return &consoleHandler{next: next, ch: ch}
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo || h.next.Enabled(ctx, level)
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelInfo && h.ch != nil {
		var b strings.Builder
		b.WriteString(r.Message)
		appendAttr := func(a slog.Attr) bool {
			fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
			return true
		}
		for _, a := range h.attrs {
			appendAttr(a)
		}
		r.Attrs(appendAttr)

		// Non-blocking: a slow browser drops console lines, never render progress
		select {
		case h.ch <- ConsoleMessage{
			Message:   b.String(),
			Timestamp: r.Time,
			Level:     strings.ToLower(r.Level.String()),
		}:
		default:
		}
	}

	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		next:  h.next.WithAttrs(attrs),
		ch:    h.ch,
		attrs: append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{next: h.next.WithGroup(name), ch: h.ch, attrs: h.attrs}
}
