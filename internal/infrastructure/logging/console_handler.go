package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// ConsoleHandler is a slog.Handler that writes bracketed single-line
// records meant to be read while scanning books at a store shelf:
//
//	[LEVEL] [SCOPE] [HH:MM:SS] message key=value key=value
//
// Colors are enabled only when the writer is a terminal.
type ConsoleHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Level
	scope string
	color bool
	attrs []slog.Attr
}

// NewConsoleHandler creates a console handler writing to w.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{
		w:     w,
		mu:    &sync.Mutex{},
		level: slog.LevelInfo,
		color: writerIsTerminal(w),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level.Level()
	}
	return h
}

func writerIsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a log record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	h.paint(&buf, h.levelColor(r.Level), "["+levelLabel(r.Level)+"]")
	if h.scope != "" {
		buf.WriteString(" [" + h.scope + "]")
	}
	h.paint(&buf, ansiGray, " ["+r.Time.Format("15:04:05")+"]")

	buf.WriteString(" ")
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, a)
		return true
	})
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *ConsoleHandler) paint(buf *strings.Builder, color, s string) {
	if h.color {
		buf.WriteString(color)
		buf.WriteString(s)
		buf.WriteString(ansiReset)
		return
	}
	buf.WriteString(s)
}

func writeAttr(buf *strings.Builder, a slog.Attr) {
	// The scope attr is already rendered in brackets.
	if a.Key == "scope" {
		return
	}
	fmt.Fprintf(buf, " %s=%v", a.Key, a.Value.Any())
}

// WithAttrs returns a new handler with the given attributes added.
// A "scope" attribute becomes the bracketed scope instead.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if a.Key == "scope" {
			next.scope = a.Value.String()
			continue
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

// WithGroup returns the handler unchanged; the flat console format
// does not nest groups.
func (h *ConsoleHandler) WithGroup(string) slog.Handler {
	return h.clone()
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		w:     h.w,
		mu:    h.mu,
		level: h.level,
		scope: h.scope,
		color: h.color,
		attrs: append([]slog.Attr(nil), h.attrs...),
	}
}

func (h *ConsoleHandler) levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiCyan
	default:
		return ansiGray
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
