package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// SlogLogger wraps slog.Logger to implement the Logger interface
type SlogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger creates a new SlogLogger with colored output and configurable minimum level
func NewSlogLogger(minLevel slog.Level, writer io.Writer) *SlogLogger {
	if writer == nil {
		writer = os.Stdout
	}

	return &SlogLogger{
		logger: slog.New(NewColoredHandler(minLevel, writer)),
	}
}

// With returns a logger that adds args to every record.
func (l *SlogLogger) With(args ...interface{}) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(formatArgs(args...)...)}
}

// WithGroup returns a logger that qualifies later keys with name.
func (l *SlogLogger) WithGroup(name string) *SlogLogger {
	return &SlogLogger{logger: l.logger.WithGroup(name)}
}

// ColoredHandler implements slog.Handler with colored level output.
// Keys are written as group.key for every group opened before them.
type ColoredHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	minLevel slog.Level
	prefix   string // open groups joined by '.', with trailing '.'
	attrs    string // preformatted attrs added via WithAttrs
}

// NewColoredHandler creates a handler writing one line per record to writer.
func NewColoredHandler(minLevel slog.Level, writer io.Writer) *ColoredHandler {
	return &ColoredHandler{
		mu:       &sync.Mutex{},
		writer:   writer,
		minLevel: minLevel,
	}
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *ColoredHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	sb.WriteByte(' ')
	sb.WriteString(h.coloredLevel(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, prefix, ga)
		}
		return
	}

	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&sb, h.prefix, a)
	}

	clone := *h
	clone.attrs = sb.String()
	return &clone
}

func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *ColoredHandler) coloredLevel(level slog.Level) string {
	var color string
	var levelStr string

	switch level {
	case slog.LevelDebug:
		color = colorGray
		levelStr = "DBG"
	case slog.LevelInfo:
		color = colorBlue
		levelStr = "INF"
	case slog.LevelWarn:
		color = colorYellow
		levelStr = "WRN"
	case slog.LevelError:
		color = colorRed
		levelStr = "ERR"
	default:
		color = colorReset
		levelStr = level.String()
	}

	return color + levelStr + colorReset
}

// Info logs an informational message
func (l *SlogLogger) Info(msg string, args ...interface{}) {
	l.logger.Info(msg, formatArgs(args...)...)
}

// Warn logs a warning message
func (l *SlogLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn(msg, formatArgs(args...)...)
}

// Error logs an error message
func (l *SlogLogger) Error(msg string, args ...interface{}) {
	l.logger.Error(msg, formatArgs(args...)...)
}

// Debug logs a debug message
func (l *SlogLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug(msg, formatArgs(args...)...)
}

// formatArgs converts key/value pairs to slog attributes. Pairs whose key is
// not a string and a trailing key without value are dropped.
func formatArgs(args ...interface{}) []any {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]any, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs = append(attrs, slog.Any(key, args[i+1]))
		}
	}
	return attrs
}
