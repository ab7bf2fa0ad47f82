// Package logger provides structured logging for the assessment hub on top of
// log/slog. Callers pass typed Field values; the handler renders them as JSON
// or as logfmt-style text.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Format selects how entries are rendered.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatText writes key=value lines.
	FormatText Format = "text"
)

// ParseFormat parses a format name, defaulting to JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatText)) {
		return FormatText
	}
	return FormatJSON
}

// Level is the severity of an entry.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError

	// levelOff is above every level Logger emits.
	levelOff = slog.LevelError + 100
)

// ParseLevel parses a level name; unknown names mean info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is one key-value pair attached to an entry.
type Field = slog.Attr

func String(key, value string) Field          { return slog.String(key, value) }
func Int(key string, value int) Field         { return slog.Int(key, value) }
func Int64(key string, value int64) Field     { return slog.Int64(key, value) }
func Float64(key string, value float64) Field { return slog.Float64(key, value) }
func Bool(key string, value bool) Field       { return slog.Bool(key, value) }
func Any(key string, value any) Field         { return slog.Any(key, value) }

// Err records err under "error". A nil error is logged as an empty string.
func Err(err error) Field {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Duration records d in its String form, e.g. "1.5s".
func Duration(key string, d time.Duration) Field {
	return slog.String(key, d.String())
}

// Time records t as RFC 3339 in UTC.
func Time(key string, t time.Time) Field {
	return slog.String(key, t.UTC().Format(time.RFC3339))
}

// Options configures New.
type Options struct {
	Output    io.Writer
	Level     Level
	Format    Format
	AddSource bool
}

// Logger writes leveled entries with structured fields.
type Logger struct {
	sl *slog.Logger
}

// New builds a logger. A nil Output means stderr.
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}

	var h slog.Handler
	if opts.Format == FormatText {
		h = slog.NewTextHandler(opts.Output, hopts)
	} else {
		h = slog.NewJSONHandler(opts.Output, hopts)
	}
	return &Logger{sl: slog.New(h)}
}

// Default writes info and above as JSON to stderr.
func Default() *Logger {
	return New(Options{Level: LevelInfo, Format: FormatJSON})
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Options{Output: io.Discard, Level: levelOff})
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return &Logger{sl: l.sl.With(args...)}
}

// RequestIDKey is the field key for request tracing.
const RequestIDKey = "request_id"

// WithRequestID returns a logger tagged with a request id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.With(String(RequestIDKey, requestID))
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l.sl.Enabled(context.Background(), level)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *Logger) log(level Level, msg string, fields []Field) {
	l.sl.LogAttrs(context.Background(), level, msg, fields...)
}

// StdLogger adapts the logger for APIs that want a *log.Logger, such as
// http.Server.ErrorLog. Every line is written at level.
func (l *Logger) StdLogger(level Level) *log.Logger {
	return slog.NewLogLogger(l.sl.Handler(), level)
}

type ctxKey struct{}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// Assessment fields.
func StudentID(id string) Field     { return String("student_id", id) }
func StudentName(name string) Field { return String("student_name", name) }
func DeliverableID(id string) Field { return String("deliverable_id", id) }
func RosterSize(n int) Field        { return Int("roster_size", n) }
func SlotKey(key string) Field      { return String("slot_key", key) }
func Backend(name string) Field     { return String("backend", name) }
func Component(name string) Field   { return String("component", name) }
func Operation(name string) Field   { return String("operation", name) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
