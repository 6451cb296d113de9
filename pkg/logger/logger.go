// Package logger wraps log/slog with a critical level, error helpers split
// by whether the caller or the service is at fault, and a request-scoped
// carrier.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const LevelCritical = slog.Level(12)

const (
	FormatJSON = "json"
	FormatText = "text"
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	// BusinessError logs a rejected request at warn. Nil errors are ignored.
	BusinessError(message string, err error, args ...any)
	// InternalError logs a failure of the service itself at error. Nil errors
	// are ignored.
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
}

type Options struct {
	Level   slog.Level
	Format  string
	Service string
}

var levelsByName = map[string]slog.Level{
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warn":     slog.LevelWarn,
	"warning":  slog.LevelWarn,
	"error":    slog.LevelError,
	"critical": LevelCritical,
	"fatal":    LevelCritical,
}

// OptionsFromEnv reads LOG_LEVEL, LOG_FORMAT and ENV through getenv. An unset
// or unknown level means info, or debug when ENV is development.
func OptionsFromEnv(getenv func(string) string) Options {
	opts := Options{Level: slog.LevelInfo, Format: FormatJSON, Service: "household-app"}
	if clean(getenv("ENV")) == "development" {
		opts.Level = slog.LevelDebug
	}
	if level, ok := levelsByName[clean(getenv("LOG_LEVEL"))]; ok {
		opts.Level = level
	}
	if clean(getenv("LOG_FORMAT")) == FormatText {
		opts.Format = FormatText
	}
	return opts
}

func NewFromEnv() Logger {
	return New(os.Stdout, OptionsFromEnv(os.Getenv))
}

func New(output io.Writer, opts Options) Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level, ReplaceAttr: labelCritical}

	var handler slog.Handler
	if opts.Format == FormatText {
		handler = slog.NewTextHandler(output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(output, handlerOpts)
	}

	base := slog.New(handler)
	if opts.Service != "" {
		base = base.With("service", opts.Service)
	}
	return &slogLogger{base: base}
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(io.Discard, Options{Level: LevelCritical + 1, Format: FormatText})
}

type slogLogger struct {
	base *slog.Logger
}

func (l *slogLogger) Debug(message string, args ...any) {
	l.base.Debug(message, args...)
}

func (l *slogLogger) Info(message string, args ...any) {
	l.base.Info(message, args...)
}

func (l *slogLogger) Warn(message string, args ...any) {
	l.base.Warn(message, args...)
}

func (l *slogLogger) Error(message string, args ...any) {
	l.base.Error(message, args...)
}

func (l *slogLogger) Critical(message string, args ...any) {
	l.base.Log(context.Background(), LevelCritical, message, args...)
}

func (l *slogLogger) BusinessError(message string, err error, args ...any) {
	l.logErr(slog.LevelWarn, message, err, args)
}

func (l *slogLogger) InternalError(message string, err error, args ...any) {
	l.logErr(slog.LevelError, message, err, args)
}

func (l *slogLogger) logErr(level slog.Level, message string, err error, args []any) {
	if err == nil {
		return
	}
	l.base.Log(context.Background(), level, message, append([]any{"err", err}, args...)...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...)}
}

type contextKey struct{}

// IntoContext stores a request-scoped logger.
func IntoContext(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the request-scoped logger, or fallback when the
// context carries none.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if log, ok := ctx.Value(contextKey{}).(Logger); ok && log != nil {
		return log
	}
	return fallback
}

func labelCritical(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		if level, ok := attr.Value.Any().(slog.Level); ok && level >= LevelCritical {
			attr.Value = slog.StringValue("CRITICAL")
		}
	}
	return attr
}

func clean(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
