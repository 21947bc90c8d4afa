package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogContext carries structured fields attached to a log entry
type LogContext struct {
	PaymentID     string
	TransactionID string
	Flow          string
	Fields        map[string]any
}

var (
	global zerolog.Logger
	once   sync.Once
)

// Init configures the global logger. format "console" enables the human
// readable writer, anything else emits JSON. Safe to call more than once; only
// the first call wins.
func Init(level, format string) {
	once.Do(func() {
		global = newLogger(level, format)
	})
}

func newLogger(level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if strings.ToLower(strings.TrimSpace(format)) == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "pagoconnect").Logger()
}

func get() *zerolog.Logger {
	once.Do(func() {
		// fallback when Init was never called, e.g. in tests
		global = newLogger("debug", "console")
	})
	return &global
}

func apply(e *zerolog.Event, ctx []LogContext) *zerolog.Event {
	for _, c := range ctx {
		if c.PaymentID != "" {
			e = e.Str("payment_id", c.PaymentID)
		}
		if c.TransactionID != "" {
			e = e.Str("transaction_id", c.TransactionID)
		}
		if c.Flow != "" {
			e = e.Str("flow", c.Flow)
		}
		for k, v := range c.Fields {
			e = e.Interface(k, v)
		}
	}
	return e
}

// Debug logs a debug message
func Debug(message string, ctx ...LogContext) {
	apply(get().Debug(), ctx).Msg(message)
}

// Info logs an info message
func Info(message string, ctx ...LogContext) {
	apply(get().Info(), ctx).Msg(message)
}

// Warn logs a warning message
func Warn(message string, ctx ...LogContext) {
	apply(get().Warn(), ctx).Msg(message)
}

// Error logs an error message
func Error(message string, err error, ctx ...LogContext) {
	apply(get().Error().Err(err), ctx).Msg(message)
}

// Fatal logs a fatal message and exits
func Fatal(message string, err error, ctx ...LogContext) {
	apply(get().Fatal().Err(err), ctx).Msg(message)
}
