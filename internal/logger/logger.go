// Package logger configures zerolog output for the fare calc service.
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "farecalc-service"

// Init installs the global logger. Level is one of debug, info, warn or
// error; pretty switches from JSON to the console writer for local runs.
func Init(level string, pretty bool) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out zerolog.Logger
	if pretty {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		out = zerolog.New(os.Stderr)
	}
	log.Logger = out.With().Timestamp().Str("service", serviceName).Logger()
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	return log.Logger
}

// ForComponent returns the global logger tagged with a component name, e.g.
// "farecalc" or "config-cache".
func ForComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// ForEntry derives a logger carrying the pricing entry context, so rendering
// log lines can be tied back to the entry that produced them.
func ForEntry(base zerolog.Logger, requestID, entry, pseudoCity string) zerolog.Logger {
	ctx := base.With().Str("entry", entry)
	if requestID != "" {
		ctx = ctx.Str("request_id", requestID)
	}
	if pseudoCity != "" {
		ctx = ctx.Str("pseudo_city", pseudoCity)
	}
	return ctx.Logger()
}

type ctxKey int

const requestIDKey ctxKey = 0

// ContextWithRequestID stores the request ID on a context for code below the
// transport layer.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored by the transport layer,
// or empty.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
