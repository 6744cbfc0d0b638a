//go:build !integration

package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "debug level", level: "debug", want: zerolog.DebugLevel},
		{name: "info level", level: "info", want: zerolog.InfoLevel},
		{name: "warn level", level: "warn", want: zerolog.WarnLevel},
		{name: "error level", level: "error", want: zerolog.ErrorLevel},
		{name: "mixed case", level: "DEBUG", want: zerolog.DebugLevel},
		{name: "invalid level defaults to info", level: "verbose", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level, false)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestInit_TagsServiceName(t *testing.T) {
	Init("info", false)

	var buf bytes.Buffer
	log := Logger().Output(&buf)
	log.Info().Msg("up")

	assert.Contains(t, buf.String(), `"service":"farecalc-service"`)
}

func TestForComponent(t *testing.T) {
	Init("info", false)

	var buf bytes.Buffer
	log := ForComponent("pricing").Output(&buf)
	log.Info().Msg("rendered")

	assert.Contains(t, buf.String(), `"component":"pricing"`)
}

func TestForEntry(t *testing.T) {
	Init("info", false)

	var buf bytes.Buffer
	base := zerolog.New(&buf)

	log := ForEntry(base, "req-9", "WPA", "K25H")
	log.Info().Msg("rendered")

	out := buf.String()
	assert.Contains(t, out, `"entry":"WPA"`)
	assert.Contains(t, out, `"request_id":"req-9"`)
	assert.Contains(t, out, `"pseudo_city":"K25H"`)

	// Blank identity fields stay out of the line entirely.
	buf.Reset()
	log = ForEntry(base, "", "WP", "")
	log.Info().Msg("rendered")
	out = buf.String()
	assert.Contains(t, out, `"entry":"WP"`)
	assert.NotContains(t, out, "request_id")
	assert.NotContains(t, out, "pseudo_city")
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))
}
