package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestCtx_AddsRequestFields(t *testing.T) {
	buf := capture(t)
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "ana")

	Ctx(ctx).Info().Msg("olá")

	m := decode(t, buf)
	assert.Equal(t, "req-1", m["request_id"])
	assert.Equal(t, "ana", m["user_id"])
	assert.Equal(t, "olá", m["message"])
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestSlogHandler(t *testing.T) {
	buf := capture(t)
	l := slog.New(NewSlogHandler(Logger())).WithGroup("sup").With("service", "api")

	l.Warn("restart", "attempt", 2, "err", errors.New("boom"))

	m := decode(t, buf)
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "restart", m["message"])
	assert.Equal(t, "api", m["sup.service"])
	assert.EqualValues(t, 2, m["sup.attempt"])
	assert.Equal(t, "boom", m["sup.err"])
}

func TestSlogHandler_Enabled(t *testing.T) {
	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
