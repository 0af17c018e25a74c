package util

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPointer(t *testing.T) {
	p := Pointer(42)
	assert.Equal(t, 42, *p)
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ZerologLevel(TraceLevel))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(ErrorLevel))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(99), "unknown levels fall back to info")
}

func TestInitializeLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	InitializeLoggerTo(&buf, WarnLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger := GetLogger("Test")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "Test")
}
