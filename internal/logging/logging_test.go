package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", FormatJSON)

	log.Debug().Msg("hidden")
	log.Info().Str("trap", "north").Msg("armed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"trap":"north"`)
	assert.Contains(t, out, `"message":"armed"`)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", FormatConsole)
	log.Debug().Int("count", 3).Msg("launched")
	assert.Contains(t, buf.String(), "launched")
	assert.Contains(t, buf.String(), "count=3")
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, OrNop(nil).GetLevel())

	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, OrNop(&l).GetLevel())
}
