package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", "json")
	require.NoError(t, err)

	log.Info().Str("source", "Database.xlsm").Msg("import finished")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "Database.xlsm", line["source"])
	assert.Equal(t, "import finished", line["message"])
	assert.Contains(t, line, "time")
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "WARN", "json")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", "console")
	require.NoError(t, err)

	log.Debug().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewWithWriter_Invalid(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", "json")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), log)
	l := FromContext(ctx)
	l.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_Default(t *testing.T) {
	// A context without a logger yields a no-op logger rather than panicking.
	log := FromContext(context.Background())
	log.Info().Msg("dropped")
}
