package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no debe salir")
	l.Component("purchasing").Warn().Str("tenant_id", "t1").Msg("stock bajo")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "purchasing", entry["component"])
	assert.Equal(t, "t1", entry["tenant_id"])
	assert.Equal(t, "stock bajo", entry["message"])
}

func TestParseLevel_DesconocidoEsInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("verbose").String())
	assert.Equal(t, "debug", parseLevel(" DEBUG ").String())
}
