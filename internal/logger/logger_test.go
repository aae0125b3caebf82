package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "pretty", slog.LevelInfo)

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.With("owner_id", "user-1").WithGroup("restore").Warn("entity restored with adjustments",
		"orphaned", true,
		"error", errors.New("parent missing"),
		slog.Group("parent", "type", "vision"),
	)

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "entity restored with adjustments")
	assert.Contains(t, out, "owner_id")
	assert.Contains(t, out, "restore.orphaned")
	assert.Contains(t, out, "parent missing")
	assert.Contains(t, out, "restore.parent.type")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", slog.LevelDebug)

	log.Debug("recycle bin cleared", "deleted_count", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "recycle bin cleared", record["msg"])
	assert.Equal(t, float64(2), record["deleted_count"])
}
