package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewStandardLogger(buf)
	l.Printf("loaded %d rows", 3)
	l.Debugf("hidden %d", 4)
	assert.Contains(t, buf.String(), "loaded 3 rows")
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	l = NewVerboseLogger(buf)
	l.Debugf("shown %d", 5)
	assert.Contains(t, buf.String(), "DEBUG shown 5")
}

func TestJSONLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewJSONLogger(buf, false).With("run", "abc")
	l.Printf("skipping row: %s", "line 4")
	l.Debugf("not written")
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "skipping row: line 4", entry["msg"])
	assert.Equal(t, "abc", entry["run"])

	buf.Reset()
	NewJSONLogger(buf, true).Debugf("written")
	assert.Contains(t, buf.String(), `"level":"debug"`)
}
