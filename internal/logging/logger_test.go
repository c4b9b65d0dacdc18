package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/usersdb/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestRequestIDIsCarriedByContext(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{ServiceName: "usersdb", Level: "debug", Output: &buf})

	ctx := log.WithRequestID(context.Background(), "req-1")
	log.Info(ctx, "hello")
	log.Error(ctx, "boom", errors.New("db down"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "req-1", lines[0]["request_id"])
	assert.Equal(t, "usersdb", lines[0]["service"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "db down", lines[1]["error"])
}

func TestRequestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Output: &buf})

	log.Request(context.Background(), "GET", "/api/users", 200, time.Millisecond)
	log.Request(context.Background(), "GET", "/api/users/9", 404, time.Millisecond)
	log.Request(context.Background(), "POST", "/api/users", 500, time.Millisecond)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "error", lines[2]["level"])
	assert.EqualValues(t, 404, lines[1]["status"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Options{Level: "warn", Output: &buf})

	log.Debug(context.TODO(), "hidden")
	log.Info(context.TODO(), "hidden")
	log.Warn(context.TODO(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, logging.ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, logging.ParseLevel("verbose"))
}
