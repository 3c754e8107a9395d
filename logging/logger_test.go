package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/crytic/abisync/logging/colors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddAndRemoveWriter will test the Logger.AddWriter and Logger.RemoveWriter functions to ensure that they work
// as expected.
func TestAddAndRemoveWriter(t *testing.T) {
	// Create a base logger
	logger := NewLogger(zerolog.InfoLevel)

	// Add three types of writers
	logger.AddWriter(os.Stdout, UNSTRUCTURED, true)
	logger.AddWriter(os.Stderr, UNSTRUCTURED, false)
	logger.AddWriter(os.Stdin, STRUCTURED, false)

	assert.Len(t, logger.unstructuredColorWriters, 1)
	assert.Len(t, logger.unstructuredWriters, 1)
	assert.Len(t, logger.structuredWriters, 1)

	// Try to add duplicate writers
	logger.AddWriter(os.Stdout, UNSTRUCTURED, true)
	logger.AddWriter(os.Stderr, UNSTRUCTURED, false)
	logger.AddWriter(os.Stdin, STRUCTURED, false)

	// Ensure that the lengths of the lists have not changed
	assert.Len(t, logger.unstructuredColorWriters, 1)
	assert.Len(t, logger.unstructuredWriters, 1)
	assert.Len(t, logger.structuredWriters, 1)

	// Remove each writer
	logger.RemoveWriter(os.Stdout, UNSTRUCTURED, true)
	logger.RemoveWriter(os.Stderr, UNSTRUCTURED, false)
	logger.RemoveWriter(os.Stdin, STRUCTURED, false)

	assert.Len(t, logger.unstructuredColorWriters, 0)
	assert.Len(t, logger.unstructuredWriters, 0)
	assert.Len(t, logger.structuredWriters, 0)

	// Removing an unknown writer is a no-op
	logger.RemoveWriter(os.Stdout, STRUCTURED, false)
	assert.Len(t, logger.structuredWriters, 0)
}

// TestDisabledColors verifies that the colorized unstructured writer emits plain text once colors are disabled.
func TestDisabledColors(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, true)

	// Disable colors and log msg
	colors.DisableColor()
	defer colors.EnableColor()
	logger.Info("foo")

	// Ensure that msg doesn't include colors afterwards
	prefix := fmt.Sprintf("%s %s", colors.LEFT_ARROW, "foo")
	assert.Contains(t, buf.String(), prefix)
}

// TestColorSwitching verifies that a colorized writer follows the color setting at the time of each event, including
// the message and error fields that the console formatter would otherwise highlight.
func TestColorSwitching(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, true)

	colors.DisableColor()
	defer colors.EnableColor()
	logger.Error("copy failed for ", colors.Bold, "Counter.json", errors.New("disk full"))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "copy failed for Counter.json")
	assert.Contains(t, buf.String(), "disk full")

	// Colors come back once enabled again, if the console supports them
	buf.Reset()
	colors.EnableColor()
	logger.Info("foo")
	if colors.Enabled() {
		assert.Contains(t, buf.String(), "\x1b[")
	}
}

// TestStructuredOutput verifies that structured writers receive JSON events carrying sub-logger fields, errors and
// structured info, and that events below the configured level are dropped.
func TestStructuredOutput(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, STRUCTURED, false)

	subLogger := logger.NewSubLogger(SERVICE_KEY, SYNC_SERVICE)
	subLogger.Debug("dropped")
	subLogger.Warn("copy failed for ", colors.Bold, "Counter.json", errors.New("disk full"), StructuredLogInfo{"attempt": 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.EqualValues(t, "warn", event["level"])
	assert.EqualValues(t, SYNC_SERVICE, event[SERVICE_KEY])
	assert.EqualValues(t, "copy failed for Counter.json", event["message"])
	assert.EqualValues(t, "disk full", event["error"])
	assert.Contains(t, event, "info")
	assert.Contains(t, event, "time")
}

// TestSetLevel verifies that changing the level applies to subsequent events.
func TestSetLevel(t *testing.T) {
	logger := NewLogger(zerolog.WarnLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, false)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel(zerolog.InfoLevel)
	assert.Equal(t, zerolog.InfoLevel, logger.Level())
	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

// TestPanic verifies that Panic logs the message before panicking.
func TestPanic(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel)
	var buf bytes.Buffer
	logger.AddWriter(&buf, UNSTRUCTURED, false)

	assert.Panics(t, func() {
		logger.Panic("unrecoverable")
	})
	assert.Contains(t, buf.String(), "unrecoverable")
}
