package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" TRACE ": slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestModuleTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := Module(New(&buf, "warn"), "relationships")

	logger.Info("dropped")
	logger.Warn("kept", slog.Int("row", 3))

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "msg=kept")
	assert.Contains(t, out, "module=relationships")
	assert.Contains(t, out, "row=3")
}

func TestModuleNilLoggerDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Module(nil, "ui").Error("ignored") })
}
