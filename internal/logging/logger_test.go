package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, slog.LevelInfo, true)

	log.Debug("hidden")
	log.Info("rendered", "error", "boom", "features", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rendered")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "features=3")
	assert.NotContains(t, out, "\x1b[", "no colour codes")
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Error("dropped") })
}
