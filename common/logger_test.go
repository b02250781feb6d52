package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerDefaultsToSilent(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	Logger().Info("packed", "elements", 3)
	assert.Contains(t, buf.String(), "elements=3")
}
