package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("render", "frame %d", 3)
	l.Errorf("avatar", "bad %s", "png")
	out := buf.String()
	assert.Contains(t, out, " [INFO] render: frame 3\n")
	assert.Contains(t, out, " [ERROR] avatar: bad png\n")
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, false)
	l.Infof("web", "listening on %s", ":8080")
	assert.Contains(t, buf.String(), "listening on :8080")
	assert.Contains(t, buf.String(), "component=web")
	assert.True(t, l.Slog.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Slog.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, NewSlogLogger(&buf, true).Slog.Enabled(context.Background(), slog.LevelDebug))
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Infof("x", "y")
	l.Errorf("x", "y")
}
