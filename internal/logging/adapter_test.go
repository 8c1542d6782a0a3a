package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogAdapter(t *testing.T) {
	t.Run("nil logger falls back to default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		require.NotNil(t, adapter)
		assert.Equal(t, slog.Default(), adapter.Logger())
	})

	t.Run("keeps the given logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		adapter := NewSlogAdapter(logger)
		assert.Equal(t, logger, adapter.Logger())
	})
}

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	adapter.Debug("debug msg", "k", "v")
	adapter.Info("info msg", "k", "v")
	adapter.Warn("warn msg", "k", "v")
	adapter.Error("error msg", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=\"debug msg\" k=v")
	assert.Contains(t, out, "level=INFO msg=\"info msg\" k=v")
	assert.Contains(t, out, "level=WARN msg=\"warn msg\" k=v")
	assert.Contains(t, out, "level=ERROR msg=\"error msg\" k=v")
}
