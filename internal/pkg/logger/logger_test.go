package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"orders/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, logger.ParseLevel(tc.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json format writes structured records", func(t *testing.T) {
		var buf bytes.Buffer
		l := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})

		l.Info("order advanced", "order_id", 42, "status", "sent")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "order advanced", record["msg"])
		assert.InDelta(t, 42, record["order_id"], 0)
		assert.Equal(t, "sent", record["status"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		l := logger.New(logger.Config{Level: "info", Format: "text", Output: &buf})

		l.Info("cache miss", "key", "orders:list")

		assert.Contains(t, buf.String(), "msg=\"cache miss\"")
		assert.Contains(t, buf.String(), "key=orders:list")
	})

	t.Run("records below the configured level are dropped", func(t *testing.T) {
		var buf bytes.Buffer
		l := logger.New(logger.Config{Level: "warn", Output: &buf})

		l.Info("ignored")
		l.Debug("ignored too")

		assert.Empty(t, buf.String())
	})
}
