// internal/logging/logger_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerConfig_Validate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		config := &LoggerConfig{
			Level:  LevelInfo,
			Format: FormatJSON,
		}
		err := config.Validate()
		assert.NoError(t, err)
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		config := &LoggerConfig{Level: "invalid"}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "level")
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		config := &LoggerConfig{Format: "logfmt"}
		err := config.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "format")
	})

	t.Run("applies defaults", func(t *testing.T) {
		config := &LoggerConfig{}
		config.ApplyDefaults()
		assert.Equal(t, LevelInfo, config.Level)
		assert.Equal(t, FormatConsole, config.Format)
		assert.NotNil(t, config.Output)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("creates logger", func(t *testing.T) {
		logger, err := NewLogger(nil)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		_, err := NewLogger(&LoggerConfig{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&LoggerConfig{
		Level:  LevelWarn,
		Output: &buf,
	})
	require.NoError(t, err)

	t.Run("filters below threshold", func(t *testing.T) {
		buf.Reset()
		logger.Debug("should not appear")
		logger.Info("should not appear")
		assert.Empty(t, buf.String())
	})

	t.Run("logs at and above threshold", func(t *testing.T) {
		buf.Reset()
		logger.Warn("warning")
		logger.Error("error")
		assert.Contains(t, buf.String(), "warning")
		assert.Contains(t, buf.String(), "error")
	})
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&LoggerConfig{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: &buf,
	})
	require.NoError(t, err)

	WithRunID(logger).Info("analyzed target", zap.String("url", "/v1/transactions"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "analyzed target", entry["msg"])
	assert.Equal(t, "/v1/transactions", entry["url"])
	assert.NotEmpty(t, entry["run_id"])
}
