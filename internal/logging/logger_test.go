package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/noop"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/trackd/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("creates json logger", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "info", Format: "json", Stdout: true}, nil)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("creates console logger at debug", func(t *testing.T) {
		logger, err := New(config.LoggingConfig{Level: "debug", Format: "console", Stdout: true}, nil)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		_, err := New(config.LoggingConfig{Level: "loud", Format: "json", Stdout: true}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("rejects config with no outputs", func(t *testing.T) {
		// OTEL enabled but no provider available leaves zero cores.
		_, err := New(config.LoggingConfig{Level: "info", Format: "json", Stdout: false, OTEL: true}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one log output")
	})

	t.Run("attaches otel bridge when provider available", func(t *testing.T) {
		// Same config as above, but with a provider: the bridge core is
		// the only output and construction succeeds.
		logger, err := New(config.LoggingConfig{Level: "info", Format: "json", Stdout: false, OTEL: true},
			noop.NewLoggerProvider())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})
}
