package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Data.Dir = "/tmp/trackd-test"
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8742, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())

	assert.Equal(t, 30*time.Second, cfg.Scheduler.Tick.Duration())
	assert.Equal(t, 60*time.Second, cfg.Scheduler.FiringWindow.Duration())

	assert.Equal(t, "notify-send", cfg.Notify.Command)
	assert.Equal(t, 8*time.Second, cfg.Notify.Timeout.Duration())
	assert.Equal(t, 12, cfg.Notify.RatePerMinute)

	assert.Equal(t, 30*time.Second, cfg.Reports.Timeout.Duration())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Stdout)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, "trackd", cfg.Telemetry.ServiceName)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Scheduler.Tick = Duration(5 * time.Second)
	applyDefaults(cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.Tick.Duration())
}

func TestValidate(t *testing.T) {
	t.Run("accepts valid config", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 70000
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("rejects missing data dir", func(t *testing.T) {
		cfg := validConfig()
		cfg.Data.Dir = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data.dir")
	})

	t.Run("rejects non-positive scheduler tick", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scheduler.Tick = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.tick")
	})

	t.Run("rejects bad logging format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Format = "xml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging.format")
	})

	t.Run("rejects bad telemetry protocol when enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Protocol = "udp"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.protocol")
	})

	t.Run("ignores telemetry fields when disabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = false
		cfg.Telemetry.Protocol = "udp"
		require.NoError(t, cfg.Validate())
	})
}

func TestDataPaths(t *testing.T) {
	d := DataConfig{Dir: "/var/lib/trackd"}

	assert.Equal(t, "/var/lib/trackd/activities.csv", d.LedgerPath())
	assert.Equal(t, "/var/lib/trackd/reminders.json", d.RemindersPath())
	assert.Equal(t, "/var/lib/trackd/goals.json", d.GoalsPath())
	assert.Equal(t, "/var/lib/trackd/motivation.json", d.MotivationPath())
	assert.Equal(t, "/var/lib/trackd/notifications.json", d.NotificationsPath())
	assert.Equal(t, "/var/lib/trackd/todos.json", d.TodosPath())
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("45s")))
	assert.Equal(t, 45*time.Second, d.Duration())

	require.Error(t, d.UnmarshalText([]byte("-5s")))
	require.Error(t, d.UnmarshalText([]byte("not-a-duration")))
}
