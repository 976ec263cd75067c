package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("USERS_PRIMARY__ENV", "development")
	t.Setenv("USERS_DATABASE__HOST", "localhost")
	t.Setenv("USERS_DATABASE__PORT", "5432")
	t.Setenv("USERS_DATABASE__USER", "postgres")
	t.Setenv("USERS_DATABASE__PASSWORD", "p@ss:word")
	t.Setenv("USERS_DATABASE__NAME", "users")
	t.Setenv("USERS_DATABASE__SSL_MODE", "disable")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.ssl_mode", envKey("USERS_DATABASE__SSL_MODE"))
	assert.Equal(t, "observability.logging.level", envKey("USERS_OBSERVABILITY__LOGGING__LEVEL"))
	assert.Equal(t, "primary.env", envKey("USERS_PRIMARY__ENV"))
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERS_DATABASE__MAX_OPEN_CONNS", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "p@ss:word", cfg.Database.Password)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Zero(t, cfg.Database.MaxIdleConns)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
}

func TestLoadConfig_Observability(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERS_PRIMARY__ENV", "production")
	t.Setenv("USERS_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("USERS_OBSERVABILITY__LOGGING__FORMAT", "console")
	t.Setenv("USERS_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD", "250ms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	obs := cfg.Observability
	assert.Equal(t, "warn", obs.GetLogLevel())
	assert.Equal(t, "console", obs.Logging.Format)
	assert.Equal(t, 250*time.Millisecond, obs.Logging.SlowQueryThreshold)
	assert.True(t, obs.IsProduction())
	assert.Empty(t, obs.NewRelic.LicenseKey)
}

func TestLoadConfig_PartialObservability(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USERS_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	obs := cfg.Observability
	assert.Equal(t, ServiceName, obs.ServiceName)
	assert.Equal(t, "development", obs.Environment)
	assert.Equal(t, "debug", obs.Logging.Level)

	defaults := DefaultObservabilityConfig()
	assert.Equal(t, defaults.Logging.Format, obs.Logging.Format)
	assert.Equal(t, defaults.Logging.SlowQueryThreshold, obs.Logging.SlowQueryThreshold)
	assert.Equal(t, defaults.NewRelic, obs.NewRelic)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "empty required value",
			env:  map[string]string{"USERS_DATABASE__HOST": ""},
			want: "'Host' failed on the 'required' tag",
		},
		{
			name: "unknown ssl mode",
			env:  map[string]string{"USERS_DATABASE__SSL_MODE": "sometimes"},
			want: "'SSLMode' failed on the 'oneof' tag",
		},
		{
			name: "negative pool size",
			env:  map[string]string{"USERS_DATABASE__MAX_IDLE_CONNS": "-1"},
			want: "'MaxIdleConns' failed on the 'gte' tag",
		},
		{
			name: "pool size beyond int32",
			env:  map[string]string{"USERS_DATABASE__MAX_OPEN_CONNS": "3000000000"},
			want: "'MaxOpenConns' failed on the 'lte' tag",
		},
		{
			name: "bad log level",
			env:  map[string]string{"USERS_OBSERVABILITY__LOGGING__LEVEL": "loud"},
			want: "invalid logging level: loud",
		},
		{
			name: "bad log format",
			env:  map[string]string{"USERS_OBSERVABILITY__LOGGING__FORMAT": "xml"},
			want: "invalid logging format: xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Format = "xml"
	assert.ErrorContains(t, cfg.Validate(), "invalid logging format")

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.ServiceName = ""
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())
}
