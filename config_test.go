package castwave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultOpenTimeout, cfg.OpenTimeout)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultMaxNetworkRetries, cfg.MaxNetworkRetries)
	assert.Equal(t, DefaultInitialRetryDelay, cfg.InitialRetryDelay)
	assert.Equal(t, DefaultMaxRetryDelay, cfg.MaxRetryDelay)
	require.NoError(t, cfg.validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty base URL", func(c *Config) { c.BaseURL = "" }, "BaseURL"},
		{"negative retries", func(c *Config) { c.MaxNetworkRetries = -1 }, "MaxNetworkRetries"},
		{"zero initial delay", func(c *Config) { c.InitialRetryDelay = 0 }, "InitialRetryDelay"},
		{"max below initial", func(c *Config) { c.MaxRetryDelay = time.Millisecond }, "MaxRetryDelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CASTWAVE_API_KEY", "cw_test_123")
	t.Setenv("CASTWAVE_BASE_URL", "https://staging.castwave.dev")
	t.Setenv("CASTWAVE_API_VERSION", "2026-07-15")
	t.Setenv("CASTWAVE_ACCOUNT", "acct_9")
	t.Setenv("CASTWAVE_LOG_LEVEL", "debug")
	t.Setenv("CASTWAVE_MAX_NETWORK_RETRIES", "5")
	t.Setenv("CASTWAVE_OPEN_TIMEOUT", "10s")
	t.Setenv("CASTWAVE_READ_TIMEOUT", "1m")
	t.Setenv("CASTWAVE_INITIAL_RETRY_DELAY", "250ms")
	t.Setenv("CASTWAVE_MAX_RETRY_DELAY", "4s")
	t.Setenv("CASTWAVE_INSECURE_SKIP_VERIFY", "true")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "cw_test_123", cfg.APIKey)
	assert.Equal(t, "https://staging.castwave.dev", cfg.BaseURL)
	assert.Equal(t, "2026-07-15", cfg.APIVersion)
	assert.Equal(t, "acct_9", cfg.Account)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.MaxNetworkRetries)
	assert.Equal(t, 10*time.Second, cfg.OpenTimeout)
	assert.Equal(t, time.Minute, cfg.ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.InitialRetryDelay)
	assert.Equal(t, 4*time.Second, cfg.MaxRetryDelay)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestConfigFromEnvDefaultsWhenUnset(t *testing.T) {
	t.Setenv("CASTWAVE_API_KEY", "")
	t.Setenv("CASTWAVE_BASE_URL", "")
	t.Setenv("CASTWAVE_MAX_NETWORK_RETRIES", "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultMaxNetworkRetries, cfg.MaxNetworkRetries)
}

func TestConfigFromEnvParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad retries", "CASTWAVE_MAX_NETWORK_RETRIES", "many"},
		{"bad duration", "CASTWAVE_READ_TIMEOUT", "80"},
		{"bad bool", "CASTWAVE_INSECURE_SKIP_VERIFY", "yep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := ConfigFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
