package castwave

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied by DefaultConfig.
const (
	DefaultBaseURL           = "https://api.castwave.com"
	DefaultAPIVersion        = "2026-06-01"
	DefaultOpenTimeout       = 30 * time.Second
	DefaultReadTimeout       = 80 * time.Second
	DefaultMaxNetworkRetries = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 2 * time.Second
)

// Config is the process-wide configuration snapshot a Client is built from.
// It is read by the executor on every call and assumed stable while calls
// are in flight; set it once at startup.
type Config struct {
	// BaseURL is the API origin, without a trailing slash.
	BaseURL string
	// APIVersion is sent as the Castwave-Version header when non-empty.
	APIVersion string
	// APIKey authenticates every request. Validated locally at call time.
	APIKey string
	// Account scopes requests to a connected account when non-empty.
	Account string
	// ProxyURL routes requests through an HTTP proxy when non-empty;
	// otherwise the standard environment proxy settings apply.
	ProxyURL string
	// InsecureSkipVerify disables TLS verification. Test environments only.
	InsecureSkipVerify bool
	// CABundle is a path to a PEM bundle replacing the system roots.
	CABundle string
	// OpenTimeout bounds connection establishment (dial and TLS handshake).
	OpenTimeout time.Duration
	// ReadTimeout bounds the wait for response headers.
	ReadTimeout time.Duration
	// MaxNetworkRetries is how many times a transport failure is retried.
	MaxNetworkRetries int
	// InitialRetryDelay seeds the exponential backoff and is its floor.
	InitialRetryDelay time.Duration
	// MaxRetryDelay caps the exponential backoff.
	MaxRetryDelay time.Duration
	// LogLevel selects the zerolog level ("debug", "info", ...); empty
	// disables logging.
	LogLevel string
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		APIVersion:        DefaultAPIVersion,
		OpenTimeout:       DefaultOpenTimeout,
		ReadTimeout:       DefaultReadTimeout,
		MaxNetworkRetries: DefaultMaxNetworkRetries,
		InitialRetryDelay: DefaultInitialRetryDelay,
		MaxRetryDelay:     DefaultMaxRetryDelay,
	}
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("castwave: BaseURL must not be empty")
	}
	if c.MaxNetworkRetries < 0 {
		return fmt.Errorf("castwave: MaxNetworkRetries must be non-negative")
	}
	if c.InitialRetryDelay <= 0 {
		return fmt.Errorf("castwave: InitialRetryDelay must be positive")
	}
	if c.MaxRetryDelay < c.InitialRetryDelay {
		return fmt.Errorf("castwave: MaxRetryDelay must be at least InitialRetryDelay")
	}
	return nil
}

// ConfigFromEnv builds a Config from CASTWAVE_* environment variables,
// loading a .env file first when one exists in the working directory.
// Unset variables keep their defaults.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("CASTWAVE_API_KEY")

	if v := os.Getenv("CASTWAVE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CASTWAVE_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv("CASTWAVE_ACCOUNT"); v != "" {
		cfg.Account = v
	}
	if v := os.Getenv("CASTWAVE_PROXY_URL"); v != "" {
		cfg.ProxyURL = v
	}
	if v := os.Getenv("CASTWAVE_CA_BUNDLE"); v != "" {
		cfg.CABundle = v
	}
	if v := os.Getenv("CASTWAVE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("CASTWAVE_INSECURE_SKIP_VERIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("parse CASTWAVE_INSECURE_SKIP_VERIFY: %w", err)
		}
		cfg.InsecureSkipVerify = b
	}
	if v := os.Getenv("CASTWAVE_MAX_NETWORK_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse CASTWAVE_MAX_NETWORK_RETRIES: %w", err)
		}
		cfg.MaxNetworkRetries = n
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"CASTWAVE_OPEN_TIMEOUT", &cfg.OpenTimeout},
		{"CASTWAVE_READ_TIMEOUT", &cfg.ReadTimeout},
		{"CASTWAVE_INITIAL_RETRY_DELAY", &cfg.InitialRetryDelay},
		{"CASTWAVE_MAX_RETRY_DELAY", &cfg.MaxRetryDelay},
	}
	for _, d := range durations {
		v := os.Getenv(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
