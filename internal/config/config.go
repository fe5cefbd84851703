package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session storage backends.
const (
	SessionBackendBolt   = "bolt"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config aggregates all runtime settings required by the client and the stub backend.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Session     SessionConfig
	Redis       RedisConfig
	Watch       WatchConfig
	Metrics     MetricsConfig
	Stub        StubConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type APIConfig struct {
	BaseURL     string
	Timeout     time.Duration
	ReadRetries int
	RateLimit   float64
	RateBurst   int
	MaxConns    int
}

type SessionConfig struct {
	Backend     string
	Path        string
	Bucket      string
	RedisPrefix string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type WatchConfig struct {
	Interval time.Duration
}

type MetricsConfig struct {
	Addr string
}

type StubConfig struct {
	Host string
	Port string
	Seed bool
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults that work against a backend on localhost.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "foodshare"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:     strings.TrimRight(getString("API_BASE_URL", "http://localhost:5000"), "/"),
			Timeout:     getDuration("API_TIMEOUT", 10*time.Second),
			ReadRetries: getInt("API_READ_RETRIES", 1),
			RateLimit:   getFloat("API_RATE_LIMIT", 0),
			RateBurst:   getInt("API_RATE_BURST", 5),
			MaxConns:    getInt("API_MAX_CONNS", 16),
		},
		Session: SessionConfig{
			Backend:     strings.ToLower(getString("SESSION_BACKEND", SessionBackendBolt)),
			Path:        getString("SESSION_PATH", defaultSessionPath()),
			Bucket:      getString("SESSION_BUCKET", "session"),
			RedisPrefix: getString("SESSION_REDIS_PREFIX", "foodshare:session:"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Watch: WatchConfig{
			Interval: getDuration("WATCH_INTERVAL", 30*time.Second),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		Stub: StubConfig{
			Host: getString("STUB_HOST", "127.0.0.1"),
			Port: getString("STUB_PORT", "5000"),
			Seed: getBool("STUB_SEED", true),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "warn"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	switch c.Session.Backend {
	case SessionBackendBolt, SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: API_TIMEOUT must be positive")
	}
	if c.API.ReadRetries < 0 {
		c.API.ReadRetries = 0
	}
	return nil
}

// StubAddress returns the listen address of the stub backend.
func (c *Config) StubAddress() string {
	return fmt.Sprintf("%s:%s", c.Stub.Host, c.Stub.Port)
}

func defaultSessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "foodshare", "session.db")
	}
	return "./data/session.db"
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
