package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nostalgic/widgets/internal/client"
	"gopkg.in/yaml.v3"
)

// Config is the embed server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Redis     RedisConfig     `yaml:"redis"`
	Widgets   WidgetsConfig   `yaml:"widgets"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr string `yaml:"addr" env:"WIDGETS_ADDR"`
	Env  string `yaml:"env" env:"APP_ENV"`

	ReadTimeout  time.Duration `yaml:"-"`
	WriteTimeout time.Duration `yaml:"-"`

	ReadTimeoutRaw  string `yaml:"read_timeout" env:"WIDGETS_READ_TIMEOUT"`
	WriteTimeoutRaw string `yaml:"write_timeout" env:"WIDGETS_WRITE_TIMEOUT"`
}

// APIConfig points at the remote nostalgic API
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"NOSTALGIC_API_BASE"`
	// AllowedBases lists extra API bases an api-base attribute may select
	AllowedBases []string `yaml:"allowed_bases" env:"NOSTALGIC_API_ALLOWED_BASES" envSeparator:","`
	UserAgent    string   `yaml:"user_agent" env:"NOSTALGIC_API_USER_AGENT"`

	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout" env:"NOSTALGIC_API_TIMEOUT"`
}

// RedisConfig enables draft persistence and rate limiting
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE"`
}

// WidgetsConfig tunes the widget runtime
type WidgetsConfig struct {
	AcceptStaleLoads bool   `yaml:"accept_stale_loads" env:"WIDGETS_ACCEPT_STALE_LOADS"`
	MaxInstances     int    `yaml:"max_instances" env:"WIDGETS_MAX_INSTANCES"`
	LocalesDir       string `yaml:"locales_dir" env:"WIDGETS_LOCALES_DIR"`

	ToastDuration time.Duration `yaml:"-"`
	InstanceTTL   time.Duration `yaml:"-"`
	// ResponseCacheTTL keeps ranking and welcome renders in Redis; 0 disables it
	ResponseCacheTTL time.Duration `yaml:"-"`

	ToastDurationRaw    string `yaml:"toast_duration" env:"WIDGETS_TOAST_DURATION"`
	InstanceTTLRaw      string `yaml:"instance_ttl" env:"WIDGETS_INSTANCE_TTL"`
	ResponseCacheTTLRaw string `yaml:"response_cache_ttl" env:"WIDGETS_RESPONSE_CACHE_TTL"`
}

// RateLimitConfig limits widget actions per client IP
type RateLimitConfig struct {
	Enabled  bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
	Requests int  `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`

	Window    time.Duration `yaml:"-"`
	WindowRaw string        `yaml:"window" env:"RATE_LIMIT_WINDOW"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Path    string `yaml:"path" env:"METRICS_PATH"`
}

// CORSConfig lists the origins allowed to embed widgets from script
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS" envSeparator:","`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Env:             "development",
			ReadTimeoutRaw:  "10s",
			WriteTimeoutRaw: "15s",
		},
		API: APIConfig{
			BaseURL:    client.DefaultBaseURL,
			UserAgent:  "nostalgic-widgets",
			TimeoutRaw: "10s",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Widgets: WidgetsConfig{
			MaxInstances:     1000,
			ToastDurationRaw:    "3s",
			InstanceTTLRaw:      "30m",
			ResponseCacheTTLRaw: "30s",
		},
		RateLimit: RateLimitConfig{
			Requests:  30,
			WindowRaw: "1m",
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		CORS:    CORSConfig{AllowOrigins: []string{"*"}},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if any)
// with ${VAR} expansion, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or "" when unset
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.read_timeout", cfg.Server.ReadTimeoutRaw, &cfg.Server.ReadTimeout},
		{"server.write_timeout", cfg.Server.WriteTimeoutRaw, &cfg.Server.WriteTimeout},
		{"api.timeout", cfg.API.TimeoutRaw, &cfg.API.Timeout},
		{"widgets.toast_duration", cfg.Widgets.ToastDurationRaw, &cfg.Widgets.ToastDuration},
		{"widgets.instance_ttl", cfg.Widgets.InstanceTTLRaw, &cfg.Widgets.InstanceTTL},
		{"widgets.response_cache_ttl", cfg.Widgets.ResponseCacheTTLRaw, &cfg.Widgets.ResponseCacheTTL},
		{"rate_limit.window", cfg.RateLimit.WindowRaw, &cfg.RateLimit.Window},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}

// Validate checks required fields and returns the first failure
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if err := validBase(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	for _, b := range c.API.AllowedBases {
		if err := validBase(b); err != nil {
			return fmt.Errorf("api.allowed_bases: %w", err)
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			return fmt.Errorf("rate_limit requires redis")
		}
		if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.requests and rate_limit.window must be positive")
		}
	}
	if c.Widgets.ToastDuration < 0 || c.Widgets.InstanceTTL < 0 || c.Widgets.ResponseCacheTTL < 0 {
		return fmt.Errorf("widgets durations must not be negative")
	}
	return nil
}

func validBase(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}

// AllowsAPIBase reports whether base is the configured API base or one of the
// allowed alternatives
func (c *Config) AllowsAPIBase(base string) bool {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return false
	}
	if base == strings.TrimRight(c.API.BaseURL, "/") {
		return true
	}
	for _, b := range c.API.AllowedBases {
		if base == strings.TrimRight(b, "/") {
			return true
		}
	}
	return false
}

// IsDevelopment reports whether the server runs in a local environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "development", "dev", "local":
		return true
	}
	return false
}
