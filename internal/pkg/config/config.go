package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	ChatModel string `mapstructure:"chat_model"`
}

type RoutingConfig struct {
	// BaseURL of the OSRM-compatible routing service.
	BaseURL string `mapstructure:"base_url"`
	// CacheTTL for route geometry, in seconds.
	CacheTTL int `mapstructure:"cache_ttl"`
}

type MonitorConfig struct {
	IntervalSeconds int     `mapstructure:"interval_seconds"`
	WalkDelta       int     `mapstructure:"walk_delta"`
	CrowdedRatio    float64 `mapstructure:"crowded_ratio"`
}

func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds) * time.Second
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.chat_model", "gpt-4o-mini")
	v.SetDefault("routing.base_url", "https://router.project-osrm.org")
	v.SetDefault("routing.cache_ttl", 300)
	v.SetDefault("monitor.interval_seconds", 10)
	v.SetDefault("monitor.walk_delta", 10)
	v.SetDefault("monitor.crowded_ratio", 0.95)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MARGDARSHAK_OPENAI_API_KEY → openai.api_key
	v.SetEnvPrefix("MARGDARSHAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Routing.BaseURL == "" {
		errs = append(errs, "routing.base_url is required")
	}
	if c.Routing.CacheTTL < 0 {
		errs = append(errs, "routing.cache_ttl must not be negative")
	}
	if c.Monitor.IntervalSeconds <= 0 {
		errs = append(errs, "monitor.interval_seconds must be positive")
	}
	if c.Monitor.WalkDelta <= 0 {
		errs = append(errs, "monitor.walk_delta must be positive")
	}
	if c.Monitor.CrowdedRatio <= 0 || c.Monitor.CrowdedRatio >= 1 {
		errs = append(errs, fmt.Sprintf("monitor.crowded_ratio must be in (0,1), got %g", c.Monitor.CrowdedRatio))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
