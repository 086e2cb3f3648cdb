package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Transport TransportConfig `yaml:"transport" toml:"transport"`
	DB        DBConfig        `yaml:"db" toml:"db"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	AI        AIConfig        `yaml:"ai" toml:"ai"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Session   SessionConfig   `yaml:"session" toml:"session"`
	Health    HealthConfig    `yaml:"health" toml:"health"`
	Version   string          `yaml:"version" toml:"version"`
}

type ServerConfig struct {
	Host        string   `yaml:"host" toml:"host"`
	Port        int      `yaml:"port" toml:"port"`
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
}

// TransportConfig selects how the MCP surface is exposed: "http" mounts it
// under /mcp next to the REST API, "stdio" serves it on stdin/stdout.
type TransportConfig struct {
	Mode string `yaml:"mode" toml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	Path  string `yaml:"path" toml:"path"`
}

// AIConfig configures welcome plan generation. Without an API key the
// static generator is used.
type AIConfig struct {
	APIKey  string        `yaml:"api_key" toml:"api_key"`
	Model   string        `yaml:"model" toml:"model"`
	Breaker BreakerConfig `yaml:"breaker" toml:"breaker"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `yaml:"failure_threshold" toml:"failure_threshold"`
	Timeout          time.Duration `yaml:"timeout" toml:"timeout"`
	Interval         time.Duration `yaml:"interval" toml:"interval"`
}

type AuthConfig struct {
	Passcode    string        `yaml:"passcode" toml:"passcode"`
	TokenSecret string        `yaml:"token_secret" toml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl" toml:"token_ttl"`
}

type SessionConfig struct {
	LogoutWindow time.Duration `yaml:"logout_window" toml:"logout_window"`
}

type HealthConfig struct {
	Interval time.Duration `yaml:"interval" toml:"interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: "vecinored.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		AI: AIConfig{
			Model: "gemini-2.5-flash",
			Breaker: BreakerConfig{
				FailureThreshold: 3,
				Timeout:          30 * time.Second,
				Interval:         time.Minute,
			},
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Session: SessionConfig{
			LogoutWindow: 3 * time.Second,
		},
		Health: HealthConfig{
			Interval: 30 * time.Second,
		},
		Version: "dev",
	}
}

// Load reads configuration from an optional YAML or TOML file and
// environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("VECINORED_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Session.LogoutWindow <= 0 {
		return fmt.Errorf("session logout window must be positive")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("VECINORED_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("VECINORED_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid VECINORED_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if origins := os.Getenv("VECINORED_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}
	if mode := os.Getenv("VECINORED_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("VECINORED_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("VECINORED_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("VECINORED_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if key := os.Getenv("VECINORED_AI_API_KEY"); key != "" {
		cfg.AI.APIKey = key
	}
	if model := os.Getenv("VECINORED_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if passcode := os.Getenv("VECINORED_AUTH_PASSCODE"); passcode != "" {
		cfg.Auth.Passcode = passcode
	}
	if secret := os.Getenv("VECINORED_AUTH_TOKEN_SECRET"); secret != "" {
		cfg.Auth.TokenSecret = secret
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"VECINORED_AUTH_TOKEN_TTL", &cfg.Auth.TokenTTL},
		{"VECINORED_SESSION_LOGOUT_WINDOW", &cfg.Session.LogoutWindow},
		{"VECINORED_HEALTH_INTERVAL", &cfg.Health.Interval},
		{"VECINORED_AI_BREAKER_TIMEOUT", &cfg.AI.Breaker.Timeout},
	}
	for _, d := range durations {
		raw := os.Getenv(d.env)
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dst = v
	}

	if version := os.Getenv("VECINORED_VERSION"); version != "" {
		cfg.Version = version
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
