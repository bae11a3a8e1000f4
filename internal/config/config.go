// Package config loads the service configuration from an optional YAML file
// with environment variables taking precedence, so deployments can override
// any single value without editing the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/novahq/taskhub-backend/internal/platform/envutil"
)

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	Mode        string   `yaml:"mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	EventChannel string        `yaml:"event_channel"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	AccessTTL time.Duration `yaml:"access_ttl"`
}

type ObservabilityConfig struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	Redis         RedisConfig         `yaml:"redis"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// Load reads the YAML file at path (or CONFIG_FILE when path is empty) and
// layers environment overrides on top. A missing file is not an error; the
// environment alone can configure the service.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Server.Addr = envutil.String("SERVER_ADDR", defaultStr(cfg.Server.Addr, ":8080"))
	cfg.Server.Mode = envutil.String("GIN_MODE", defaultStr(cfg.Server.Mode, "release"))
	if origins := envutil.String("CORS_ORIGINS", ""); origins != "" {
		cfg.Server.CORSOrigins = splitAndTrim(origins)
	}

	cfg.Postgres.DSN = envutil.String("POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.EventChannel = envutil.String("REDIS_EVENT_CHANNEL", defaultStr(cfg.Redis.EventChannel, "domain-events"))
	cfg.Redis.CacheTTL = envutil.Duration("REDIS_CACHE_TTL", defaultDur(cfg.Redis.CacheTTL, 5*time.Minute))

	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.AccessTTL = envutil.Duration("JWT_ACCESS_TTL", defaultDur(cfg.Auth.AccessTTL, 15*time.Minute))

	cfg.Observability.ServiceName = envutil.String("SERVICE_NAME", defaultStr(cfg.Observability.ServiceName, "taskhub-backend"))
	cfg.Observability.Environment = envutil.String("ENVIRONMENT", defaultStr(cfg.Observability.Environment, "development"))
	cfg.Observability.Version = envutil.String("SERVICE_VERSION", defaultStr(cfg.Observability.Version, "dev"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		return fmt.Errorf("postgres dsn is required (POSTGRES_DSN)")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	return nil
}

func defaultStr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func defaultDur(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
