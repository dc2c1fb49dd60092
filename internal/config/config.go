// Package config loads application configuration from an optional YAML file
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every generic environment override, e.g. APP_LOG_LEVEL.
const EnvPrefix = "APP_"

// DefaultJWTSecret is used when no signing secret is configured. Tokens signed
// with it can be forged by anyone who reads this source.
const DefaultJWTSecret = "secret-key"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	JWT       JWTConfig       `koanf:"jwt"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig configures the hosted Postgres connection.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	Key             string        `koanf:"key"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig configures access token signing.
type JWTConfig struct {
	Secret              string        `koanf:"secret"`
	AccessTokenDuration time.Duration `koanf:"access_token_duration"`
}

// CORSConfig configures the cross-origin policy.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
	AllowedMethods []string `koanf:"allowed_methods"`
	AllowedHeaders []string `koanf:"allowed_headers"`
}

// RateLimitConfig configures the limiter in front of register and login.
type RateLimitConfig struct {
	AuthPerMinute int `koanf:"auth_per_minute"`
	AuthBurst     int `koanf:"auth_burst"`
}

// TelemetryConfig configures OpenTelemetry tracing. Tracing is off when
// OTLPEndpoint is empty.
type TelemetryConfig struct {
	ServiceName  string `koanf:"service_name"`
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	Insecure     bool   `koanf:"insecure"`
}

// Default returns the configuration used for any key not set elsewhere.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "3000",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectTimeout:  10 * time.Second,
			ConnectAttempts: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		JWT: JWTConfig{
			AccessTokenDuration: time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"https://rantaucash.vercel.app"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: 20,
			AuthBurst:     5,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "rantaucash-api",
		},
	}
}

// envAliases maps the deployment's historical variable names onto config keys.
var envAliases = map[string]string{
	"SUPABASE_URL": "database.url",
	"SUPABASE_KEY": "database.key",
	"DATABASE_URL": "database.url",
	"JWT_SECRET":   "jwt.secret",
	"PORT":         "server.port",
}

// listKeys hold comma separated values when set from the environment.
var listKeys = map[string]bool{
	"cors.allowed_origins": true,
	"cors.allowed_methods": true,
	"cors.allowed_headers": true,
}

// Load reads configuration from path (skipped when empty or missing) and then
// from the environment. Environment values win.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// envToKey maps an environment variable to a koanf key. Unknown variables
// map to "" and are skipped by the provider.
func envToKey(name, value string) (string, interface{}) {
	key, ok := envAliases[name]
	if !ok {
		if !strings.HasPrefix(name, EnvPrefix) {
			return "", nil
		}
		// APP_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
		rest := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		section, field, found := strings.Cut(rest, "_")
		if !found {
			return "", nil
		}
		key = section + "." + field
	}

	if listKeys[key] {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return key, out
	}

	return key, value
}

// Validate reports configuration the process cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url (SUPABASE_URL) is required"))
	}
	if c.Database.Key == "" {
		errs = append(errs, errors.New("database.key (SUPABASE_KEY) is required"))
	}
	if c.JWT.AccessTokenDuration <= 0 {
		errs = append(errs, errors.New("jwt.access_token_duration must be positive"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("cors.allowed_origins must not be empty"))
	}

	return errors.Join(errs...)
}

// UsesDefaultJWTSecret reports whether no signing secret was configured.
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWT.Secret == ""
}

// JWTSecret returns the configured signing secret or DefaultJWTSecret.
func (c *Config) JWTSecret() string {
	if c.JWT.Secret == "" {
		return DefaultJWTSecret
	}
	return c.JWT.Secret
}
