package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Folio"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	// Host, user, password and name have no defaults: they must be supplied.
	DB struct {
		Host            string        `envconfig:"DB_HOST" required:"true"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" required:"true"`
		Password        string        `envconfig:"DB_PASSWORD" required:"true"`
		Name            string        `envconfig:"DB_NAME" required:"true"`
		SSLMode         string        `envconfig:"DB_SSLMODE" default:"require"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		JWTSecret      string        `envconfig:"API_JWT_SECRET"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Chat struct {
		APIKey        string `envconfig:"OPENAI_API_KEY"`
		Model         string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
		BaseURL       string `envconfig:"OPENAI_BASE_URL"`
		MaxIterations int    `envconfig:"CHAT_MAX_ITERATIONS" default:"10"`
		MaxRows       int    `envconfig:"CHAT_MAX_ROWS" default:"200"`
	}
}

func (c *Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     "/" + c.DB.Name,
		RawQuery: url.Values{"sslmode": []string{c.DB.SSLMode}}.Encode(),
	}

	return u.String()
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port)
	}

	switch c.DB.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid DB_SSLMODE %q", c.DB.SSLMode)
	}

	if c.Chat.MaxIterations < 1 {
		return fmt.Errorf("invalid CHAT_MAX_ITERATIONS %d: must be at least 1", c.Chat.MaxIterations)
	}

	if c.Chat.MaxRows < 1 {
		return fmt.Errorf("invalid CHAT_MAX_ROWS %d: must be at least 1", c.Chat.MaxRows)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
