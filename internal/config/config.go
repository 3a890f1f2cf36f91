package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"4000"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Env  string `env:"ENV" envDefault:"development"`
}

type DatabaseConfig struct {
	Driver  string        `env:"DB_DRIVER" envDefault:"couchdb"`
	URL     string        `env:"DATABASE_URL,required,notEmpty"`
	Name    string        `env:"DB_NAME" envDefault:"notebook"`
	Timeout time.Duration `env:"DB_TIMEOUT" envDefault:"10s"`
}

type JWTConfig struct {
	Secret     string `env:"JWT_SECRET,required,notEmpty"`
	ExpiresIn  string `env:"JWT_EXPIRES_IN" envDefault:"1h"`
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type,Authorization"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	exp, err := ParseExpiration(cfg.JWT.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWT.Expiration = exp

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "couchdb", "mongo":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: want couchdb or mongo", c.Database.Driver)
	}
	if c.Database.Timeout <= 0 {
		return errors.New("DB_TIMEOUT must be positive")
	}
	return nil
}

// ParseExpiration parses a Go duration, also accepting a whole number of
// days written as "7d".
func ParseExpiration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("bad day count %q", s)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, err
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", s)
	}
	return d, nil
}
