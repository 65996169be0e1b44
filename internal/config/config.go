package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Mode selects which gateway implementation serves data calls. It is chosen
// once at composition time and injected; callers never branch on it.
type Mode string

const (
	ModeMock Mode = "mock"
	ModeReal Mode = "real"
)

type Config struct {
	Mode   Mode `env:"STOREFRONT_MODE" envDefault:"mock"`
	API    APIConfig
	Mock   MockConfig
	Auth   AuthConfig
	Redis  RedisConfig
	Server ServerConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"https://api.genz-store.com"`
	Version string        `env:"API_VERSION" envDefault:"v1"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

type MockConfig struct {
	Delay          time.Duration `env:"MOCK_DELAY" envDefault:"500ms"`
	SimulateErrors bool          `env:"MOCK_SIMULATE_ERRORS" envDefault:"false"`
	ErrorRate      float64       `env:"MOCK_ERROR_RATE" envDefault:"0.1"`
	JWTSecret      string        `env:"MOCK_JWT_SECRET" envDefault:"storefront-dev-secret"`
	JWTExpiration  time.Duration `env:"MOCK_JWT_EXPIRATION" envDefault:"24h"`
	SettleOrders   bool          `env:"MOCK_SETTLE_ORDERS" envDefault:"false"`
	SettleAfter    time.Duration `env:"MOCK_SETTLE_AFTER" envDefault:"30s"`
}

type AuthConfig struct {
	TokenKey  string `env:"AUTH_TOKEN_KEY" envDefault:"authToken"`
	TokenPath string `env:"AUTH_TOKEN_PATH" envDefault:".storefront/token.json"`
}

// RedisConfig is optional; with an empty Addr the file token store is used.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Mode != ModeMock && cfg.Mode != ModeReal {
		return nil, fmt.Errorf("invalid mode %q", cfg.Mode)
	}
	return cfg, nil
}
