package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SweepSchedule is a cron spec for the expired-session sweep.
	SweepSchedule string `env:"SESSION_SWEEP_SCHEDULE, default=@every 15m"`

	Mongo MongoConfig
	Redis RedisConfig
}

// MongoConfig carries the persistence connection settings. URI and Database
// are required: the process must refuse to start without them.
type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  required"`
	Username string `env:"MONGO_USER"`
	Password string `env:"MONGO_PASS"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// Missing required settings abort startup.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}
