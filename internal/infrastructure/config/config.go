package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Remote backend
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"https://shmr-finance.ru/api/v1/"`
	APIToken   string        `env:"API_TOKEN"    envDefault:""`
	APITimeout time.Duration `env:"API_TIMEOUT"  envDefault:"30s"`

	// Local storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"` // sqlite, file
	DatabasePath   string `env:"DATABASE_PATH"   envDefault:"finsync.db"`
	FileStoreDir   string `env:"FILE_STORE_DIR"  envDefault:"finsync-data"`

	// Local HTTP API
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8090"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Replay worker
	ReplayInterval    time.Duration `env:"REPLAY_INTERVAL"     envDefault:"30s"`
	ReplayMaxInterval time.Duration `env:"REPLAY_MAX_INTERVAL" envDefault:"5m"`

	// Settings for the current device user. Threaded explicitly through the
	// handlers instead of living in process-global state.
	CurrentAccountID int64  `env:"CURRENT_ACCOUNT_ID" envDefault:"0"`
	DisplayCurrency  string `env:"DISPLAY_CURRENCY"   envDefault:"RUB"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
