package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// StorageMode selects where chart exports are written
type StorageMode string

const (
	StorageLocal StorageMode = "local"
	StorageGCS   StorageMode = "gcs"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for the dashboard service
type Config struct {
	// Server configuration
	Port        string `env:"PORT,default=8090"`
	Environment string `env:"ENVIRONMENT,default=development"`

	// Export storage
	StorageMode    StorageMode `env:"STORAGE_MODE,default=local"`
	GCSBucket      string      `env:"GCS_BUCKET"`
	LocalExportDir string      `env:"LOCAL_EXPORT_DIR,default=./exports"`

	// Chart canvas in pixels
	ChartHeight int `env:"CHART_HEIGHT,default=400"`
	ChartWidth  int `env:"CHART_WIDTH,default=960"`

	// Timers
	CounterDuration  time.Duration `env:"COUNTER_DURATION,default=2s"`
	AnalysisDuration time.Duration `env:"ANALYSIS_DURATION,default=5s"`
	ClockInterval    time.Duration `env:"CLOCK_INTERVAL,default=1s"`
	FrameInterval    time.Duration `env:"FRAME_INTERVAL,default=16ms"`
	SessionTTL       time.Duration `env:"SESSION_TTL,default=30m"`
	MaxSessions      int           `env:"MAX_SESSIONS,default=1000"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom loads configuration from an arbitrary lookuper
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	switch c.StorageMode {
	case StorageLocal:
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("%w: GCS_BUCKET is required when STORAGE_MODE=gcs", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_MODE %q", ErrInvalidConfig, c.StorageMode)
	}
	if c.ChartHeight <= 0 || c.ChartWidth <= 0 {
		return fmt.Errorf("%w: chart size must be positive, got %dx%d", ErrInvalidConfig, c.ChartWidth, c.ChartHeight)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("%w: MAX_SESSIONS must be positive, got %d", ErrInvalidConfig, c.MaxSessions)
	}
	for name, d := range map[string]time.Duration{
		"CLOCK_INTERVAL": c.ClockInterval,
		"FRAME_INTERVAL": c.FrameInterval,
		"SESSION_TTL":    c.SessionTTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, name)
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
