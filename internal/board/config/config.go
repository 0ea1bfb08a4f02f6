package config

import (
	"time"

	"stock-board/pkg/common"
	"stock-board/pkg/config"
)

// Board holds board-specific configuration.
type Board struct {
	TrendingCacheTTL   time.Duration `mapstructure:"trending_cache_ttl"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	DefaultPageSize    int           `mapstructure:"default_page_size"`
	AllowOrigins       []string      `mapstructure:"allow_origins"`
}

// Events controls publishing of post changes to the Redis stream.
type Events struct {
	Enabled bool   `mapstructure:"enabled"`
	Notify  Notify `mapstructure:"notify"`
}

// Notify configures chat notifications about board activity.
type Notify struct {
	Enabled   bool     `mapstructure:"enabled"`
	BotToken  string   `mapstructure:"bot_token"`
	ChatID    int64    `mapstructure:"chat_id"`
	Types     []string `mapstructure:"types"`
	QueueSize int      `mapstructure:"queue_size"`
	// DigestCron schedules the trending digest; empty disables it.
	DigestCron  string `mapstructure:"digest_cron"`
	DigestLimit int    `mapstructure:"digest_limit"`
	DigestDays  int    `mapstructure:"digest_days"`
}

// Config holds the full configuration for the board service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Board    Board           `mapstructure:"board"`
	Events   Events          `mapstructure:"events"`
}

// Load loads the board configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Board.DefaultPageSize <= 0 {
		cfg.Board.DefaultPageSize = common.DefaultPageSize
	}
	if cfg.Events.Notify.DigestLimit <= 0 {
		cfg.Events.Notify.DigestLimit = common.DefaultTrendingLimit
	}
	if cfg.Events.Notify.DigestDays <= 0 {
		cfg.Events.Notify.DigestDays = common.DefaultTrendingDays
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 3000
	}
	return &cfg, nil
}
