// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Uploads through the public Bot API are capped at 50MB; a self-hosted
// Bot API server raises that to 2GB.
const (
	publicAPILimit     = 50 * 1024 * 1024
	selfHostedAPILimit = 2 * 1024 * 1024 * 1024
)

type Config struct {
	// BotToken authenticates the chat adapter. Required only when the
	// bot runs.
	BotToken string `envconfig:"BOT_TOKEN"`

	// BotAPIURL points at a self-hosted Bot API server. When set,
	// uploads up to 2GB are possible.
	BotAPIURL string `envconfig:"BOT_API_URL"`

	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8000"`
	DownloadsDir string `envconfig:"DOWNLOADS_DIR" default:"/downloads"`

	// StaticDir is the frontend directory served at /. Empty disables
	// static serving.
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`

	Workers int `envconfig:"WORKERS" default:"4"`

	// StreamIntervalMS is the push-stream emission cadence.
	StreamIntervalMS int `envconfig:"STREAM_INTERVAL_MS" default:"400"`

	// MaxFileSize overrides the derived delivery limit when positive.
	MaxFileSize int64 `envconfig:"MAX_FILE_SIZE"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config from environment: %w", err)
	}
	return cfg, nil
}

// StreamInterval is the push-stream cadence as a duration.
func (c Config) StreamInterval() time.Duration {
	return time.Duration(c.StreamIntervalMS) * time.Millisecond
}

// DeliveryLimit is the transmission cap in bytes: an explicit override
// wins, otherwise the limit follows the Bot API deployment mode.
func (c Config) DeliveryLimit() int64 {
	if c.MaxFileSize > 0 {
		return c.MaxFileSize
	}
	if strings.TrimSpace(c.BotAPIURL) != "" {
		return selfHostedAPILimit
	}
	return publicAPILimit
}

// ValidateBot checks the settings the chat adapter cannot run without.
func (c Config) ValidateBot() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return fmt.Errorf("BOT_TOKEN is required to run the bot")
	}
	return nil
}
