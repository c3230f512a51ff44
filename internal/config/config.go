// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"

	"plate2share/internal/filter"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken   string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	DatabasePath       string        `envconfig:"DATABASE_PATH" default:"./data/plate2share.db"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	AllowedUsers       []int64       `envconfig:"ALLOWED_USERS"`
	PartnerFeeds       []string      `envconfig:"PARTNER_FEEDS"`
	PartnerInclude     []string      `envconfig:"PARTNER_INCLUDE"`
	PartnerExclude     []string      `envconfig:"PARTNER_EXCLUDE"`
	SyncInterval       time.Duration `envconfig:"SYNC_INTERVAL" default:"15m"`
	DonationResetDelay time.Duration `envconfig:"DONATION_RESET_DELAY" default:"3s"`
	Locale             string        `envconfig:"LOCALE" default:"en"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("invalid LOCALE %q: %w", cfg.Locale, err)
	}
	if _, err := cfg.OfferRules(); err != nil {
		return nil, fmt.Errorf("invalid partner rules: %w", err)
	}
	if cfg.SyncInterval <= 0 {
		return nil, fmt.Errorf("SYNC_INTERVAL must be positive, got %s", cfg.SyncInterval)
	}
	return &cfg, nil
}

// Language returns the collation locale. Invalid values fall back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// OfferRules parses the partner feed include and exclude rules.
func (c *Config) OfferRules() ([]filter.Rule, error) {
	return filter.ParseRules(c.PartnerInclude, c.PartnerExclude)
}

// IsUserAllowed checks whether a user ID is in the allow list.
// Returns true if the allow list is empty (all users permitted).
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	return slices.Contains(c.AllowedUsers, userID)
}
