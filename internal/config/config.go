// Package config loads the application configuration: the shared core
// sections plus database and payment settings specific to this bot.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/offerbot/core/config"
	coredatabase "github.com/m3rciful/offerbot/core/database"
)

// PaymentsConfig holds payment-provider checkout settings.
type PaymentsConfig struct {
	ProviderToken string `yaml:"provider_token" envconfig:"PAYMENT_PROVIDER_TOKEN"`
	Currency      string `yaml:"currency" envconfig:"PAYMENT_CURRENCY"`
	// CooldownSeconds is the minimum interval between purchase attempts
	// per user; 0 disables the gate.
	CooldownSeconds     int     `yaml:"cooldown_seconds" envconfig:"PURCHASE_COOLDOWN_SECONDS"`
	MaxTipAmount        int64   `yaml:"max_tip_amount" envconfig:"PAYMENT_MAX_TIP_AMOUNT"`
	SuggestedTipAmounts []int64 `yaml:"suggested_tip_amounts"`
}

// Config aggregates core and application settings.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Payments PaymentsConfig      `yaml:"payments"`
}

// CoreConfig exposes the embedded core configuration for the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Cooldown returns the purchase cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Payments.CooldownSeconds) * time.Second
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizePayments(&cfg.Payments); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizePayments(p *PaymentsConfig) error {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = "RUB"
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("payments.currency must be a three-letter ISO code, got %q", p.Currency)
	}
	if p.CooldownSeconds < 0 {
		return fmt.Errorf("payments.cooldown_seconds must be >= 0")
	}
	if p.MaxTipAmount < 0 {
		return fmt.Errorf("payments.max_tip_amount must be >= 0")
	}
	for _, tip := range p.SuggestedTipAmounts {
		if tip <= 0 {
			return fmt.Errorf("payments.suggested_tip_amounts entries must be > 0")
		}
		if p.MaxTipAmount > 0 && tip > p.MaxTipAmount {
			return fmt.Errorf("payments.suggested_tip_amounts entries must not exceed max_tip_amount")
		}
	}
	return nil
}
