package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring config error: %v", err)
	}

	if err := c.validateHistory(); err != nil {
		return fmt.Errorf("history config error: %v", err)
	}

	if err := c.validateEvents(); err != nil {
		return fmt.Errorf("events config error: %v", err)
	}

	if err := c.validateCache(); err != nil {
		return fmt.Errorf("cache config error: %v", err)
	}

	if err := c.validateAPI(); err != nil {
		return fmt.Errorf("api config error: %v", err)
	}

	if err := c.Billing.Validate(); err != nil {
		return fmt.Errorf("billing config error: %v", err)
	}

	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault config error: address is required when vault is enabled")
	}

	return nil
}

func (c *Config) validateHistory() error {
	if !c.History.Enabled {
		return nil
	}

	if c.History.URI == "" {
		return fmt.Errorf("uri is required")
	}

	if _, err := url.Parse(c.History.URI); err != nil {
		return fmt.Errorf("invalid uri format: %v", err)
	}

	if c.History.Username == "" {
		return fmt.Errorf("username is required")
	}

	if c.History.SnapshotKeep < 0 {
		return fmt.Errorf("snapshot_keep must not be negative")
	}

	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}

	if len(c.Events.Brokers) == 0 {
		return fmt.Errorf("brokers is required")
	}

	for _, broker := range c.Events.Brokers {
		if !strings.Contains(broker, ":") {
			return fmt.Errorf("invalid broker format: %s (expected host:port)", broker)
		}
	}

	if c.Events.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}

	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("addr is required when redis cache is enabled")
	}

	if c.Cache.Local.Enabled && c.Cache.Local.Size <= 0 {
		return fmt.Errorf("local cache size must be greater than 0")
	}

	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.API.EnableCORS && len(c.API.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins is required when CORS is enabled")
	}

	return nil
}
