package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dealpulse/internal/benchmark"
	"github.com/dealpulse/internal/billing"
	"github.com/dealpulse/internal/cache"
	"github.com/dealpulse/internal/events"
	"github.com/dealpulse/internal/health"
	"github.com/dealpulse/internal/history"
	"github.com/dealpulse/internal/vault"
)

// Config represents the overall application configuration
type Config struct {
	Version    string               `yaml:"version"`
	Scoring    health.ScoringConfig `yaml:"scoring"`
	History    HistoryConfig        `yaml:"history"`
	Events     EventsConfig         `yaml:"events"`
	Cache      CacheConfig          `yaml:"cache"`
	Benchmarks benchmark.Config     `yaml:"benchmarks"`
	Billing    billing.Config       `yaml:"billing"`
	Vault      vault.Config         `yaml:"vault"`
	API        APIConfig            `yaml:"api"`
	Logging    LoggingConfig        `yaml:"logging"`
}

// HistoryConfig represents the Neo4j history store section
type HistoryConfig struct {
	Enabled        bool `yaml:"enabled"`
	history.Config `yaml:",inline"`
	// PasswordVaultPath, when set, is resolved through Vault at startup
	// and overrides Password
	PasswordVaultPath string `yaml:"password_vault_path"`
}

// EventsConfig represents the Kafka event bus section
type EventsConfig struct {
	Enabled            bool `yaml:"enabled"`
	events.KafkaConfig `yaml:",inline"`
}

// CacheConfig represents the Redis analysis cache section
type CacheConfig struct {
	Enabled           bool `yaml:"enabled"`
	cache.Config      `yaml:",inline"`
	PasswordVaultPath string `yaml:"password_vault_path"`
	// Local configures the in-process LRU used when Redis is disabled
	Local LocalCacheConfig `yaml:"local"`
}

// LocalCacheConfig represents the in-process analysis cache section
type LocalCacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

// APIConfig represents API gateway configuration
type APIConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	EnableCORS      bool          `yaml:"enable_cors"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	AllowedMethods  []string      `yaml:"allowed_methods"`
	AllowedHeaders  []string      `yaml:"allowed_headers"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MaxRequestSize  int64         `yaml:"max_request_size"`
	EnableWebsocket bool          `yaml:"enable_websocket"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Version:    "1.0",
		Scoring:    health.DefaultScoringConfig(),
		Benchmarks: benchmark.DefaultConfig(),
		Events: EventsConfig{
			Enabled:     false,
			KafkaConfig: events.DefaultKafkaConfig(),
		},
		Cache: CacheConfig{
			Enabled: false,
			Config: cache.Config{
				Addr:   "localhost:6379",
				Prefix: "dealpulse",
				TTL:    5 * time.Minute,
			},
			Local: LocalCacheConfig{
				Enabled: true,
				Size:    1000,
				TTL:     5 * time.Minute,
			},
		},
		History: HistoryConfig{
			Enabled: false,
			Config: history.Config{
				URI:          "bolt://localhost:7687",
				Database:     "neo4j",
				Username:     "neo4j",
				MaxPoolSize:  50,
				ConnTimeout:  30 * time.Second,
				SnapshotKeep: 200,
			},
		},
		API: APIConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			EnableCORS:      true,
			AllowedOrigins:  []string{"*"},
			AllowedMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:  []string{"Authorization", "Content-Type"},
			RequestTimeout:  30 * time.Second,
			MaxRequestSize:  1 << 20,
			EnableWebsocket: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load loads configuration from file, falling back to defaults when the
// path is empty and CONFIG_PATH is unset
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
