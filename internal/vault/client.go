package vault

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// Config represents Vault client configuration
type Config struct {
	Enabled       bool          `yaml:"enabled" json:"enabled"`
	Address       string        `yaml:"address" json:"address"`
	Token         string        `yaml:"token" json:"token"`
	Namespace     string        `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	RenewInterval time.Duration `yaml:"renew_interval" json:"renew_interval"`
}

// Client wraps the Vault API for reading service credentials. Config
// sections may reference Vault paths instead of carrying passwords
// inline; this client resolves them at startup.
type Client struct {
	client *vault.Client
	config Config
	logger *zap.Logger
}

// NewClient creates a Vault client
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = config.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	client.SetToken(config.Token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	c := &Client{client: client, config: config, logger: logger}

	if config.RenewInterval > 0 {
		go c.renewToken()
	}

	return c, nil
}

// GetSecret reads the secret at a logical path
func (c *Client) GetSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}
	return secret.Data, nil
}

// GetString reads a single string field from a KV v2 secret. The data
// nesting of KV v2 responses is unwrapped automatically.
func (c *Client) GetString(ctx context.Context, path, field string) (string, error) {
	data, err := c.GetSecret(ctx, path)
	if err != nil {
		return "", err
	}

	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}

	value, ok := data[field].(string)
	if !ok {
		return "", fmt.Errorf("field %s not found at path %s", field, path)
	}
	return value, nil
}

func (c *Client) renewToken() {
	ticker := time.NewTicker(c.config.RenewInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := c.client.Auth().Token().RenewSelfWithContext(ctx, 0)
		cancel()
		if err != nil {
			c.logger.Warn("failed to renew Vault token", zap.Error(err))
		}
	}
}
