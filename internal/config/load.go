package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Default values applied when the config file leaves fields unset.
const (
	DefaultContainer    = "vault"
	DefaultAdminPort    = 8200
	DefaultReplicas     = 3
	DefaultShares       = 5
	DefaultThreshold    = 3
	DefaultCABundleKey  = "ca.crt"
	DefaultMaterialFile = "vault-init.json"
)

// LoadFile reads and parses the bootstrap configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Container == "" {
		c.Container = DefaultContainer
	}
	if c.AdminPort == 0 {
		c.AdminPort = DefaultAdminPort
	}
	if c.Replicas == 0 {
		c.Replicas = DefaultReplicas
	}
	if c.Init.Shares == 0 {
		c.Init.Shares = DefaultShares
	}
	if c.Init.Threshold == 0 {
		c.Init.Threshold = DefaultThreshold
	}
	if c.TLS.CABundleKey == "" {
		c.TLS.CABundleKey = DefaultCABundleKey
	}
	if c.MaterialFile == "" {
		c.MaterialFile = DefaultMaterialFile
	}
	if c.Recovery.Provided() && c.Recovery.Threshold == 0 {
		c.Recovery.Threshold = len(c.Recovery.UnsealKeys)
	}
}
