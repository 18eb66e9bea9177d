package testing

import (
	"github.com/tosin2013/vault-raft-bootstrap/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Namespace: "vault-test",
			Release:   "vault",
			Replicas:  3,
			Container: "vault",
			AdminPort: 8200,
			Init: config.InitConfig{
				Shares:    5,
				Threshold: 3,
			},
			MaterialFile: "vault-init.json",
		},
	}
}

// WithRelease sets the release name nodes are derived from.
func (b *ConfigBuilder) WithRelease(release string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Release = release
	return newBuilder
}

// WithReplicas sets the cluster size.
func (b *ConfigBuilder) WithReplicas(n int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Replicas = n
	return newBuilder
}

// WithInit sets the share count and threshold for initialization.
func (b *ConfigBuilder) WithInit(shares, threshold int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Init = config.InitConfig{Shares: shares, Threshold: threshold}
	return newBuilder
}

// WithAutoUnseal enables external-KMS unseal mode.
func (b *ConfigBuilder) WithAutoUnseal() *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.AutoUnseal = true
	return newBuilder
}

// WithExternalEndpoint sets the external access URL to verify.
func (b *ConfigBuilder) WithExternalEndpoint(url string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.ExternalEndpoint = url
	return newBuilder
}

// WithRecovery supplies externally held unseal keys.
func (b *ConfigBuilder) WithRecovery(keys []string, threshold int) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Recovery = config.RecoveryConfig{UnsealKeys: keys, Threshold: threshold}
	return newBuilder
}

// WithMaterialFile sets the material persistence path.
func (b *ConfigBuilder) WithMaterialFile(path string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.MaterialFile = path
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}
