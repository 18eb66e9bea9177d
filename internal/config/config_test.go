package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Namespace: "vault",
		Release:   "vault",
		Replicas:  3,
		Container: "vault",
		AdminPort: 8200,
		TLS:       TLSConfig{Enabled: true},
		Init:      InitConfig{Shares: 5, Threshold: 3},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing namespace",
			mutate:  func(c *Config) { c.Namespace = "" },
			wantErr: "namespace is required",
		},
		{
			name:    "missing release",
			mutate:  func(c *Config) { c.Release = "" },
			wantErr: "release is required",
		},
		{
			name:    "zero replicas",
			mutate:  func(c *Config) { c.Replicas = 0 },
			wantErr: "replicas must be at least 1",
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.AdminPort = 70000 },
			wantErr: "admin_port must be a valid port",
		},
		{
			name:    "threshold exceeds shares",
			mutate:  func(c *Config) { c.Init = InitConfig{Shares: 3, Threshold: 5} },
			wantErr: "cannot exceed init.shares",
		},
		{
			name:    "zero threshold",
			mutate:  func(c *Config) { c.Init = InitConfig{Shares: 5, Threshold: 0} },
			wantErr: "init.threshold must be at least 1",
		},
		{
			name: "recovery threshold exceeds key count",
			mutate: func(c *Config) {
				c.Recovery = RecoveryConfig{UnsealKeys: []string{"a", "b"}, Threshold: 3}
			},
			wantErr: "cannot exceed supplied key count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AutoUnsealSkipsInitParams(t *testing.T) {
	cfg := validConfig()
	cfg.AutoUnseal = true
	cfg.Init = InitConfig{}
	assert.NoError(t, cfg.Validate())
}

func TestNodeNames(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "vault-0", cfg.NodeName(0))
	assert.Equal(t, []string{"vault-0", "vault-1", "vault-2"}, cfg.NodeNames())
}

func TestLocalAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "https://127.0.0.1:8200", cfg.LocalAddr())

	cfg.TLS.Enabled = false
	cfg.AdminPort = 8300
	assert.Equal(t, "http://127.0.0.1:8300", cfg.LocalAddr())
}

func TestRecoveryProvided(t *testing.T) {
	assert.False(t, RecoveryConfig{}.Provided())
	assert.True(t, RecoveryConfig{UnsealKeys: []string{"k"}}.Provided())
}
