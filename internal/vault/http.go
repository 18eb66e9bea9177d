package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/vault/api"
)

// AddrFunc maps a node name to a routable base URL for its admin listener.
type AddrFunc func(node string) string

// HTTPClient is the direct-HTTP admin transport, built on the official API
// client. It is used where the caller holds a trusted CA bundle for the
// cluster (external verification, test and dev clusters) instead of
// shelling into pods.
type HTTPClient struct {
	addrFor AddrFunc
	caPEM   []byte
	skip    bool
	timeout time.Duration
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithCABundle sets the PEM bundle used to verify node certificates.
func WithCABundle(pem []byte) HTTPOption {
	return func(c *HTTPClient) {
		c.caPEM = pem
	}
}

// WithInsecureSkipVerify disables certificate verification. Only for
// loopback-equivalent trust positions.
func WithInsecureSkipVerify() HTTPOption {
	return func(c *HTTPClient) {
		c.skip = true
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.timeout = d
	}
}

// NewHTTPClient creates a direct-HTTP admin client.
func NewHTTPClient(addrFor AddrFunc, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		addrFor: addrFor,
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiClient builds an API client for one node address. Clients are cheap
// and per-call construction avoids shared-address mutation between nodes.
func (c *HTTPClient) apiClient(addr string) (*api.Client, error) {
	cfg := api.DefaultConfig()
	cfg.Address = addr
	cfg.Timeout = c.timeout
	// Seal-state probing must not be retried by the transport: a sealed
	// node answers immediately and retries only slow the poll loop down.
	cfg.MaxRetries = 0

	if c.caPEM != nil || c.skip {
		if err := cfg.ConfigureTLS(&api.TLSConfig{CACertBytes: c.caPEM, Insecure: c.skip}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

// Status reads the node's seal state via the health endpoint, which the
// API client queries so that sealed, standby, and uninitialized nodes all
// answer with a parseable body.
func (c *HTTPClient) Status(ctx context.Context, node string) (NodeStatus, error) {
	client, err := c.apiClient(c.addrFor(node))
	if err != nil {
		return NodeStatus{}, err
	}

	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		return NodeStatus{}, fmt.Errorf("status on %s: %w", node, err)
	}

	status := NodeStatus{
		Initialized: health.Initialized,
		Sealed:      health.Sealed,
		Standby:     health.Standby,
	}

	seal, err := client.Sys().SealStatusWithContext(ctx)
	if err == nil {
		status.Progress = seal.Progress
		status.Threshold = seal.T
		status.Shares = seal.N
	}
	return status, nil
}

// Initialize performs first-time initialization against the node.
func (c *HTTPClient) Initialize(ctx context.Context, node string, shares, threshold int) (*Material, error) {
	client, err := c.apiClient(c.addrFor(node))
	if err != nil {
		return nil, err
	}

	resp, err := client.Sys().InitWithContext(ctx, &api.InitRequest{
		SecretShares:    shares,
		SecretThreshold: threshold,
	})
	if err != nil {
		if isAlreadyInitialized(err.Error()) {
			return nil, fmt.Errorf("initialize on %s: %w", node, ErrAlreadyInitialized)
		}
		return nil, fmt.Errorf("initialize on %s: %w", node, err)
	}

	material := &Material{
		UnsealKeys: resp.KeysB64,
		Threshold:  threshold,
		RootToken:  resp.RootToken,
	}
	if err := material.Validate(); err != nil {
		return nil, fmt.Errorf("initialize on %s returned invalid material: %w", node, err)
	}
	return material, nil
}

// Unseal presents one key share to the node.
func (c *HTTPClient) Unseal(ctx context.Context, node, key string) (NodeStatus, error) {
	client, err := c.apiClient(c.addrFor(node))
	if err != nil {
		return NodeStatus{}, err
	}

	resp, err := client.Sys().UnsealWithContext(ctx, key)
	if err != nil {
		return NodeStatus{}, fmt.Errorf("unseal on %s: %w", node, err)
	}

	return NodeStatus{
		Initialized: resp.Initialized,
		Sealed:      resp.Sealed,
		Progress:    resp.Progress,
		Threshold:   resp.T,
		Shares:      resp.N,
	}, nil
}

// CheckEndpoint verifies that a routable URL answers the health endpoint.
// Used for external endpoint verification after the cluster is unsealed.
func (c *HTTPClient) CheckEndpoint(ctx context.Context, url string) error {
	client, err := c.apiClient(url)
	if err != nil {
		return err
	}

	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("endpoint %s unreachable: %w", url, err)
	}
	if !health.Initialized || health.Sealed {
		return fmt.Errorf("endpoint %s reachable but not serving: initialized=%t sealed=%t",
			url, health.Initialized, health.Sealed)
	}
	return nil
}
