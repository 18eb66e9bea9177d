// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
	"github.com/tosin2013/vault-raft-bootstrap/internal/config"
	"github.com/tosin2013/vault-raft-bootstrap/internal/k8s"
	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

const defaultConfigFile = "vaultboot.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// newK8sClient creates a Kubernetes client from a kubeconfig path.
	newK8sClient = k8s.NewClient

	// newAdminClient creates the admin transport for a cluster.
	newAdminClient = func(client *k8s.Client, cfg *config.Config) vault.AdminClient {
		return vault.NewExecClient(client, cfg.Namespace, cfg.Container, cfg.LocalAddr(), cfg.TLS.Enabled)
	}

	// newProber creates the pod readiness prober.
	newProber = func(client *k8s.Client, cfg *config.Config, timeouts *config.Timeouts) bootstrap.Prober {
		return &podProber{client: client, cfg: cfg, timeouts: timeouts}
	}

	// newEndpointChecker creates the external endpoint checker.
	newEndpointChecker = func(ctx context.Context, client *k8s.Client, cfg *config.Config, timeouts *config.Timeouts) (bootstrap.EndpointChecker, error) {
		opts := []vault.HTTPOption{vault.WithTimeout(timeouts.HTTPTimeout)}

		caPEM, err := loadCABundle(ctx, client, cfg)
		if err != nil {
			return nil, err
		}
		if caPEM != nil {
			opts = append(opts, vault.WithCABundle(caPEM))
		}

		return vault.NewHTTPClient(nil, opts...), nil
	}
)

// loadConfig resolves the config path and loads the file.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// loadCABundle resolves the CA bundle used to verify the external
// endpoint: a local file wins, then a cluster secret. Nil means system
// trust roots.
func loadCABundle(ctx context.Context, client *k8s.Client, cfg *config.Config) ([]byte, error) {
	if cfg.TLS.CABundleFile != "" {
		// #nosec G304
		pem, err := os.ReadFile(cfg.TLS.CABundleFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle file: %w", err)
		}
		return pem, nil
	}
	if cfg.TLS.CABundleSecret != "" {
		pem, err := client.GetSecretData(ctx, cfg.Namespace, cfg.TLS.CABundleSecret, cfg.TLS.CABundleKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle secret: %w", err)
		}
		return pem, nil
	}
	return nil, nil
}

// podProber adapts the Kubernetes pod readiness wait to the bootstrap
// prober interface.
type podProber struct {
	client   *k8s.Client
	cfg      *config.Config
	timeouts *config.Timeouts
}

func (p *podProber) WaitReady(ctx context.Context, node string) (string, error) {
	return p.client.WaitForPodReady(ctx, p.cfg.Namespace, node, p.cfg.Container, k8s.ReadinessOptions{
		MaxAttempts:   p.timeouts.PodReadyAttempts,
		Delay:         p.timeouts.PodReadyDelay,
		NotFoundGrace: p.timeouts.PodNotFoundGrace,
	})
}
