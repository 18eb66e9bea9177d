package handlers

import (
	"context"
	"fmt"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
	"github.com/tosin2013/vault-raft-bootstrap/internal/config"
)

// BootstrapOptions configures the bootstrap handler.
type BootstrapOptions struct {
	ConfigPath string
	JSONOutput bool
}

// Bootstrap handles the bootstrap command.
//
// This function wires the Kubernetes client, the admin transport, and the
// material store, runs the full bootstrap sequence, and renders the
// result. A failed run returns an error after the result is printed so
// the CLI exits non-zero.
func Bootstrap(ctx context.Context, opts BootstrapOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	bctx, err := buildContext(ctx, cfg)
	if err != nil {
		return err
	}

	result := bootstrap.Run(bctx)

	if opts.JSONOutput {
		if err := printResultJSON(result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}

	if !result.Succeeded {
		return fmt.Errorf("bootstrap failed: %s", result.FailureReason)
	}
	return nil
}

// buildContext assembles the bootstrap context from config.
func buildContext(ctx context.Context, cfg *config.Config) (*bootstrap.Context, error) {
	client, err := newK8sClient(cfg.Kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	admin := newAdminClient(client, cfg)
	store := bootstrap.NewFileStore(cfg.MaterialFile)
	timeouts := config.LoadTimeouts()

	bctx := bootstrap.NewContext(ctx, cfg, admin, newProber(client, cfg, timeouts), store)
	bctx.Timeouts = timeouts

	checker, err := newEndpointChecker(ctx, client, cfg, timeouts)
	if err != nil {
		return nil, err
	}
	bctx.Checker = checker

	return bctx, nil
}
