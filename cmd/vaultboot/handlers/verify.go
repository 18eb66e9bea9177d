package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
)

// VerifyResult represents the verification outcome for JSON output.
type VerifyResult struct {
	Healthy  bool   `json:"healthy"`
	Endpoint string `json:"endpoint,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Verify handles the verify command.
//
// This function runs only the verification phase against the cluster: it
// reads state and never modifies it. A degraded cluster produces a
// non-zero exit.
func Verify(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	bctx, err := buildContext(ctx, cfg)
	if err != nil {
		return err
	}

	phase := &bootstrap.VerifyPhase{}
	runErr := phase.Run(bctx)

	result := VerifyResult{
		Healthy:  runErr == nil,
		Endpoint: bctx.State.Endpoint,
	}
	if runErr != nil {
		var degraded *bootstrap.VerificationDegradedError
		if errors.As(runErr, &degraded) {
			result.Detail = degraded.Detail
		} else {
			result.Detail = runErr.Error()
		}
	}

	if jsonOutput {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printVerifyResult(&result)
	}

	if runErr != nil {
		return fmt.Errorf("cluster verification failed")
	}
	return nil
}
