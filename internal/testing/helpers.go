package testing

import (
	"context"
	"testing"
	"time"

	"github.com/tosin2013/vault-raft-bootstrap/internal/config"
	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// FastTimeouts returns timeouts scaled down for unit tests.
func FastTimeouts() *config.Timeouts {
	return &config.Timeouts{
		PodReadyAttempts: 3,
		PodReadyDelay:    time.Millisecond,
		PodNotFoundGrace: 2,
		UnsealPause:      time.Millisecond,
		JoinAttempts:     3,
		JoinDelay:        time.Millisecond,
		AutoUnsealWait:   50 * time.Millisecond,
		StatusPollDelay:  time.Millisecond,
		HTTPTimeout:      time.Second,
		VerifyTimeout:    time.Second,
	}
}

// TestMaterial returns fixed unseal material for tests.
func TestMaterial(shares, threshold int) *vault.Material {
	m := &vault.Material{Threshold: threshold, RootToken: "test-root-token"}
	for i := 0; i < shares; i++ {
		m.UnsealKeys = append(m.UnsealKeys, "test-key-"+string(rune('a'+i)))
	}
	return m
}
