// Package vault is the administrative client for the secret store nodes.
// It exposes the three operations bootstrap needs (status, initialize,
// unseal) behind a transport-agnostic interface: commands can be run
// against the loopback listener from inside a node's own container, or
// against a routable address over HTTPS once trust is established.
package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyInitialized is returned by Initialize when the cluster has been
// initialized before. Callers that checked status first treat it as a no-op.
var ErrAlreadyInitialized = errors.New("vault is already initialized")

// NodeStatus is a point-in-time snapshot of a single node's seal state.
// It is never cached; every decision re-reads fresh status.
type NodeStatus struct {
	Initialized bool
	Sealed      bool
	Standby     bool

	// Progress is the number of distinct shares presented toward the
	// threshold in the store's current unseal attempt.
	Progress  int
	Threshold int
	Shares    int
}

// Material is the unseal material generated exactly once at first
// initialization. The JSON field names match the persisted file format.
type Material struct {
	UnsealKeys []string `json:"unseal_keys"`
	Threshold  int      `json:"unseal_threshold"`
	RootToken  string   `json:"root_token"`
}

// Validate checks the structural invariants of the material.
func (m *Material) Validate() error {
	if len(m.UnsealKeys) == 0 {
		return fmt.Errorf("material has no unseal keys")
	}
	if m.Threshold < 1 {
		return fmt.Errorf("material threshold must be at least 1, got %d", m.Threshold)
	}
	if m.Threshold > len(m.UnsealKeys) {
		return fmt.Errorf("material threshold (%d) exceeds key count (%d)", m.Threshold, len(m.UnsealKeys))
	}
	return nil
}

// ThresholdKeys returns the first threshold keys, the set presented to each
// node during unsealing. Shares are cluster-wide, not per-node.
func (m *Material) ThresholdKeys() []string {
	return m.UnsealKeys[:m.Threshold]
}

// Digest returns a short fingerprint of the key set, safe to log. Key
// shares and the root token themselves must never appear in output.
func (m *Material) Digest() string {
	h := sha256.New()
	for _, k := range m.UnsealKeys {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// AdminClient is the administrative API surface used by the bootstrap.
type AdminClient interface {
	// Status reads the node's current seal state.
	Status(ctx context.Context, node string) (NodeStatus, error)

	// Initialize performs first-time initialization and returns the
	// generated material. Fails with ErrAlreadyInitialized if the cluster
	// was initialized before.
	Initialize(ctx context.Context, node string, shares, threshold int) (*Material, error)

	// Unseal presents a single key share and returns the resulting state.
	// The store itself tracks partial progress toward the threshold.
	Unseal(ctx context.Context, node, key string) (NodeStatus, error)
}

// isAlreadyInitialized detects the store's "already initialized" rejection
// in an error message or CLI stderr.
func isAlreadyInitialized(s string) bool {
	return strings.Contains(strings.ToLower(s), "already initialized")
}
