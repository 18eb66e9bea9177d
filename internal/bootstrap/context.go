// Package bootstrap drives a Raft-backed Vault cluster from freshly
// deployed to initialized, unsealed, quorum-joined, and verified. The
// sequence is a linear phase pipeline: initialize the designated leader,
// unseal every node in index order, then verify cluster shape. Each phase
// re-reads fresh node status for every decision; nothing is cached.
package bootstrap

import (
	"context"

	"github.com/google/uuid"

	"github.com/tosin2013/vault-raft-bootstrap/internal/config"
	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// Prober gates a node on pod readiness and returns its IP.
// Implemented over the Kubernetes API; read-only.
type Prober interface {
	WaitReady(ctx context.Context, node string) (string, error)
}

// EndpointChecker verifies that an externally routed URL serves the admin
// API. Implemented by the direct-HTTP vault client.
type EndpointChecker interface {
	CheckEndpoint(ctx context.Context, url string) error
}

// State holds the shared results of bootstrap phases. It is progressively
// populated as each phase completes and is passed to subsequent phases.
type State struct {
	// RunID identifies this bootstrap run in events and the result.
	RunID string

	// PodIPs collects node -> pod IP as readiness gates pass.
	PodIPs map[string]string

	// Material is the unseal material in use: freshly generated, loaded
	// from the store on resume, or adopted from recovery config. Nil when
	// the cluster was initialized elsewhere and no material is available;
	// only an actual unseal attempt turns that into an error.
	Material *vault.Material

	// InitializedNow is true when this run performed first-time
	// initialization.
	InitializedNow bool

	// UnsealedNodes lists nodes confirmed unsealed, in unseal order.
	UnsealedNodes []string

	// Endpoint is the verified external access URL, when configured.
	Endpoint string
}

// NewState creates an empty bootstrap state with a fresh run ID.
func NewState() *State {
	return &State{
		RunID:  uuid.NewString(),
		PodIPs: make(map[string]string),
	}
}

// Context wraps all dependencies and state needed for a bootstrap phase.
type Context struct {
	context.Context
	Config   *config.Config
	Timeouts *config.Timeouts
	State    *State
	Admin    vault.AdminClient
	Prober   Prober
	Store    MaterialStore
	Checker  EndpointChecker
	Observer Observer
}

// NewContext creates a new bootstrap context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	admin vault.AdminClient,
	prober Prober,
	store MaterialStore,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Timeouts: config.LoadTimeouts(),
		State:    NewState(),
		Admin:    admin,
		Prober:   prober,
		Store:    store,
		Observer: NewConsoleObserver(),
	}
}
