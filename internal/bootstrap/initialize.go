package bootstrap

import (
	"fmt"

	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// InitializePhase waits for the designated leader (node 0) and ensures the
// cluster is initialized exactly once, persisting the generated material
// before any unseal attempt so a crash cannot lose key shares.
type InitializePhase struct{}

// Name implements Phase.
func (p *InitializePhase) Name() string { return "initialize" }

// Run implements Phase.
func (p *InitializePhase) Run(ctx *Context) error {
	leader := ctx.Config.NodeName(0)

	ip, err := waitReady(ctx, leader)
	if err != nil {
		return err
	}
	ctx.Observer.Event(Event{
		Type: EventNodeReady, Phase: p.Name(), Node: leader,
		Message: "pod ready", Fields: map[string]string{"ip": ip},
	})

	material, existed, err := ensureInitialized(ctx, leader)
	if err != nil {
		return err
	}

	ctx.State.Material = material
	ctx.State.InitializedNow = !existed
	return nil
}

// ensureInitialized determines whether the cluster is already initialized
// and returns the material to unseal with. It never calls Initialize twice
// for the same cluster: once a node reports initialized=true, the only
// paths forward are externally supplied keys, previously persisted
// material, or no material at all (tolerated until a node actually needs
// unsealing, so a fully unsealed cluster stays a no-op).
func ensureInitialized(ctx *Context, leader string) (material *vault.Material, alreadyExisted bool, err error) {
	status, err := ctx.Admin.Status(ctx, leader)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read leader status: %w", err)
	}

	if status.Initialized {
		material, err := adoptExistingMaterial(ctx)
		if err != nil {
			return nil, true, err
		}
		return material, true, nil
	}

	if ctx.Config.Recovery.Provided() {
		// Supplied keys belong to a previous initialization; an
		// uninitialized cluster cannot be unsealed with them.
		return nil, false, fmt.Errorf("recovery keys supplied but cluster is uninitialized")
	}

	cfg := ctx.Config.Init
	material, err = ctx.Admin.Initialize(ctx, leader, cfg.Shares, cfg.Threshold)
	if err != nil {
		return nil, false, fmt.Errorf("initialization failed: %w", err)
	}

	// Persist before any unseal attempt. Losing this material means losing
	// the cluster.
	if err := ctx.Store.Save(material); err != nil {
		return nil, false, fmt.Errorf("failed to persist unseal material: %w", err)
	}

	ctx.Observer.Event(Event{
		Type: EventNodeInitialized, Phase: "initialize", Node: leader,
		Message: "cluster initialized",
		Fields: map[string]string{
			"shares":    fmt.Sprintf("%d", cfg.Shares),
			"threshold": fmt.Sprintf("%d", cfg.Threshold),
			"digest":    material.Digest(),
		},
	})
	ctx.Observer.Event(Event{
		Type: EventMaterialPersisted, Phase: "initialize",
		Message: "unseal material persisted",
	})

	return material, false, nil
}

// adoptExistingMaterial resolves material for an already-initialized
// cluster: externally supplied keys win, then the persisted store. A nil
// result is not an error here.
func adoptExistingMaterial(ctx *Context) (*vault.Material, error) {
	if ctx.Config.Recovery.Provided() {
		material := &vault.Material{
			UnsealKeys: ctx.Config.Recovery.UnsealKeys,
			Threshold:  ctx.Config.Recovery.Threshold,
			RootToken:  ctx.Config.Recovery.RootToken,
		}
		if err := material.Validate(); err != nil {
			return nil, fmt.Errorf("supplied recovery material is invalid: %w", err)
		}
		ctx.Observer.Event(Event{
			Type: EventMaterialLoaded, Phase: "initialize",
			Message: "adopted externally supplied unseal material",
			Fields:  map[string]string{"digest": material.Digest()},
		})
		return material, nil
	}

	if ctx.Store.Exists() {
		material, err := ctx.Store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted material: %w", err)
		}
		ctx.Observer.Event(Event{
			Type: EventMaterialLoaded, Phase: "initialize",
			Message: "loaded persisted unseal material",
			Fields:  map[string]string{"digest": material.Digest()},
		})
		return material, nil
	}

	ctx.Observer.Printf("cluster already initialized; no local unseal material (ok if already unsealed)")
	return nil, nil
}

// waitReady gates on pod readiness and records the pod IP.
func waitReady(ctx *Context, node string) (string, error) {
	ip, err := ctx.Prober.WaitReady(ctx, node)
	if err != nil {
		// An aborted run is a cancellation, not a readiness verdict.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &ReadinessTimeoutError{
			Node:     node,
			Attempts: ctx.Timeouts.PodReadyAttempts,
			Err:      err,
		}
	}
	ctx.State.PodIPs[node] = ip
	return ip, nil
}
