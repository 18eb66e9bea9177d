package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/tosin2013/vault-raft-bootstrap/internal/util/retry"
)

// UnsealStrategy is the pluggable unseal step: manual Shamir-share
// presentation or waiting out a KMS-driven auto-unseal. Both share the
// readiness prober and the verifier; only this step differs.
type UnsealStrategy interface {
	Phase
}

// StrategyFor selects the unseal strategy for the configured mode.
func StrategyFor(autoUnseal bool) UnsealStrategy {
	if autoUnseal {
		return &AutoUnsealStrategy{}
	}
	return &ManualUnsealStrategy{}
}

// ManualUnsealStrategy drives every node through the unseal protocol with
// the threshold number of key shares: leader first, then followers in
// strict index order. Raft join order depends on the leader already being
// unsealed, so followers are never unsealed concurrently even though the
// underlying API calls could be issued in parallel.
type ManualUnsealStrategy struct{}

// Name implements Phase.
func (s *ManualUnsealStrategy) Name() string { return "unseal" }

// Run implements Phase.
func (s *ManualUnsealStrategy) Run(ctx *Context) error {
	leader := ctx.Config.NodeName(0)

	if err := s.unsealNode(ctx, leader); err != nil {
		return err
	}

	for i := 1; i < ctx.Config.Replicas; i++ {
		node := ctx.Config.NodeName(i)

		if _, err := waitReady(ctx, node); err != nil {
			return err
		}
		ctx.Observer.Event(Event{
			Type: EventNodeReady, Phase: s.Name(), Node: node,
			Message: "pod ready", Fields: map[string]string{"ip": ctx.State.PodIPs[node]},
		})

		if err := s.waitJoined(ctx, node); err != nil {
			return err
		}

		if err := s.unsealNode(ctx, node); err != nil {
			return err
		}
	}

	return nil
}

// waitJoined polls a follower until it reports initialized=true, the
// observable signal that it has replicated cluster metadata and is a
// provisioned peer rather than an independent uninitialized node.
func (s *ManualUnsealStrategy) waitJoined(ctx *Context, node string) error {
	err := retry.Do(ctx, func() error {
		status, err := ctx.Admin.Status(ctx, node)
		if err != nil {
			return err
		}
		if !status.Initialized {
			return fmt.Errorf("node %s has not replicated cluster metadata yet", node)
		}
		return nil
	},
		retry.WithMaxAttempts(ctx.Timeouts.JoinAttempts),
		retry.WithDelay(ctx.Timeouts.JoinDelay),
		retry.WithBackoff(1.5),
		retry.WithMaxDelay(30*time.Second),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &FollowerJoinTimeoutError{Node: node, Attempts: ctx.Timeouts.JoinAttempts}
	}

	ctx.Observer.Event(Event{
		Type: EventNodeJoined, Phase: s.Name(), Node: node,
		Message: "joined the cluster",
	})
	return nil
}

// unsealNode presents the threshold key shares to one node, pausing
// between submissions; the store needs settling time between partial
// unseal operations. A node that is still sealed after the full threshold
// is a store-side fault: the same material is never retried.
func (s *ManualUnsealStrategy) unsealNode(ctx *Context, node string) error {
	status, err := ctx.Admin.Status(ctx, node)
	if err != nil {
		return fmt.Errorf("failed to read status of %s: %w", node, err)
	}

	if !status.Sealed {
		ctx.Observer.Event(Event{
			Type: EventNodeSkipped, Phase: s.Name(), Node: node,
			Message: "already unsealed",
		})
		ctx.State.UnsealedNodes = append(ctx.State.UnsealedNodes, node)
		return nil
	}

	material := ctx.State.Material
	if material == nil {
		return &MaterialUnavailableError{Path: ctx.Store.Path()}
	}

	keys := material.ThresholdKeys()
	for i, key := range keys {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(ctx.Timeouts.UnsealPause):
			}
		}

		if _, err := ctx.Admin.Unseal(ctx, node, key); err != nil {
			return fmt.Errorf("unseal call %d/%d on %s failed: %w", i+1, len(keys), node, err)
		}
	}

	// The per-call responses are advisory; only a fresh status read decides.
	status, err = ctx.Admin.Status(ctx, node)
	if err != nil {
		return fmt.Errorf("failed to confirm seal state of %s: %w", node, err)
	}
	if status.Sealed {
		return &UnsealFailedError{Node: node, Progress: status.Progress}
	}

	ctx.Observer.Event(Event{
		Type: EventNodeUnsealed, Phase: s.Name(), Node: node,
		Message: fmt.Sprintf("unsealed with %d key shares", len(keys)),
	})
	ctx.State.UnsealedNodes = append(ctx.State.UnsealedNodes, node)
	return nil
}

// AutoUnsealStrategy covers KMS-driven deployments: the store unseals
// itself, so no material is generated or presented. Each node is gated on
// readiness and then polled until it reports unsealed, with a bounded
// total wait.
type AutoUnsealStrategy struct{}

// Name implements Phase.
func (s *AutoUnsealStrategy) Name() string { return "auto-unseal" }

// Run implements Phase.
func (s *AutoUnsealStrategy) Run(ctx *Context) error {
	for i := 0; i < ctx.Config.Replicas; i++ {
		node := ctx.Config.NodeName(i)

		if _, err := waitReady(ctx, node); err != nil {
			return err
		}

		if err := s.waitUnsealed(ctx, node); err != nil {
			return err
		}

		ctx.Observer.Event(Event{
			Type: EventNodeUnsealed, Phase: s.Name(), Node: node,
			Message: "unsealed by external KMS",
		})
		ctx.State.UnsealedNodes = append(ctx.State.UnsealedNodes, node)
	}

	return nil
}

func (s *AutoUnsealStrategy) waitUnsealed(ctx *Context, node string) error {
	attempts := int(ctx.Timeouts.AutoUnsealWait / ctx.Timeouts.StatusPollDelay)
	if attempts < 1 {
		attempts = 1
	}

	var lastSealed bool
	err := retry.Do(ctx, func() error {
		status, err := ctx.Admin.Status(ctx, node)
		if err != nil {
			return err
		}
		lastSealed = status.Sealed
		if status.Sealed {
			return errors.New("still sealed")
		}
		return nil
	},
		retry.WithMaxAttempts(attempts),
		retry.WithDelay(ctx.Timeouts.StatusPollDelay),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastSealed {
			return &UnsealFailedError{Node: node}
		}
		return fmt.Errorf("failed to observe seal state of %s: %w", node, err)
	}
	return nil
}
