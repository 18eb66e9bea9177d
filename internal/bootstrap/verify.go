package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/tosin2013/vault-raft-bootstrap/internal/util/async"
	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// VerifyPhase confirms the cluster reached the expected healthy shape:
// every node initialized and unsealed, exactly one active leader, the rest
// in standby, and the external endpoint answering if one is configured.
// Verification only reads state; node order does not matter, so all nodes
// are probed in parallel.
type VerifyPhase struct{}

// Name implements Phase.
func (p *VerifyPhase) Name() string { return "verify" }

type nodeProbe struct {
	status vault.NodeStatus
	err    error
}

// Run implements Phase.
func (p *VerifyPhase) Run(ctx *Context) error {
	nodes := ctx.Config.NodeNames()
	probes := make([]nodeProbe, len(nodes))

	tasks := make([]async.Task, len(nodes))
	for i, node := range nodes {
		tasks[i] = async.Task{
			Name: node,
			Func: func(taskCtx context.Context) error {
				probes[i].status, probes[i].err = ctx.Admin.Status(taskCtx, node)
				// Unreachable nodes become verification problems, not a
				// short-circuit; every node gets probed.
				return nil
			},
		}
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return err
	}

	var problems []string
	leaders := 0

	for i, node := range nodes {
		probe := probes[i]
		if probe.err != nil {
			problems = append(problems, fmt.Sprintf("%s: status unavailable: %v", node, probe.err))
			continue
		}
		if !probe.status.Initialized {
			problems = append(problems, fmt.Sprintf("%s: not initialized", node))
		}
		if probe.status.Sealed {
			problems = append(problems, fmt.Sprintf("%s: sealed", node))
		}
		if probe.status.Initialized && !probe.status.Sealed && !probe.status.Standby {
			leaders++
		}
	}

	if leaders != 1 {
		problems = append(problems, fmt.Sprintf("expected exactly one active node, found %d", leaders))
	}

	if ctx.Config.ExternalEndpoint != "" {
		if err := p.checkEndpoint(ctx); err != nil {
			problems = append(problems, fmt.Sprintf("endpoint %s: %v", ctx.Config.ExternalEndpoint, err))
		} else {
			ctx.State.Endpoint = ctx.Config.ExternalEndpoint
		}
	}

	if len(problems) > 0 {
		return &VerificationDegradedError{Detail: strings.Join(problems, "; ")}
	}

	ctx.Observer.Event(Event{
		Type: EventClusterVerified, Phase: p.Name(),
		Message: fmt.Sprintf("all %d nodes initialized and unsealed", ctx.Config.Replicas),
	})
	return nil
}

func (p *VerifyPhase) checkEndpoint(ctx *Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.VerifyTimeout)
	defer cancel()
	return ctx.Checker.CheckEndpoint(checkCtx, ctx.Config.ExternalEndpoint)
}
