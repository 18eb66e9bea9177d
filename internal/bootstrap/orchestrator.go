package bootstrap

import "time"

// Run executes the full bootstrap sequence against the wired context and
// reports a result. Errors are folded into the result's failure reason and
// detail; the caller decides the exit code. The returned result never
// contains secret material.
func Run(ctx *Context) *BootstrapResult {
	start := time.Now()

	err := RunPhases(ctx, phasesFor(ctx))

	result := &BootstrapResult{
		RunID:          ctx.State.RunID,
		Succeeded:      err == nil,
		InitializedNow: ctx.State.InitializedNow,
		UnsealedNodes:  append([]string(nil), ctx.State.UnsealedNodes...),
		Endpoint:       ctx.State.Endpoint,
		Duration:       time.Since(start),
	}
	if err != nil {
		result.FailureReason = Reason(err)
		result.FailureDetail = err.Error()
	}
	return result
}

// phasesFor assembles the phase list for the configured unseal mode. With
// an external KMS the store generates no share-based material, so the
// initializer and its persistence step are not part of the run.
func phasesFor(ctx *Context) []Phase {
	if ctx.Config.AutoUnseal {
		return []Phase{
			&AutoUnsealStrategy{},
			&VerifyPhase{},
		}
	}
	return []Phase{
		&InitializePhase{},
		&ManualUnsealStrategy{},
		&VerifyPhase{},
	}
}
