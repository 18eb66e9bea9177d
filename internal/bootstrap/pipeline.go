package bootstrap

import (
	"fmt"
	"time"
)

// Phase defines one step of the bootstrap sequence.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Run executes the phase.
	Run(ctx *Context) error
}

// RunPhases executes all bootstrap phases sequentially, stopping at the
// first failure. There is no rollback: initialization is irreversible
// in-band and recovery is an explicit operator action.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting bootstrap with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		logPhaseStart(ctx.Observer, name)

		if err := phase.Run(ctx); err != nil {
			logPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		logPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Bootstrap completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
