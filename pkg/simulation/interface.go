package simulation

import "context"

// Simulation is a runnable plugin the CLI can discover, configure and run.
type Simulation interface {
	Name() string
	Description() string

	// Configure applies parameters gathered from simulation.yaml prompts,
	// env overrides or CLI flags. Unknown keys are ignored.
	Configure(params map[string]interface{}) error

	// Run blocks until the simulation ends, ctx is cancelled or Stop is
	// called.
	Run(ctx context.Context) error

	// Stop asks a running simulation to finish. It is safe to call more
	// than once.
	Stop() error
}
