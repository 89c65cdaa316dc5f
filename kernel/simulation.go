// Package kernel implements the discrete-event simulation core: the
// dependency graph that statically rejects zero-delay combinational
// cycles, the module abstraction user models embed, and the
// delta-cycle scheduler that drives them.
package kernel

import (
	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
)

// Simulation bundles a scheduler, a dependency graph, a process
// registry and a logger: one per independent simulation run. Holding
// them as explicit fields rather than process-wide singletons keeps
// multiple simulations constructible side by side and testable in
// isolation (see DESIGN.md).
//
// A Simulation is not safe for concurrent use: its scheduler,
// dependency graph and signals carry no locking, so it must not be
// shared across goroutines; concurrent runs each need their own
// Simulation.
type Simulation struct {
	Scheduler *Scheduler
	Graph     *DependencyGraph
	Registry  *process.Registry
	Logger    *commons.Logger
}

// New returns a freshly wired simulation: an empty dependency graph, an
// empty process registry, a scheduler at time zero, and a logger at the
// given level.
func New(level commons.Level) *Simulation {
	registry := process.NewRegistry()
	graph := NewDependencyGraph()
	logger := commons.NewLogger(level)
	sched := NewScheduler(graph, logger)
	return &Simulation{
		Scheduler: sched,
		Graph:     graph,
		Registry:  registry,
		Logger:    logger,
	}
}

// Default returns a simulation logging at Info level.
func Default() *Simulation {
	return New(commons.LevelInfo)
}
