package kernel

import (
	"fmt"

	"github.com/galfurian/digsim/process"
	"github.com/galfurian/digsim/signals"
)

// Module is a named node in the design hierarchy: it owns no signals of
// its own, only a parent pointer and the ports its constructor declares.
// Port values live as ordinary fields on the embedding Go struct; Module
// itself only tracks identity and registration.
type Module struct {
	name   string
	parent *Module

	registry *process.Registry
	sched    *Scheduler
	graph    *DependencyGraph
}

// NewModule declares a module named name under parent (nil for a root
// module), registering its sensitivities, consumers and producers
// against sim's scheduler, registry and dependency graph.
func NewModule(name string, parent *Module, sim *Simulation) *Module {
	return &Module{
		name:     name,
		parent:   parent,
		registry: sim.Registry,
		sched:    sim.Scheduler,
		graph:    sim.Graph,
	}
}

// Name returns the module's diagnostic name.
func (m *Module) Name() string { return m.name }

// Parent returns the module's parent, or nil for a root module.
func (m *Module) Parent() *Module { return m.parent }

// Scheduler returns the scheduler m was constructed against, for models
// that self-schedule outside the sensitivity/consumer/producer
// primitives — a free-running clock, for instance, arms its first and
// every subsequent edge with schedule_after directly rather than
// waiting on a signal (see the clock model grounding in DESIGN.md).
func (m *Module) Scheduler() *Scheduler { return m.sched }

// Process memoises owner.method under tag as a process.Info, using m's
// registry so repeated registrations against the same (owner, method)
// pair resolve to the same process identity. Most models reach a
// process.Info indirectly through AddSensitivity/AddConsumer/
// AddProducer; Process is exposed directly for self-scheduling models
// (clocks) that need a process.Info to hand to Scheduler.ScheduleAfter
// without attaching it to any port.
func (m *Module) Process(owner any, tag, label string, method func()) (process.Info, error) {
	return m.methodInfo(owner, tag, label, method)
}

// methodInfo memoises owner.method under tag as a process.Info, using
// m's registry so repeated registrations against the same (owner,
// method) pair resolve to the same process identity.
func (m *Module) methodInfo(owner any, tag, label string, method func()) (process.Info, error) {
	return m.registry.GetOrCreate(owner, tag, m.name+"."+label, method)
}

// AddSensitivity subscribes process(owner, method) to every port in
// ports: the process runs whenever any of them changes, it is queued to
// run once at simulation start as an initializer, and each port is also
// recorded as a consumer in the dependency graph.
func (m *Module) AddSensitivity(owner any, tag, label string, method func(), ports ...signals.AnyPort) error {
	info, err := m.methodInfo(owner, tag, label, method)
	if err != nil {
		return err
	}
	for _, port := range ports {
		if err := port.Subscribe(info); err != nil {
			return fmt.Errorf("kernel: module %q: %w", m.name, err)
		}
		m.graph.RegisterConsumer(m, port, info)
	}
	m.sched.RegisterInitializer(info)
	return nil
}

// AddConsumer records process(owner, method) as a reader of every port
// in ports in the dependency graph only: no subscription is created, so
// the process is not woken when the signal changes. This is for
// processes that read a signal incidentally — e.g. a clocked
// process that reads data inputs without being sensitive to them — but
// whose read must still be visible to the cycle detector.
func (m *Module) AddConsumer(owner any, tag, label string, method func(), ports ...signals.AnyPort) error {
	info, err := m.methodInfo(owner, tag, label, method)
	if err != nil {
		return err
	}
	for _, port := range ports {
		m.graph.RegisterConsumer(m, port, info)
	}
	return nil
}

// AddProducer records process(owner, method) as the producer of every
// port in ports in the dependency graph. Re-registering a port already
// claimed by another process is a no-op: see
// DependencyGraph.RegisterProducer.
func (m *Module) AddProducer(owner any, tag, label string, method func(), ports ...signals.AnyPort) error {
	info, err := m.methodInfo(owner, tag, label, method)
	if err != nil {
		return err
	}
	for _, port := range ports {
		m.graph.RegisterProducer(m, port, info)
	}
	return nil
}
