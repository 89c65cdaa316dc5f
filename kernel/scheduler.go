package kernel

import (
	"fmt"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
	"github.com/galfurian/digsim/structures"
)

// Scheduler drives the simulation's delta-cycle event loop. It
// satisfies signals.Scheduler so every Signal[T] can reach it through
// that package's local interface without importing kernel.
type Scheduler struct {
	now          commons.Time
	initialized  bool
	queue        *structures.EventQueue
	initializers map[process.Key]process.Info

	graph  *DependencyGraph
	logger *commons.Logger
}

// NewScheduler returns a scheduler at time zero, wired to graph for the
// cycle check it runs at Initialize, and to logger for diagnostics.
func NewScheduler(graph *DependencyGraph, logger *commons.Logger) *Scheduler {
	return &Scheduler{
		queue:        structures.NewEventQueue(),
		initializers: make(map[process.Key]process.Info),
		graph:        graph,
		logger:       logger,
	}
}

// Now returns the scheduler's current simulated time.
func (s *Scheduler) Now() commons.Time { return s.now }

// Initialized reports whether Initialize has already run.
func (s *Scheduler) Initialized() bool { return s.initialized }

// QueueLen returns the number of events still pending in the event
// queue, mainly useful for tests asserting a run left nothing queued.
func (s *Scheduler) QueueLen() int { return s.queue.Len() }

// ScheduleNow queues info to run within the current delta cycle.
func (s *Scheduler) ScheduleNow(info process.Info) {
	s.queue.Push(structures.Event{Time: s.now, Info: info})
}

// ScheduleAfter queues info to run delay units from now; delay may be
// zero, which is equivalent to ScheduleNow.
func (s *Scheduler) ScheduleAfter(info process.Info, delay commons.Time) {
	s.queue.Push(structures.Event{Time: s.now + delay, Info: info})
}

// RegisterInitializer adds info to the set run once by Initialize.
// Duplicate registrations of the same process collapse by key.
func (s *Scheduler) RegisterInitializer(info process.Info) {
	if !info.Valid() {
		return
	}
	s.initializers[info.Key] = info
}

// Initialize computes the dependency graph's signal-level cycles; if
// any bad (purely combinational, zero-delay) cycle exists it writes a
// diagnostic DOT dump, logs every bad cycle found at Error level, and
// returns an error giving the number of bad cycles and the first one,
// without running any initializer. Otherwise it runs every
// registered initializer exactly once, in an unspecified order, and
// marks the scheduler initialized. Subsequent calls are no-ops.
//
// A bad cycle is reported as an error rather than terminating the
// process: a library must never call os.Exit on its caller's behalf
// (see DESIGN.md, Open Question resolutions, "Error propagation").
func (s *Scheduler) Initialize() error {
	if s.initialized {
		return nil
	}

	cycles, graph, err := s.graph.ComputeCycles()
	if err != nil {
		return fmt.Errorf("kernel: cannot initialize: %w", err)
	}

	var bad []Cycle
	for _, c := range cycles {
		if c.IsBad(graph) {
			bad = append(bad, c)
		}
	}
	if len(bad) > 0 {
		const dumpPath = "digsim_bad_cycle.dot"
		dumpErr := s.graph.ExportDOT(dumpPath)
		if s.logger != nil {
			for _, c := range bad {
				s.logger.Error("Scheduler", "bad combinational cycle: %s", c.String())
			}
			if dumpErr != nil {
				s.logger.Warning("Scheduler", "failed to export dependency graph to %s: %v", dumpPath, dumpErr)
			} else {
				s.logger.Info("Scheduler", "dependency graph exported to %s", dumpPath)
			}
		}
		return fmt.Errorf("kernel: %d bad combinational cycle(s) detected, first: %s", len(bad), bad[0].String())
	}

	for _, info := range s.initializers {
		info.Callable()
	}
	s.initialized = true
	return nil
}

// Run drives the main loop: it initializes the simulation if needed,
// then repeatedly advances now to the earliest pending event time and
// runs every process due at that time, deduplicated by process key,
// until the queue drains or now would exceed now()+duration. A
// duration of zero runs until the queue is empty.
func (s *Scheduler) Run(duration commons.Time) error {
	if !s.initialized {
		if err := s.Initialize(); err != nil {
			return err
		}
	}

	unbounded := duration == 0
	end := s.now + duration

	for {
		t, ok := s.queue.PeekTime()
		if !ok {
			break
		}
		if !unbounded && t > end {
			break
		}
		s.now = t
		batch := s.queue.PopBatch(t)
		for _, info := range batch {
			info.Callable()
		}
	}
	return nil
}
