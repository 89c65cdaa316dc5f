package kernel_test

import (
	"strings"
	"testing"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// wireGate is a bare test fixture: a module with arbitrary boolean
// inputs sensitised to arbitrary boolean outputs, wired purely to
// exercise dependency-graph topology. The evaluate body's actual
// values are irrelevant; only the consumed/produced edges matter.
type wireGate struct {
	*kernel.Module
	ins  []*signals.Input[bool]
	outs []*signals.Output[bool]
}

func newWireGate(t *testing.T, name string, sim *kernel.Simulation, ins, outs []*signals.Signal[bool]) *wireGate {
	t.Helper()
	g := &wireGate{Module: kernel.NewModule(name, nil, sim)}

	inPorts := make([]signals.AnyPort, len(ins))
	for i, sig := range ins {
		in := signals.NewInput[bool](sig.Name())
		if err := in.Bind(sig); err != nil {
			t.Fatalf("bind input %q: %v", sig.Name(), err)
		}
		g.ins = append(g.ins, in)
		inPorts[i] = in
	}
	outPorts := make([]signals.AnyPort, len(outs))
	for i, sig := range outs {
		out := signals.NewOutput[bool](sig.Name())
		if err := out.Bind(sig); err != nil {
			t.Fatalf("bind output %q: %v", sig.Name(), err)
		}
		g.outs = append(g.outs, out)
		outPorts[i] = out
	}

	if err := g.AddSensitivity(g, "evaluate", "evaluate", g.evaluate, inPorts...); err != nil {
		t.Fatalf("AddSensitivity: %v", err)
	}
	if err := g.AddProducer(g, "evaluate", "evaluate", g.evaluate, outPorts...); err != nil {
		t.Fatalf("AddProducer: %v", err)
	}
	return g
}

func (g *wireGate) evaluate() {
	for _, out := range g.outs {
		_ = out.Set(true)
	}
}

// A zero-delay bad cycle hiding behind a benign one, on a different
// branch of the same DFS tree, must still be reported: once a DFS
// marks a node fully explored down one branch, a back edge into that
// same node from a different branch can still close a distinct
// elementary cycle.
//
// Topology: A->B (B delayed, benign), A->C (zero-delay), {B,C}->D
// (zero-delay), D->A (zero-delay). A-B-D-A is benign (via B's delay);
// A-C-D-A is an all-zero-delay bad cycle sharing node D with the
// benign one.
func TestComputeCyclesFindsCycleSharingNodeWithBenignCycle(t *testing.T) {
	sim := kernel.Default()

	a := signals.NewSignal(sim.Scheduler, sim.Registry, "a", false, commons.Time(0))
	b := signals.NewSignal(sim.Scheduler, sim.Registry, "b", false, commons.Nanoseconds(1))
	c := signals.NewSignal(sim.Scheduler, sim.Registry, "c", false, commons.Time(0))
	d := signals.NewSignal(sim.Scheduler, sim.Registry, "d", false, commons.Time(0))

	newWireGate(t, "m_ab", sim, []*signals.Signal[bool]{a}, []*signals.Signal[bool]{b})
	newWireGate(t, "m_ac", sim, []*signals.Signal[bool]{a}, []*signals.Signal[bool]{c})
	newWireGate(t, "m_bcd", sim, []*signals.Signal[bool]{b, c}, []*signals.Signal[bool]{d})
	newWireGate(t, "m_da", sim, []*signals.Signal[bool]{d}, []*signals.Signal[bool]{a})

	err := sim.Scheduler.Initialize()
	if err == nil {
		t.Fatal("Initialize() succeeded, want a bad-cycle error for a-c-d")
	}
	for _, name := range []string{"a", "c", "d"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name signal %q from the bad cycle a-c-d", err.Error(), name)
		}
	}
}

// Two different Outputs bound to the same underlying Signal claim two
// producers for one signal, which is a configuration error rather than
// a silent first-registration-wins no-op (DESIGN.md, Open Question
// resolutions).
func TestInitializeRejectsTwoProducersOfTheSameSignal(t *testing.T) {
	sim := kernel.Default()

	shared := signals.NewSignal(sim.Scheduler, sim.Registry, "shared", false, commons.Time(0))
	trigger := signals.NewSignal(sim.Scheduler, sim.Registry, "trigger", false, commons.Time(0))

	newWireGate(t, "first", sim, []*signals.Signal[bool]{trigger}, []*signals.Signal[bool]{shared})
	newWireGate(t, "second", sim, []*signals.Signal[bool]{trigger}, []*signals.Signal[bool]{shared})

	err := sim.Scheduler.Initialize()
	if err == nil {
		t.Fatal("Initialize() succeeded, want an error for two producers of signal \"shared\"")
	}
	if !strings.Contains(err.Error(), "shared") {
		t.Errorf("error %q does not name the contended signal %q", err.Error(), "shared")
	}
}
