// Package models collects small combinational and sequential circuit
// models used to exercise the kernel package end to end: gates, a full
// adder, a multiplexer, a D flip-flop, a clock, and a probe.
package models

import (
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// NotGate inverts in onto out whenever in changes.
type NotGate struct {
	*kernel.Module
	In  *signals.Input[bool]
	Out *signals.Output[bool]
}

// NewNotGate declares a NOT gate named name under parent (nil for a
// root module), wired into sim.
func NewNotGate(name string, parent *kernel.Module, sim *kernel.Simulation) (*NotGate, error) {
	g := &NotGate{
		Module: kernel.NewModule(name, parent, sim),
		In:     signals.NewInput[bool]("in"),
		Out:    signals.NewOutput[bool]("out"),
	}
	if err := g.AddSensitivity(g, "evaluate", "evaluate", g.evaluate, g.In); err != nil {
		return nil, err
	}
	if err := g.AddProducer(g, "evaluate", "evaluate", g.evaluate, g.Out); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *NotGate) evaluate() {
	v, err := g.In.Get()
	if err != nil {
		panic(err)
	}
	if err := g.Out.Set(!v); err != nil {
		panic(err)
	}
}
