package models

import (
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// DFlipFlop latches d into q on every rising edge of clk, unless reset
// is asserted (q forced to false) or enable is deasserted (q holds),
// adapted from d_flip_flop.hpp. reset and enable are registered as
// consumers only: the flop must not re-evaluate when they change on
// their own, only on the next clock edge.
type DFlipFlop struct {
	*kernel.Module
	Clk, D, Enable, Reset *signals.Input[bool]
	Q, QNot               *signals.Output[bool]
}

// NewDFlipFlop declares a D flip-flop named name under parent, wired
// into sim.
func NewDFlipFlop(name string, parent *kernel.Module, sim *kernel.Simulation) (*DFlipFlop, error) {
	f := &DFlipFlop{
		Module: kernel.NewModule(name, parent, sim),
		Clk:    signals.NewInput[bool]("clk"),
		D:      signals.NewInput[bool]("d"),
		Enable: signals.NewInput[bool]("enable"),
		Reset:  signals.NewInput[bool]("reset"),
		Q:      signals.NewOutput[bool]("q"),
		QNot:   signals.NewOutput[bool]("q_not"),
	}
	if err := f.AddSensitivity(f, "evaluate", "evaluate", f.evaluate, f.Clk); err != nil {
		return nil, err
	}
	if err := f.AddConsumer(f, "evaluate", "evaluate", f.evaluate, f.D, f.Enable, f.Reset); err != nil {
		return nil, err
	}
	if err := f.AddProducer(f, "evaluate", "evaluate", f.evaluate, f.Q, f.QNot); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *DFlipFlop) evaluate() {
	posedge, err := signals.InputPosedge(f.Clk)
	if err != nil {
		panic(err)
	}
	if !posedge {
		return
	}

	nextQ, err := f.Q.Get()
	if err != nil {
		panic(err)
	}

	reset, err := f.Reset.Get()
	if err != nil {
		panic(err)
	}
	enable, err := f.Enable.Get()
	if err != nil {
		panic(err)
	}

	if reset {
		nextQ = false
	} else if enable {
		if nextQ, err = f.D.Get(); err != nil {
			panic(err)
		}
	}

	if err := f.Q.Set(nextQ); err != nil {
		panic(err)
	}
	if err := f.QNot.Set(!nextQ); err != nil {
		panic(err)
	}
}
