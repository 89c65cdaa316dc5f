package models

import (
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// Mux2to1 selects b when sel is true, a otherwise, adapted from
// mux2to1.hpp.
type Mux2to1[T signals.SignalValue] struct {
	*kernel.Module
	A, B *signals.Input[T]
	Sel  *signals.Input[bool]
	Out  *signals.Output[T]
}

// NewMux2to1 declares a 2:1 multiplexer named name under parent, wired
// into sim.
func NewMux2to1[T signals.SignalValue](name string, parent *kernel.Module, sim *kernel.Simulation) (*Mux2to1[T], error) {
	m := &Mux2to1[T]{
		Module: kernel.NewModule(name, parent, sim),
		A:      signals.NewInput[T]("a"),
		B:      signals.NewInput[T]("b"),
		Sel:    signals.NewInput[bool]("sel"),
		Out:    signals.NewOutput[T]("out"),
	}
	if err := m.AddSensitivity(m, "evaluate", "evaluate", m.evaluate, m.A, m.B, m.Sel); err != nil {
		return nil, err
	}
	if err := m.AddProducer(m, "evaluate", "evaluate", m.evaluate, m.Out); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mux2to1[T]) evaluate() {
	sel, err := m.Sel.Get()
	if err != nil {
		panic(err)
	}

	var result T
	if sel {
		result, err = m.B.Get()
	} else {
		result, err = m.A.Get()
	}
	if err != nil {
		panic(err)
	}

	if err := m.Out.Set(result); err != nil {
		panic(err)
	}
}
