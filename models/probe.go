package models

import (
	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// Probe watches In and invokes Callback every time it changes,
// defaulting to logging the new value. It is a convenience module for
// wiring observers into a circuit without writing a bespoke module for
// every test, adapted from probe.hpp.
type Probe[T signals.SignalValue] struct {
	*kernel.Module
	In       *signals.Input[T]
	Callback func(value T)

	logger *commons.Logger
}

// NewProbe declares a probe named name under parent, wired into sim.
// A nil callback logs "in = value" at Info level, with the probe's name
// as the log source, on every change.
func NewProbe[T signals.SignalValue](name string, parent *kernel.Module, sim *kernel.Simulation, callback func(value T)) (*Probe[T], error) {
	p := &Probe[T]{
		Module:   kernel.NewModule(name, parent, sim),
		In:       signals.NewInput[T]("in"),
		Callback: callback,
		logger:   sim.Logger,
	}
	if p.Callback == nil {
		p.Callback = p.defaultCallback
	}
	if err := p.AddSensitivity(p, "evaluate", "evaluate", p.evaluate, p.In); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Probe[T]) evaluate() {
	v, err := p.In.Get()
	if err != nil {
		panic(err)
	}
	if p.Callback != nil {
		p.Callback(v)
	}
}

func (p *Probe[T]) defaultCallback(v T) {
	p.logger.Info(p.Name(), "%s = %v", p.In.Name(), v)
}
