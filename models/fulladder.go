package models

import (
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// FullAdder computes sum = a xor b xor cin and cout = majority(a, b,
// cin), adapted from full_adder.hpp.
type FullAdder struct {
	*kernel.Module
	A, B, Cin *signals.Input[bool]
	Sum, Cout *signals.Output[bool]
}

// NewFullAdder declares a full adder named name under parent, wired
// into sim.
func NewFullAdder(name string, parent *kernel.Module, sim *kernel.Simulation) (*FullAdder, error) {
	f := &FullAdder{
		Module: kernel.NewModule(name, parent, sim),
		A:      signals.NewInput[bool]("a"),
		B:      signals.NewInput[bool]("b"),
		Cin:    signals.NewInput[bool]("cin"),
		Sum:    signals.NewOutput[bool]("sum"),
		Cout:   signals.NewOutput[bool]("cout"),
	}
	if err := f.AddSensitivity(f, "evaluate", "evaluate", f.evaluate, f.A, f.B, f.Cin); err != nil {
		return nil, err
	}
	if err := f.AddProducer(f, "evaluate", "evaluate", f.evaluate, f.Sum, f.Cout); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FullAdder) evaluate() {
	a, err := f.A.Get()
	if err != nil {
		panic(err)
	}
	b, err := f.B.Get()
	if err != nil {
		panic(err)
	}
	cin, err := f.Cin.Get()
	if err != nil {
		panic(err)
	}

	sum := (a != b) != cin
	cout := (a && b) || (b && cin) || (a && cin)

	if err := f.Sum.Set(sum); err != nil {
		panic(err)
	}
	if err := f.Cout.Set(cout); err != nil {
		panic(err)
	}
}
