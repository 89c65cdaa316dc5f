package models

import (
	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/kernel"
	"github.com/galfurian/digsim/signals"
)

// Clock is a free-running module that toggles Out with the given
// period and duty cycle. Unlike the sensitivity-driven models in this
// package, a clock has no input to be sensitive to: it re-arms itself
// by scheduling its own next evaluation directly through
// Module.Scheduler rather than registering an initializer.
type Clock struct {
	*kernel.Module
	Out *signals.Output[bool]

	period    commons.Time
	dutyCycle float64
}

// NewClock declares a clock named name under parent, wired into sim,
// toggling with the given period (in simulation time units) and duty
// cycle (fraction of the period spent high). The first toggle happens
// at startTime plus period*dutyCycle when posedgeFirst is true, or plus
// period*(1-dutyCycle) otherwise; it inverts whatever value Out holds at
// that moment, so its direction follows the bound signal's value, not
// posedgeFirst.
func NewClock(name string, parent *kernel.Module, sim *kernel.Simulation, period commons.Time, dutyCycle float64, startTime commons.Time, posedgeFirst bool) (*Clock, error) {
	c := &Clock{
		Module:    kernel.NewModule(name, parent, sim),
		Out:       signals.NewOutput[bool]("out"),
		period:    period,
		dutyCycle: dutyCycle,
	}
	if err := c.AddProducer(c, "evaluate", "evaluate", c.evaluate, c.Out); err != nil {
		return nil, err
	}

	delay := startTime
	if posedgeFirst {
		delay += commons.Time(float64(period) * dutyCycle)
	} else {
		delay += commons.Time(float64(period) * (1 - dutyCycle))
	}

	info, err := c.Process(c, "start", "start", c.evaluate)
	if err != nil {
		return nil, err
	}
	c.Scheduler().ScheduleAfter(info, delay)
	return c, nil
}

func (c *Clock) evaluate() {
	current, err := c.Out.Get()
	if err != nil {
		panic(err)
	}
	next := !current
	if err := c.Out.Set(next); err != nil {
		panic(err)
	}

	var delay commons.Time
	if next {
		delay = commons.Time(float64(c.period) * c.dutyCycle)
	} else {
		delay = commons.Time(float64(c.period) * (1 - c.dutyCycle))
	}

	info, err := c.Process(c, "evaluate", "evaluate", c.evaluate)
	if err != nil {
		panic(err)
	}
	c.Scheduler().ScheduleAfter(info, delay)
}
