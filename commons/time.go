package commons

// Time is the simulation's monotonically non-decreasing clock, counted in
// the engine's base unit (nanoseconds by convention). It never decreases
// while a simulation runs.
type Time uint64

// Nanoseconds builds a Time value already expressed in the base unit.
func Nanoseconds(ns uint64) Time { return Time(ns) }

// Microseconds converts microseconds to the base unit.
func Microseconds(us uint64) Time { return Time(us * 1_000) }

// Milliseconds converts milliseconds to the base unit.
func Milliseconds(ms uint64) Time { return Time(ms * 1_000_000) }

// Seconds converts seconds to the base unit.
func Seconds(s uint64) Time { return Time(s * 1_000_000_000) }
