package signals

// Posedge reports whether sig just transitioned from false to true.
// Go has no enable_if to restrict a generic method to Signal[bool]
// alone, so posedge/negedge are free functions over *Signal[bool]
// instead of methods on Signal[T].
func Posedge(sig *Signal[bool]) bool {
	return sig.value && !sig.lastValue
}

// Negedge reports whether sig just transitioned from true to false.
func Negedge(sig *Signal[bool]) bool {
	return !sig.value && sig.lastValue
}

// InputPosedge reports whether the signal in is bound to just
// transitioned from false to true. It fails if in is unbound.
func InputPosedge(in *Input[bool]) (bool, error) {
	sig, err := in.resolvedSignal()
	if err != nil {
		return false, err
	}
	return Posedge(sig), nil
}

// InputNegedge reports whether the signal in is bound to just
// transitioned from true to false. It fails if in is unbound.
func InputNegedge(in *Input[bool]) (bool, error) {
	sig, err := in.resolvedSignal()
	if err != nil {
		return false, err
	}
	return Negedge(sig), nil
}
