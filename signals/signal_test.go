package signals

import (
	"testing"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
)

// fakeScheduler is a minimal signals.Scheduler double that records
// every scheduling call instead of driving a real delta-cycle loop,
// so Signal's write semantics can be tested in isolation from kernel.
type fakeScheduler struct {
	now   commons.Time
	calls []process.Info
}

func (f *fakeScheduler) ScheduleNow(info process.Info) {
	f.calls = append(f.calls, info)
}

func (f *fakeScheduler) ScheduleAfter(info process.Info, delay commons.Time) {
	f.calls = append(f.calls, info)
}

func TestSignalZeroDelaySetIsImmediate(t *testing.T) {
	sched := &fakeScheduler{}
	registry := process.NewRegistry()
	s := NewSignal(sched, registry, "x", false, commons.Time(0))

	s.Set(true)

	if !s.Get() {
		t.Fatal("Get() = false after Set(true) with delay=0, want true")
	}
	if s.lastValue != false {
		t.Fatalf("lastValue = %v, want false", s.lastValue)
	}
	if len(sched.calls) != 0 {
		t.Fatalf("expected no scheduled calls with no subscribers, got %d", len(sched.calls))
	}
}

func TestSignalDelayedSetIsStaged(t *testing.T) {
	sched := &fakeScheduler{}
	registry := process.NewRegistry()
	s := NewSignal(sched, registry, "x", false, commons.Time(3))

	s.Set(true)

	if s.Get() != false {
		t.Fatalf("Get() = %v immediately after a delayed Set, want unchanged false", s.Get())
	}
	if len(sched.calls) != 1 {
		t.Fatalf("expected exactly one scheduled apply_stored call, got %d", len(sched.calls))
	}
}

func TestSignalSetNoOpWhenUnchanged(t *testing.T) {
	sched := &fakeScheduler{}
	registry := process.NewRegistry()
	s := NewSignal(sched, registry, "x", true, commons.Time(0))

	owner := &struct{}{}
	info, err := registry.GetOrCreate(owner, "watch", "watch", func() {})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := s.Subscribe(info); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	s.Set(true)
	if len(sched.calls) != 0 {
		t.Fatalf("Set(v) with v == current value scheduled %d wakeups, want 0", len(sched.calls))
	}
}

func TestSignalHasChangedUsesFloatEpsilon(t *testing.T) {
	sched := &fakeScheduler{}
	registry := process.NewRegistry()
	s := NewSignal(sched, registry, "f", 1.0, commons.Time(0))

	s.Set(1.0 + floatEpsilon/2)
	if s.HasChanged() {
		t.Fatal("HasChanged() = true for a sub-epsilon float delta")
	}

	s.Set(1.1)
	if !s.HasChanged() {
		t.Fatal("HasChanged() = false for a clearly distinct float value")
	}
}

func TestSignalSubscribeRejectsInvalidInfo(t *testing.T) {
	sched := &fakeScheduler{}
	registry := process.NewRegistry()
	s := NewSignal(sched, registry, "x", false, commons.Time(0))

	if err := s.Subscribe(process.Info{}); err == nil {
		t.Fatal("Subscribe(zero Info) succeeded, want error")
	}
}

func TestSignalBindAlwaysFails(t *testing.T) {
	sched := &fakeScheduler{}
	registry := process.NewRegistry()
	a := NewSignal(sched, registry, "a", false, commons.Time(0))
	b := NewSignal(sched, registry, "b", false, commons.Time(0))

	if err := a.Bind(b); err == nil {
		t.Fatal("Signal.Bind succeeded, want error")
	}
}
