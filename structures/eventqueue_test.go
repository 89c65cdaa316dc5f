package structures

import (
	"testing"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
)

func testInfo(t *testing.T, tag string) process.Info {
	t.Helper()
	owner := &struct{ tag string }{tag: tag}
	r := process.NewRegistry()
	info, err := r.GetOrCreate(owner, tag, tag, func() {})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	return info
}

func TestEventQueueOrdersByTime(t *testing.T) {
	q := NewEventQueue()
	q.Push(Event{Time: commons.Time(5), Info: testInfo(t, "late")})
	q.Push(Event{Time: commons.Time(1), Info: testInfo(t, "early")})
	q.Push(Event{Time: commons.Time(3), Info: testInfo(t, "mid")})

	want := []commons.Time{1, 3, 5}
	for _, w := range want {
		ev, ok := q.PopMin()
		if !ok {
			t.Fatalf("PopMin reported empty before draining %d events", len(want))
		}
		if ev.Time != w {
			t.Errorf("PopMin().Time = %d, want %d", ev.Time, w)
		}
	}
	if _, ok := q.PopMin(); ok {
		t.Fatal("PopMin on drained queue reported ok")
	}
}

func TestEventQueuePopBatchDedupsByKey(t *testing.T) {
	q := NewEventQueue()
	shared := testInfo(t, "shared")

	q.Push(Event{Time: 2, Info: shared})
	q.Push(Event{Time: 2, Info: shared})
	q.Push(Event{Time: 2, Info: testInfo(t, "other")})
	q.Push(Event{Time: 3, Info: testInfo(t, "future")})

	batch := q.PopBatch(2)
	if len(batch) != 2 {
		t.Fatalf("PopBatch(2) returned %d entries, want 2 (duplicate key collapsed)", len(batch))
	}
	if q.Len() != 1 {
		t.Fatalf("queue len after PopBatch(2) = %d, want 1 (t=3 entry remains)", q.Len())
	}
}

func TestEventQueuePeekTimeOnEmpty(t *testing.T) {
	q := NewEventQueue()
	if _, ok := q.PeekTime(); ok {
		t.Fatal("PeekTime on empty queue reported ok")
	}
}
