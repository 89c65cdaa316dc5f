package structures

import (
	"container/heap"

	"github.com/galfurian/digsim/commons"
	"github.com/galfurian/digsim/process"
)

// Event pairs a scheduled Time with the process activation it triggers.
type Event struct {
	Time commons.Time
	Info process.Info
}

// eventHeap is a container/heap.Interface min-heap ordered by Event.Time.
// No third-party priority-queue library appears anywhere in the example
// corpus, so this leans on the standard library's container/heap exactly
// the way most Go schedulers do — see DESIGN.md for the explicit
// standard-library justification.
type eventHeap []Event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].Time < h[j].Time }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)         { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// EventQueue is a min-heap of (time, process) entries with delta-cycle
// batch extraction. Entries are ordered by time only; the order among
// entries with equal times is not defined.
type EventQueue struct {
	heap eventHeap
}

// NewEventQueue returns an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{}
	heap.Init(&q.heap)
	return q
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return q.heap.Len() }

// Push schedules ev for future extraction.
func (q *EventQueue) Push(ev Event) {
	heap.Push(&q.heap, ev)
}

// PeekTime returns the time of the earliest pending event and whether
// the queue is non-empty.
func (q *EventQueue) PeekTime() (commons.Time, bool) {
	if q.heap.Len() == 0 {
		return 0, false
	}
	return q.heap[0].Time, true
}

// PopMin removes and returns the single earliest event.
func (q *EventQueue) PopMin() (Event, bool) {
	if q.heap.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.heap).(Event), true
}

// PopBatch removes and returns every event scheduled at exactly now,
// deduplicated by process.Key so each distinct process appears at most
// once in the batch, matching delta-cycle semantics. The first
// activation encountered for a given key is kept; activations
// carry no payload, so later duplicates within the same batch are
// equivalent and safely dropped.
func (q *EventQueue) PopBatch(now commons.Time) []process.Info {
	seen := make(map[process.Key]bool)
	var batch []process.Info
	for q.heap.Len() > 0 && q.heap[0].Time == now {
		ev := heap.Pop(&q.heap).(Event)
		if seen[ev.Info.Key] {
			continue
		}
		seen[ev.Info.Key] = true
		batch = append(batch, ev.Info)
	}
	return batch
}
