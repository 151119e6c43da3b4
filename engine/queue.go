package engine

import "container/heap"

// Event is anything the simulation clock can schedule. *Order and Cancel
// implement it.
type Event interface {
	Time() int64
}

// eventEntry wraps an event for heap operations.
type eventEntry struct {
	ts  int64
	seq uint64
	ev  Event
}

// eventHeap orders entries by timestamp, then by push sequence so replays
// with equal timestamps are deterministic.
type eventHeap []eventEntry

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].ts != h[j].ts {
		return h[i].ts < h[j].ts
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(eventEntry))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[0 : n-1]
	return entry
}

// EventQueue is a timestamp-ordered queue of pending events. It has no
// knowledge of order-book semantics.
type EventQueue struct {
	heap eventHeap
	seq  uint64
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push schedules an event at its own time.
func (q *EventQueue) Push(ev Event) {
	q.seq++
	heap.Push(&q.heap, eventEntry{ts: ev.Time(), seq: q.seq, ev: ev})
}

// PopNext removes and returns the earliest event with timestamp <= bound.
// Repeated calls drain all due events in (timestamp, push-order) order;
// events pushed at or below the bound while draining are picked up by the
// same drain.
func (q *EventQueue) PopNext(bound int64) (Event, bool) {
	if len(q.heap) == 0 || q.heap[0].ts > bound {
		return nil, false
	}
	entry := heap.Pop(&q.heap).(eventEntry)
	return entry.ev, true
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int { return len(q.heap) }
