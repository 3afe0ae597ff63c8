package scheduler

import (
	"container/heap"
	"time"
)

// Event is a pending trigger in the scheduler heap. A non-empty CronExpr
// makes it recurring: after firing, the next occurrence is re-added.
type Event struct {
	// Name identifies the job the trigger belongs to.
	Name string
	// TriggerAt is the wall-clock time the event fires.
	TriggerAt time.Time
	// CronExpr is the cron expression for recurring events. Empty means
	// one-shot.
	CronExpr string
}

// eventHeap is a min-heap of Events ordered by TriggerAt, earliest first.
type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].TriggerAt.Before(h[j].TriggerAt) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *eventHeap, e Event) {
	heap.Push(h, e)
}

func heapPop(h *eventHeap) Event {
	return heap.Pop(h).(Event)
}

// heapRemoveByName removes the first event with the given name. Returns
// false when no such event is pending.
func heapRemoveByName(h *eventHeap, name string) bool {
	for i, e := range *h {
		if e.Name == name {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
