package scheduler

import (
	"container/heap"
	"context"
	"time"
)

// maxSleepCap bounds how long the scheduler goroutine sleeps between wakeups
// so clock steps are noticed within a minute.
const maxSleepCap = 60 * time.Second

// Scheduler fires registered events at their trigger times. All heap access
// happens on the single run goroutine; Add and Remove hand work over on
// channels.
type Scheduler struct {
	addChan    chan Event
	removeChan chan string
	ctx        context.Context
}

// New starts a scheduler whose goroutine exits when ctx is cancelled. The
// onTrigger callback receives the name of each fired event; it runs on the
// scheduler goroutine, so long work belongs in the callee.
func New(ctx context.Context, onTrigger func(name string)) *Scheduler {
	s := &Scheduler{
		addChan:    make(chan Event, 16),
		removeChan: make(chan string, 16),
		ctx:        ctx,
	}
	go s.run(onTrigger)
	return s
}

// Add enqueues an event.
func (s *Scheduler) Add(event Event) {
	select {
	case s.addChan <- event:
	case <-s.ctx.Done():
	}
}

// Remove cancels the pending event with the given name.
func (s *Scheduler) Remove(name string) {
	select {
	case s.removeChan <- name:
	case <-s.ctx.Done():
	}
}

func (s *Scheduler) run(onTrigger func(string)) {
	h := &eventHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].TriggerAt)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event := <-s.addChan:
			heapPush(h, event)
			timerCh = resetTimer()

		case name := <-s.removeChan:
			heapRemoveByName(h, name)
			timerCh = resetTimer()

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				event := heapPop(h)
				onTrigger(event.Name)
				if event.CronExpr != "" {
					next, err := NextRun(event.CronExpr, time.Now())
					if err == nil {
						heapPush(h, Event{
							Name:      event.Name,
							TriggerAt: next,
							CronExpr:  event.CronExpr,
						})
					}
				}
			}
			timerCh = resetTimer()
		}
	}
}
