package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSchedulerAddAndFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fired := make(map[string]bool)
	s := New(ctx, func(name string) {
		mu.Lock()
		fired[name] = true
		mu.Unlock()
	})

	s.Add(Event{Name: "auto", TriggerAt: time.Now().Add(100 * time.Millisecond)})

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !fired["auto"] {
		t.Fatal("expected auto to fire")
	}
}

func TestSchedulerRemoveBeforeFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fired := make(map[string]bool)
	s := New(ctx, func(name string) {
		mu.Lock()
		fired[name] = true
		mu.Unlock()
	})

	s.Add(Event{Name: "auto", TriggerAt: time.Now().Add(2 * time.Second)})
	time.Sleep(100 * time.Millisecond)
	s.Remove("auto")
	time.Sleep(2200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired["auto"] {
		t.Fatal("removed event still fired")
	}
}

func TestSchedulerShutdownViaContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	fired := 0
	s := New(ctx, func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	s.Add(Event{Name: "auto", TriggerAt: time.Now().Add(500 * time.Millisecond)})
	cancel()
	time.Sleep(700 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Fatal("event fired after context cancel")
	}
}

func TestSchedulerOrdersMultipleEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var fired []string
	s := New(ctx, func(name string) {
		mu.Lock()
		fired = append(fired, name)
		mu.Unlock()
	})

	s.Add(Event{Name: "first", TriggerAt: time.Now().Add(100 * time.Millisecond)})
	s.Add(Event{Name: "second", TriggerAt: time.Now().Add(200 * time.Millisecond)})

	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 2 || fired[0] != "first" || fired[1] != "second" {
		t.Fatalf("fired = %v, want [first second]", fired)
	}
}

func TestSchedulerRemoveNonexistent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, func(string) {})
	s.Remove("nonexistent")
}

func TestSchedulerRecurringStaysAlive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fired := 0
	s := New(ctx, func(string) {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	s.Add(Event{
		Name:      "auto",
		TriggerAt: time.Now().Add(100 * time.Millisecond),
		CronExpr:  "* * * * *",
	})

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired < 1 {
		t.Fatal("recurring event never fired")
	}
}
