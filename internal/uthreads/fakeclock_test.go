package uthreads

import (
	"sync"
	"time"
)

// fakeClock stands in for realClock in tests, so the switch protocol can be
// driven deterministically by calling dispatch directly instead of waiting
// on a real microsecond-granularity ITIMER_VIRTUAL.
type fakeClock struct {
	mu     sync.Mutex
	armed  []time.Duration
	stops  int
}

func (c *fakeClock) arm(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = append(c.armed, d)
	return nil
}

func (c *fakeClock) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	return nil
}

func (c *fakeClock) armCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.armed)
}

// newTestScheduler builds a scheduler with a fake clock and a live main
// thread, mirroring the state Init leaves behind but without touching any
// real OS timer or signal.
func newTestScheduler(quantumTable []int) (*Scheduler, *fakeClock) {
	s := newScheduler(quantumTable)
	fc := &fakeClock{}
	s.timer = fc

	if !s.capacity.TryAcquire(1) {
		panic("fresh capacity semaphore exhausted")
	}
	main := newMainThread(quantumTable[0])
	s.threads[MainThreadID] = main
	s.running = MainThreadID
	s.totalQuantum = 1
	s.armTimer(quantumTable[0])

	return s, fc
}

// tick simulates one virtual-timer expiry: mask, run the switch protocol
// as the asynchronous case (which releases mu itself), and return once mu
// is free again, so any incoming thread that took mu meanwhile has let go.
func tick(s *Scheduler) {
	s.mu.Lock()
	s.dispatch(false)
	s.mu.Lock()
	s.mu.Unlock()
}

// installSingleton makes s the package-wide scheduler for the duration of a
// test, so tests can drive the public operations (Resume, ChangePriority,
// ...) against a fake-clock scheduler instead of reimplementing their
// bookkeeping. The returned func restores whatever singleton was live before.
func installSingleton(s *Scheduler) func() {
	singletonMu.Lock()
	prev := singleton
	singleton = s
	singletonMu.Unlock()
	return func() {
		singletonMu.Lock()
		singleton = prev
		singletonMu.Unlock()
	}
}

// spawnTest creates a non-main thread record the way Spawn does, without
// going through the package singleton.
func (s *Scheduler) spawnTest(entry func(), priority int) int {
	if !s.capacity.TryAcquire(1) {
		panic("capacity full")
	}
	id := s.nextFreeID()
	quantumUsec := s.quantumTable[priority]
	onExit := func() {
		s.mu.Lock()
		s.terminateSelf(s.threads[id])
	}
	t := newThread(id, priority, quantumUsec, entry, onExit)
	s.threads[id] = t
	s.enqueueReady(id)
	return id
}
