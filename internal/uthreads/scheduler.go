package uthreads

import (
	"os"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Scheduler is the process-wide singleton scheduler state, alive between a
// successful Init and the termination of the main thread. Every field is
// only ever touched while mu is held — mu is this module's substitute for
// masking the timer signal at the process level.
type Scheduler struct {
	mu sync.Mutex

	quantumTable []int
	threads      map[int]*thread
	readyQueue   []int
	blocked      map[int]struct{}
	running      int
	totalQuantum int
	deferredFree []*thread

	capacity *semaphore.Weighted // gates live threads at MaxTID
	timer    clock
	sigStop  func() // stops the signal dispatcher goroutine; nil until Init
}

// newScheduler allocates scheduler state but does not yet spawn the main
// thread or arm the timer; Init does both before publishing the scheduler
// as the singleton.
func newScheduler(quantumTable []int) *Scheduler {
	return &Scheduler{
		quantumTable: quantumTable,
		threads:      make(map[int]*thread),
		blocked:      make(map[int]struct{}),
		capacity:     semaphore.NewWeighted(MaxTID),
		timer:        realClock{},
		totalQuantum: 0,
	}
}

// nextFreeID returns the minimum element of [0, MaxTID) not currently a key
// of threads, or -1 if every slot is in use. Must be called with mu held.
func (s *Scheduler) nextFreeID() int {
	for id := 0; id < MaxTID; id++ {
		if _, ok := s.threads[id]; !ok {
			return id
		}
	}
	return -1
}

// enqueueReady appends id to the back of the ready queue.
func (s *Scheduler) enqueueReady(id int) {
	s.readyQueue = append(s.readyQueue, id)
}

// popReady removes and returns the identifier at the front of the ready
// queue. Must not be called when the queue is empty.
func (s *Scheduler) popReady() int {
	id := s.readyQueue[0]
	s.readyQueue = s.readyQueue[1:]
	return id
}

// removeReady removes tid from the ready queue if present, preserving the
// relative order of the remaining entries.
func (s *Scheduler) removeReady(tid int) {
	for i, id := range s.readyQueue {
		if id == tid {
			s.readyQueue = append(s.readyQueue[:i], s.readyQueue[i+1:]...)
			return
		}
	}
}

// freeThread releases a terminated thread's owned resources (its capacity
// unit; its stack buffer is simply dropped for the garbage collector).
func (s *Scheduler) freeThread(t *thread) {
	s.capacity.Release(1)
}

// drainDeferredFree frees every record parked in deferredFree from a prior
// self-terminate and clears the holding area. Must run on the successor's
// execution, never on the freed thread's own (it cannot free the resources
// it is still standing on).
func (s *Scheduler) drainDeferredFree() {
	for _, t := range s.deferredFree {
		s.freeThread(t)
	}
	s.deferredFree = s.deferredFree[:0]
}

// teardown is terminate(0): it frees every live record, stops the signal
// driver and the timer, clears the package singleton, and exits the
// process with status 0. Called with mu held; never returns.
func (s *Scheduler) teardown() {
	for id, t := range s.threads {
		delete(s.threads, id)
		s.freeThread(t)
	}
	s.drainDeferredFree()
	s.readyQueue = nil
	s.blocked = make(map[int]struct{})

	if s.sigStop != nil {
		s.sigStop()
	}
	_ = s.timer.stop()

	singletonMu.Lock()
	if singleton == s {
		singleton = nil
	}
	singletonMu.Unlock()

	os.Exit(0)
}
