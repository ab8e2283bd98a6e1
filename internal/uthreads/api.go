package uthreads

import "sync"

// singletonMu guards only the swap of the package-wide scheduler pointer
// itself (construction on Init, teardown on terminating the main thread);
// everything inside a *Scheduler is guarded by that scheduler's own mu.
var (
	singletonMu sync.Mutex
	singleton   *Scheduler
)

// current returns the live scheduler, or a library error if Init has not
// (yet, or any longer) produced one.
func current() (*Scheduler, error) {
	singletonMu.Lock()
	s := singleton
	singletonMu.Unlock()
	if s == nil {
		return nil, libraryError("library not initialized")
	}
	return s, nil
}

// Init validates the quantum table, constructs the scheduler singleton,
// spawns the main thread already running with quantum count 1, starts the
// signal driver, and arms the timer with quantumUsecs[0].
func Init(quantumUsecs []int) error {
	if len(quantumUsecs) == 0 {
		return libraryError("quantum table must not be empty")
	}
	for _, usec := range quantumUsecs {
		if usec <= 0 {
			return libraryError("quantum lengths must be positive, got %d", usec)
		}
	}

	s := newScheduler(append([]int(nil), quantumUsecs...))

	if !s.capacity.TryAcquire(1) {
		systemErrorf("capacity semaphore exhausted on a fresh scheduler")
	}
	main := newMainThread(quantumUsecs[0])
	s.threads[MainThreadID] = main
	s.running = MainThreadID
	s.totalQuantum = 1

	s.startSignalDriver()
	s.armTimer(quantumUsecs[0])

	singletonMu.Lock()
	singleton = s
	singletonMu.Unlock()
	return nil
}

// Spawn allocates the lowest free identifier, in READY state with
// quantum_count 0, and appends it to the ready queue.
func Spawn(entry func(), priority int) (int, error) {
	s, err := current()
	if err != nil {
		return -1, err
	}
	s.mu.Lock()

	if !s.capacity.TryAcquire(1) {
		s.mu.Unlock()
		return -1, libraryError("capacity full")
	}

	id := s.nextFreeID()
	if id == -1 {
		systemErrorf("capacity semaphore admitted a spawn with no free identifier")
	}

	quantumUsec := s.quantumTable[priority]
	onExit := func() {
		s.mu.Lock()
		s.terminateSelf(s.threads[id])
	}
	t := newThread(id, priority, quantumUsec, entry, onExit)
	s.threads[id] = t
	s.enqueueReady(id)

	s.mu.Unlock()
	return id, nil
}

// Terminate tears down the process for tid 0, frees a ready or blocked
// victim immediately, or switches away (without returning to the caller)
// when tid names the running thread.
func Terminate(tid int) error {
	s, err := current()
	if err != nil {
		return err
	}
	s.mu.Lock()

	t, ok := s.threads[tid]
	if !ok {
		s.mu.Unlock()
		return libraryError("thread %d is not live", tid)
	}

	if tid == MainThreadID {
		s.teardown()
		return nil // unreachable: teardown exits the process
	}

	switch t.state {
	case Running:
		s.terminateSelf(t)
		return nil // unreachable: terminateSelf never returns
	case Ready:
		s.removeReady(tid)
		delete(s.threads, tid)
		s.freeThread(t)
		s.mu.Unlock()
		return nil
	case Blocked:
		delete(s.blocked, tid)
		delete(s.threads, tid)
		s.freeThread(t)
		s.mu.Unlock()
		return nil
	default:
		systemErrorf("thread %d observed in transient state %s outside the switch protocol", tid, t.state)
		return nil
	}
}

// Block is a no-op when the victim is already blocked, a pure bookkeeping
// move when it is ready, and a synchronous yield when the victim is the
// running thread blocking itself.
func Block(tid int) error {
	s, err := current()
	if err != nil {
		return err
	}
	s.mu.Lock()

	t, ok := s.threads[tid]
	if !ok {
		s.mu.Unlock()
		return libraryError("thread %d is not live", tid)
	}
	if tid == MainThreadID {
		s.mu.Unlock()
		return libraryError("the main thread cannot be blocked")
	}

	switch t.state {
	case Blocked:
		s.mu.Unlock()
	case Running:
		s.blocked[tid] = struct{}{}
		t.state = Blocked
		s.dispatch(true)
	case Ready:
		s.removeReady(tid)
		s.blocked[tid] = struct{}{}
		t.state = Blocked
		s.mu.Unlock()
	default:
		systemErrorf("thread %d observed in transient state %s outside the switch protocol", tid, t.state)
	}
	return nil
}

// Resume is a no-op unless the victim is blocked, in which case it rejoins
// the back of the ready queue.
func Resume(tid int) error {
	s, err := current()
	if err != nil {
		return err
	}
	s.mu.Lock()

	t, ok := s.threads[tid]
	if !ok {
		s.mu.Unlock()
		return libraryError("thread %d is not live", tid)
	}

	if t.state == Blocked {
		delete(s.blocked, tid)
		t.state = Ready
		s.enqueueReady(tid)
	}
	s.mu.Unlock()
	return nil
}

// ChangePriority updates tid's stored priority index; it takes effect only
// at tid's next schedule-in, never on an in-flight quantum.
func ChangePriority(tid int, priority int) error {
	s, err := current()
	if err != nil {
		return err
	}
	s.mu.Lock()

	t, ok := s.threads[tid]
	if !ok {
		s.mu.Unlock()
		return libraryError("thread %d is not live", tid)
	}
	if priority < 0 {
		s.mu.Unlock()
		return libraryError("priority must be non-negative, got %d", priority)
	}

	t.priority = priority
	s.mu.Unlock()
	return nil
}

// GetTID returns the identifier of the currently running thread.
func GetTID() (int, error) {
	s, err := current()
	if err != nil {
		return -1, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, nil
}

// GetTotalQuantums returns the number of quanta handed out since Init.
func GetTotalQuantums() (int, error) {
	s, err := current()
	if err != nil {
		return -1, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalQuantum, nil
}

// GetQuantums returns the number of quanta tid has been scheduled in.
func GetQuantums(tid int) (int, error) {
	s, err := current()
	if err != nil {
		return -1, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[tid]
	if !ok {
		return -1, libraryError("thread %d is not live", tid)
	}
	return t.quantumCount, nil
}
