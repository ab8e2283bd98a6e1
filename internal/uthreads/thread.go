package uthreads

// thread is one live thread record: identity, scheduling attributes, and
// the execution context it resumes into.
type thread struct {
	id           int
	priority     int
	quantumUsec  int
	quantumCount int
	entry        func()
	stack        []byte // owned STACK_SIZE buffer; nil for the main thread
	ctx          *context
	state        State
}

// newMainThread builds the record for thread 0: already RUNNING, already
// credited with its first quantum, no entry function and no stack buffer
// (it runs on the process's own goroutine, the one that called Init).
func newMainThread(quantumUsec int) *thread {
	return &thread{
		id:           MainThreadID,
		priority:     0,
		quantumUsec:  quantumUsec,
		quantumCount: 1,
		ctx:          newMainContext(),
		state:        Running,
	}
}

// newThread builds a READY record for a spawned thread: quantumCount
// starts at 0 (it becomes 1 the first time the scheduler dispatches it),
// and its context is prepared to begin running entry on its first restore.
// onExit is the hook the switch protocol uses to learn that entry returned
// on its own (treated as a self-terminate).
func newThread(id, priority, quantumUsec int, entry func(), onExit func()) *thread {
	return &thread{
		id:          id,
		priority:    priority,
		quantumUsec: quantumUsec,
		entry:       entry,
		stack:       make([]byte, StackSize),
		ctx:         newContext(entry, onExit),
		state:       Ready,
	}
}
