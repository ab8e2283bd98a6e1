// Package uthreads is a cooperative-preemptive user-level threading
// library: logical threads multiplexed onto a single kernel thread, with
// quantum-based scheduling driven by a virtual interval timer.
//
// The nine operations below are the library's entire public surface. All
// scheduler state lives in internal/uthreads, behind a package-level
// singleton constructed by Init and torn down by Terminate(0).
package uthreads

import core "github.com/shirbrosh/uthreads/internal/uthreads"

// MaxTID is the number of distinct thread identifiers the library can hand
// out at once.
const MaxTID = core.MaxTID

// MainThreadID is the identifier reserved for the thread that calls Init.
const MainThreadID = core.MainThreadID

// Init installs the signal-driven scheduler, validates quantumUsecs
// (non-empty, every entry positive), and spawns the main thread RUNNING
// with quantum_count 1. Returns a library error if the table is invalid.
func Init(quantumUsecs []int) error {
	return core.Init(quantumUsecs)
}

// Spawn creates a new thread in READY state running entry at the given
// priority and returns its identifier, or a library error if 100 threads
// are already live.
func Spawn(entry func(), priority int) (int, error) {
	return core.Spawn(entry, priority)
}

// Terminate removes tid. Terminating the main thread (tid 0) tears down
// the library and exits the process with status 0; terminating the
// running thread switches away and does not return to the caller.
func Terminate(tid int) error {
	return core.Terminate(tid)
}

// Block moves tid to BLOCKED. Blocking the running thread yields the CPU
// and does not return until tid is later resumed and redispatched.
// Blocking the main thread is a library error.
func Block(tid int) error {
	return core.Block(tid)
}

// Resume moves a BLOCKED tid back to READY, appending it to the ready
// queue. A no-op for any other state.
func Resume(tid int) error {
	return core.Resume(tid)
}

// ChangePriority updates tid's priority index. The new quantum length
// takes effect at tid's next schedule-in, never on an in-flight quantum.
func ChangePriority(tid int, priority int) error {
	return core.ChangePriority(tid, priority)
}

// GetTID returns the identifier of the currently running thread.
func GetTID() (int, error) {
	return core.GetTID()
}

// GetTotalQuantums returns the number of quanta handed out since Init.
func GetTotalQuantums() (int, error) {
	return core.GetTotalQuantums()
}

// GetQuantums returns the number of quanta tid has been scheduled in.
func GetQuantums(tid int) (int, error) {
	return core.GetQuantums(tid)
}
