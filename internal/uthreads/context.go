package uthreads

// context is a snapshot/restore capability over a thread's execution point.
// Go gives no portable way to capture and jump to an arbitrary saved
// register file from user code, so a context here is backed by a dedicated
// goroutine and an unbuffered "baton" channel. Receiving the baton means
// this context's goroutine is now the one making progress; exactly one
// context ever holds it at a time, enforced by the switch protocol never
// handing the baton to more than one thread before the previous holder has
// parked.
//
// The entry function runs on the context's own goroutine. The goroutine is
// started eagerly by newContext but blocks immediately on the baton channel
// until the first restore, so it does no work until this context is first
// scheduled in.
type context struct {
	baton chan struct{}
}

// newContext prepares a context that will run entry on its first restore.
// onExit is invoked (still on the context's own goroutine) after entry
// returns on its own, so that a thread whose entry function returns is
// treated as though it had terminated itself.
func newContext(entry func(), onExit func()) *context {
	c := &context{baton: make(chan struct{})}
	go func() {
		<-c.baton
		entry()
		onExit()
	}()
	return c
}

// newMainContext returns a context for the main thread, which has no entry
// function and no dedicated goroutine of its own — it runs on whichever
// goroutine called Init, which already holds the baton implicitly by
// virtue of being the one live call stack when the library starts.
func newMainContext() *context {
	return &context{baton: make(chan struct{})}
}

// restore hands the baton to this context, releasing its goroutine to run
// (or to start running, on the first call) until it next parks.
func (c *context) restore() {
	c.baton <- struct{}{}
}

// save parks the calling goroutine until some later dispatch restores this
// context again. It must only be called by the goroutine that currently
// holds the baton, immediately after the switch protocol has handed the
// baton to the next thread's context.
func (c *context) save() {
	<-c.baton
}
