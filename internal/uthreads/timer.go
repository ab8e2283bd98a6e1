package uthreads

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// realClock arms a genuine ITIMER_VIRTUAL, consumed in microseconds of
// virtual (process) CPU time, via golang.org/x/sys/unix — the standard
// library exposes no portable setitimer wrapper.
type realClock struct{}

func (realClock) arm(d time.Duration) error {
	nsec := d.Nanoseconds()
	it := unix.Itimerval{
		Value:    unix.NsecToTimeval(nsec),
		Interval: unix.NsecToTimeval(nsec),
	}
	_, err := unix.Setitimer(unix.ITIMER_VIRTUAL, it)
	return err
}

func (realClock) stop() error {
	var it unix.Itimerval
	_, err := unix.Setitimer(unix.ITIMER_VIRTUAL, it)
	return err
}

// armTimer sets both the initial and reload interval to usec microseconds
// and reports a system error (aborting the process) on failure.
func (s *Scheduler) armTimer(usec int) {
	if err := s.timer.arm(time.Duration(usec) * time.Microsecond); err != nil {
		systemError(err, "setitimer failed")
	}
}

// startSignalDriver installs the SIGVTALRM handling path: os/signal
// delivers the real signal to a channel, and a dedicated dispatcher
// goroutine turns each notification into an asynchronous switch.
// Go has no synchronous in-process signal handler; this channel-based
// dispatch is the idiomatic and only portable substitute.
func (s *Scheduler) startSignalDriver() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGVTALRM)

	stopped := make(chan struct{})
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			signal.Stop(sigCh)
			close(stopped)
		})
	}
	s.sigStop = stop

	go func() {
		for {
			select {
			case <-sigCh:
				s.onTick()
			case <-stopped:
				return
			}
		}
	}()
}

// onTick is invoked once per delivered SIGVTALRM. It masks the timer
// signal (acquires mu), runs the switch protocol as the asynchronous case,
// and releases mu on every path — dispatch() itself owns the unlock so
// that a genuine switch-away can release the mutex before handing the
// baton to the incoming thread. This goroutine itself never parks: it
// passes parkCaller=false.
func (s *Scheduler) onTick() {
	s.mu.Lock()
	s.dispatch(false)
}
