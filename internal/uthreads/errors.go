package uthreads

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

const (
	libraryErrorPrefix = "thread library error: "
	systemErrorPrefix  = "system error: "
)

// libraryError reports a recoverable, caller-visible failure: one stable
// line to stderr, then returns the error so the caller can turn it into a
// -1 return value. Scheduler state is left untouched by the caller.
func libraryError(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	fmt.Fprintln(os.Stderr, libraryErrorPrefix+err.Error())
	return err
}

// systemError reports a host-primitive failure and aborts the process with
// status 1: system errors never return to the caller. cause is wrapped
// with github.com/pkg/errors purely to capture the originating syscall
// failure in the single diagnostic line; no trace is printed.
func systemError(cause error, what string) {
	wrapped := errors.Wrap(cause, what)
	fmt.Fprintln(os.Stderr, systemErrorPrefix+wrapped.Error())
	os.Exit(1)
}

// systemErrorf is systemError for failures with no underlying error value
// (e.g. an invariant violation detected defensively in the switch
// protocol).
func systemErrorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, systemErrorPrefix+fmt.Sprintf(format, args...))
	os.Exit(1)
}
