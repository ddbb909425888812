// Package schedule runs delayed callbacks behind an interface so engines can be driven by a fake clock in tests.
package schedule

import "time"

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call stopped it.
	Stop() bool
}

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks with time.AfterFunc.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
