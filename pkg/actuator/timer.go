package actuator

import (
	"math"
	"time"
)

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

func RealClock() Clock {
	return realClock{}
}

// Timer holds when the climate unit was last told to change.
type Timer struct {
	LastChange time.Time
}

func (t *Timer) Touch(now time.Time) {
	t.LastChange = now
}

// Release lets the next tick act without waiting out the dwell time.
func (t *Timer) Release() {
	t.LastChange = time.Time{}
}

func (t *Timer) Since(now time.Time) time.Duration {
	if t.LastChange.IsZero() {
		return time.Duration(math.MaxInt64)
	}
	return now.Sub(t.LastChange)
}
