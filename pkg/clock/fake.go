package clock

import (
	"context"
	"sync"
	"time"
)

// Fake is a Clock for tests: Now returns a settable instant and Sleep
// advances it instead of blocking. Safe for concurrent use.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	slept  []time.Duration
	sleepE error
}

// NewFake returns a Fake clock starting at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Sleep records the requested duration, advances the fake time by it, and
// returns immediately.
func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.slept = append(f.slept, d)
	f.now = f.now.Add(d)
	return f.sleepE
}

// Slept returns the durations passed to Sleep, in call order.
func (f *Fake) Slept() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Duration, len(f.slept))
	copy(out, f.slept)
	return out
}

// FailSleep makes subsequent Sleep calls return err.
func (f *Fake) FailSleep(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleepE = err
}
