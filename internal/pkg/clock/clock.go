package clock

import (
	"sync"
	"time"
)

// Clocker returns the current time.
type Clocker interface {
	Now() time.Time
}

// TimeClocker reads the system clock.
type TimeClocker struct{}

// New returns the system clock.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns time.Now().
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Fixed is a settable clock for tests.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
