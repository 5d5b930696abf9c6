package server

import (
	"context"
	"runtime"
)

// Limiter sizing constants.
const (
	// MinWorkers ensures at least one request is rendered at a time.
	MinWorkers = 1

	// MaxWorkers caps concurrent renders; each may hold a pandoc process
	// per slug.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for converter child processes.
	cpuDivisor = 2
)

// Limiter bounds how many render or download jobs run at once.
// Jobs beyond the limit wait until a slot frees or their context ends.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter creates a limiter with n slots. n < 1 means one slot.
func NewLimiter(n int) *Limiter {
	if n < MinWorkers {
		n = MinWorkers
	}
	return &Limiter{slots: make(chan struct{}, n)}
}

// Acquire takes a slot, blocking while all are in use.
// Returns ctx.Err() if ctx ends first.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	default:
	}

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot taken by Acquire.
func (l *Limiter) Release() {
	<-l.slots
}

// Size returns the slot count.
func (l *Limiter) Size() int {
	return cap(l.slots)
}

// InUse returns how many slots are taken.
func (l *Limiter) InUse() int {
	return len(l.slots)
}

// ResolveWorkers determines the limiter size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
