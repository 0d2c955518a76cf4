// Package backoff implements an adaptive spin → yield wait primitive for
// lock-free producers and consumers that hit temporary contention: a full
// ring, an empty ring, or a not-yet-registered producer slot.
//
// The state machine escalates from tight CPU-relax spins (cheap, fast,
// appropriate for sub-microsecond waits) to OS thread yields (appropriate
// once the wait has already run long enough that spinning is wasting a
// core), and terminates in a "completed" state so callers can bound total
// wait time instead of spinning forever.
package backoff

import "runtime"

// spinLimit is the step count after which Spin stops growing its relax
// count and Snooze switches from spinning to yielding.
const spinLimit = 6

// yieldLimit is the step count after which Backoff reports completion.
const yieldLimit = 10

// Backoff tracks one caller's progress through the spin→yield escalation.
// It carries no pointers and is safe to keep on the stack or embed in a
// larger retry loop's state; the zero value is ready to use.
type Backoff struct {
	step uint32
}

// Spin executes 2^min(step, spinLimit) CPU-relax instructions and advances
// step while still within the spin phase. Call this in a loop that is
// attempting something that usually succeeds quickly, such as a contended
// CAS; it never yields to the OS scheduler.
func (b *Backoff) Spin() {
	n := uint32(1) << min(b.step, uint32(spinLimit))
	for i := uint32(0); i < n; i++ {
		cpuRelax()
	}
	if b.step <= spinLimit {
		b.step++
	}
}

// Snooze behaves like Spin while step is within the spin phase; once the
// spin budget is exhausted it yields the OS thread instead, giving other
// goroutines (and, on a loaded machine, other OS threads) a chance to run.
// Call this from a loop that is waiting on another thread to make
// progress — a full ring's producer waiting on the consumer to drain it,
// for example — rather than on a short, usually-uncontended CAS.
func (b *Backoff) Snooze() {
	if b.step <= spinLimit {
		b.Spin()
		return
	}
	runtime.Gosched()
	if b.step <= yieldLimit {
		b.step++
	}
}

// IsCompleted reports whether the backoff has exhausted both its spin and
// yield budgets. A caller that sees this return true should give up on the
// fast path — return a zero/none result, fall back to a slower strategy, or
// surface the wait to its own caller — rather than keep calling Snooze.
func (b *Backoff) IsCompleted() bool {
	return b.step > yieldLimit
}

// Reset returns the backoff to its initial state so it can be reused for a
// fresh wait.
func (b *Backoff) Reset() {
	b.step = 0
}
