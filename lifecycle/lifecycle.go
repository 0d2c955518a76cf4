// Package lifecycle provides lightweight activity/shutdown signaling for
// coordinating producer goroutines and a consumer loop around a
// mpsc.Channel, the same hot/stop flag shape the teacher used to coordinate
// its WebSocket ingress with pinned consumer threads, applied here to
// producer/consumer activity instead of network traffic.
//
// Unlike the teacher's control package — a single global flag pair sized
// for one process running one pinned pipeline — a Tracker is a value a
// program constructs per mpsc.Channel, with its own cooldown. An embedding
// program that runs several independent channels (e.g. one per shard) gets
// one Tracker each, rather than contending over a single process-wide pair.
//
// None of this is required by mpsc.Channel itself — a Channel has no
// built-in notion of "idle" or "shutting down" — it is optional glue for a
// program that embeds one, such as cmd/mpscdemo.
package lifecycle

import "time"

// Tracker holds one hot/stop flag pair and the cooldown window that governs
// how long "hot" stays set after the last SignalActivity call. The zero
// Tracker is not ready for use; construct one with NewTracker.
type Tracker struct {
	hot  uint32 // 1 = a producer has sent recently, 0 = idle
	stop uint32 // 1 = shutdown requested, 0 = running

	lastHot    int64
	cooldownNs int64
}

// NewTracker builds a Tracker whose hot flag clears cooldown after the last
// SignalActivity call. A shorter cooldown makes a consumer's idle-backoff
// loop notice quiet spells sooner, at the cost of flapping the hot flag
// under bursty producers; a longer one smooths that out. DefaultCooldown
// matches the teacher's own hardcoded 1-second window.
func NewTracker(cooldown time.Duration) *Tracker {
	return &Tracker{cooldownNs: int64(cooldown)}
}

// DefaultCooldown is the teacher's own cooldown window, offered as a
// starting point for NewTracker rather than baked into it.
const DefaultCooldown = 1 * time.Second

// SignalActivity marks the tracker active and records the time, so a
// consumer backoff loop can tell recent producer activity from a long
// idle stretch. Call this from a producer's send path.
//
// hot and lastHot are plain (non-atomic) fields, same as the teacher's
// activityFlag/lastActivityCount: torn or stale reads here only ever
// perturb a diagnostic cooldown timer, never a correctness invariant, so
// the race detector's view of this field is deliberately suppressed
// rather than paid for with atomics.
//
//go:norace
//go:nosplit
//go:inline
func (tr *Tracker) SignalActivity() {
	tr.hot = 1
	tr.lastHot = time.Now().UnixNano()
}

// PollCooldown clears the hot flag once the tracker's cooldown has elapsed
// since the last SignalActivity call. Call it from a consumer's idle-backoff
// branch; it is cheap enough to call every iteration.
//
//go:norace
//go:nosplit
//go:inline
func (tr *Tracker) PollCooldown() {
	if tr.hot == 1 && time.Now().UnixNano()-tr.lastHot > tr.cooldownNs {
		tr.hot = 0
	}
}

// Shutdown requests that every consumer loop observing this tracker
// terminate. Idempotent; safe to call more than once.
//
//go:norace
//go:nosplit
//go:inline
func (tr *Tracker) Shutdown() {
	tr.stop = 1
}

// ShuttingDown reports whether Shutdown has been called on this tracker.
//
//go:norace
//go:nosplit
//go:inline
func (tr *Tracker) ShuttingDown() bool {
	return tr.stop == 1
}

// Flags returns direct pointers to the stop and hot flags for callers that
// want to poll them without a method-call indirection in a hot loop.
//
//go:norace
//go:nosplit
//go:inline
func (tr *Tracker) Flags() (stopFlag, hotFlag *uint32) {
	return &tr.stop, &tr.hot
}
