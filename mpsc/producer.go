package mpsc

import "ringflow/ring"

// Producer is the sole legal gateway to one ring's producer side, handed
// out once by Channel.RegisterProducer. It must be driven by exactly one
// goroutine at a time and must not outlive the Channel that issued it. Go
// has no affine/move-only types, so — like the teacher's own raw *Ring
// handles — single ownership is a documented contract enforced by review,
// not a runtime guard.
type Producer[T any, M ring.MetricsHook] struct {
	ring *ring.Ring[T, M]
	id   int
}

// ID returns the producer's registration index — the same index its ring
// occupies in the channel's ring array, and the order the consumer's sweep
// visits it in.
func (p *Producer[T, M]) ID() int {
	return p.id
}

// Reserve returns a contiguous writable slice of up to n cells. See
// ring.Ring.Reserve for the exact contract.
func (p *Producer[T, M]) Reserve(n int) (ring.Reservation[T], bool) {
	return p.ring.Reserve(n)
}

// ReserveWithBackoff retries Reserve with an adaptive Backoff until it
// succeeds, the channel's ring closes, or the Backoff completes.
func (p *Producer[T, M]) ReserveWithBackoff(n int) (ring.Reservation[T], bool) {
	return p.ring.ReserveWithBackoff(n)
}

// Commit publishes n items written into the most recent successful
// Reserve's slice.
func (p *Producer[T, M]) Commit(n int) {
	p.ring.Commit(n)
}

// Send reserves, copies, and commits items in one call, subject to the
// same wrap-truncation rule as ring.Ring.Send.
func (p *Producer[T, M]) Send(items []T) int {
	return p.ring.Send(items)
}

// Metrics returns a snapshot of this producer's ring counters.
func (p *Producer[T, M]) Metrics() ring.Metrics {
	return p.ring.Metrics()
}
