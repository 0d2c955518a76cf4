// Package ring implements a fixed-capacity, lock-free single-producer
// single-consumer ring buffer with a zero-copy reserve/commit protocol on
// the producer side and a batch-drain interface on the consumer side.
//
// A Ring is the unit of ownership the mpsc package hands out to exactly one
// registered producer; this package makes no attempt to enforce that at
// runtime — like the teacher's own ring24/ring32/ring56 family, single
// ownership is a documented precondition, not a guard.
//
// Producer and consumer cursors (tail/cachedHead, head/cachedTail) are each
// isolated on their own 128-byte-padded region so the two sides never share,
// or sit on a hardware-prefetched pair of, the same cache line.
package ring

import (
	"sync/atomic"

	"ringflow/backoff"
)

// cacheLine is the false-sharing isolation width. 128, not 64: common
// prefetchers pull in the adjacent line along with the one actually
// touched, so isolating to 64 bytes alone still lets a producer's write
// warm the consumer's line (and vice versa). Lowering this is a measurable
// regression; do not.
const cacheLine = 128

// Reservation is the transient value Reserve returns: a contiguous
// writable slice of T the caller has exclusive access to until the
// matching Commit, plus the logical tail position the reservation was
// taken at. No other Reserve may happen on the same Ring before that
// Commit.
type Reservation[T any] struct {
	Slice []T
	Pos   uint64
}

// Readable is the transient value Readable returns: a contiguous read-only
// slice of T spanning the ring's currently-visible payload, plus the
// logical head position it starts at.
type Readable[T any] struct {
	Slice []T
	Pos   uint64
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer. Capacity is always a power of two (capacity = 2^ringBits)
// so index arithmetic reduces to a mask.
type Ring[T any, M MetricsHook] struct {
	_          [cacheLine]byte
	tail       uint64 // producer-owned; atomic store on Commit, acquire-load elsewhere
	cachedHead uint64 // producer-local shadow of head; not atomic, touched only by the producer
	_          [cacheLine - 16]byte

	_          [cacheLine]byte
	head       uint64 // consumer-owned; atomic store on Advance, acquire-load elsewhere
	cachedTail uint64 // consumer-local shadow of tail; not atomic, touched only by the consumer
	_          [cacheLine - 16]byte

	mask     uint64
	capacity uint64
	buf      []T
	closed   uint32 // atomic bool, monotonic

	_       [cacheLine]byte
	active  uint32 // atomic bool, diagnostic only; rare write, own line so it never bounces tail/head
	_       [cacheLine - 4]byte

	metrics M
}

// New allocates a Ring of capacity 2^ringBits. ringBits must be in
// [1, 63]; New panics otherwise, the same contract the teacher's own
// ring24.New enforces on its size argument.
func New[T any, M MetricsHook](ringBits uint) *Ring[T, M] {
	if ringBits < 1 {
		panic("ring: ringBits must be >= 1")
	}
	if ringBits >= 64 {
		panic("ring: ringBits must be < 64")
	}
	capacity := uint64(1) << ringBits
	return &Ring[T, M]{
		mask:     capacity - 1,
		capacity: capacity,
		buf:      make([]T, capacity),
		metrics:  newMetricsHook[M](),
	}
}

// Activate marks the ring as assigned to a producer. Diagnostic only: the
// documented API never reads it back, matching the spec note that active_
// is preserved at the implementer's discretion; IsActive exposes it for
// anyone who wants it.
func (r *Ring[T, M]) Activate() {
	atomic.StoreUint32(&r.active, 1)
}

// IsActive reports whether Activate has been called.
func (r *Ring[T, M]) IsActive() bool {
	return atomic.LoadUint32(&r.active) == 1
}

// Capacity returns the ring's fixed capacity.
func (r *Ring[T, M]) Capacity() int {
	return int(r.capacity)
}

// Metrics returns a snapshot of the ring's counters. Always the zero value
// when the ring was constructed with NoMetrics.
func (r *Ring[T, M]) Metrics() Metrics {
	return r.metrics.Snapshot()
}

// Reserve returns a contiguous writable slice of up to n cells the caller
// may fill and later Commit. The returned slice's length may be less than
// n when n would otherwise wrap past the end of the backing array — the
// caller is expected to Commit that shorter slice and Reserve again for
// the remainder; Reserve never loops internally, to avoid silently
// splitting a single logical send across two commit points.
//
// Reserve does not advance tail. It returns false (ok=false) when
// 1 <= n <= capacity is violated, the ring is closed, or free space is
// currently below n.
//
// Closed is only consulted on the slow path, after cachedHead has already
// failed to show enough free space and been refreshed from the real head:
// a producer that is still finding room in its own cached view keeps
// reserving even after Close has been called, only noticing the close once
// it actually needs to reload head.
func (r *Ring[T, M]) Reserve(n int) (res Reservation[T], ok bool) {
	if n < 1 || uint64(n) > r.capacity {
		return Reservation[T]{}, false
	}
	tail := r.tail
	free := r.capacity - (tail - r.cachedHead)
	if free < uint64(n) {
		head := atomic.LoadUint64(&r.head)
		r.cachedHead = head
		free = r.capacity - (tail - head)
		if free < uint64(n) {
			return Reservation[T]{}, false
		}
		if r.IsClosed() {
			return Reservation[T]{}, false
		}
	}
	start := tail & r.mask
	length := uint64(n)
	if avail := r.capacity - start; length > avail {
		length = avail
	}
	return Reservation[T]{Slice: r.buf[start : start+length], Pos: tail}, true
}

// ReserveWithBackoff loops calling Reserve, snoozing an adaptive Backoff
// between failed attempts, until Reserve succeeds, the ring is observed
// closed, or the Backoff completes. Unlike Reserve, it checks IsClosed
// before every attempt, so it fails on a closed ring even when the cached
// head still shows room.
func (r *Ring[T, M]) ReserveWithBackoff(n int) (Reservation[T], bool) {
	var b backoff.Backoff
	for {
		if r.IsClosed() {
			return Reservation[T]{}, false
		}
		if res, ok := r.Reserve(n); ok {
			return res, true
		}
		if b.IsCompleted() {
			return Reservation[T]{}, false
		}
		r.metrics.addSpin()
		b.Snooze()
	}
}

// Commit advances tail by exactly n, publishing the n items the caller has
// just written into the most recent successful Reserve's slice. n must
// equal that slice's length; committing any other count is a precondition
// violation (undefined behavior, not a runtime error).
func (r *Ring[T, M]) Commit(n int) {
	atomic.StoreUint64(&r.tail, r.tail+uint64(n))
	r.metrics.addSent(uint64(n))
}

// Send is a convenience Reserve+Commit pair: it reserves len(items) cells,
// copies items into them, and commits exactly what was copied. Because
// Reserve never wraps a single reservation across the buffer's end, Send
// may silently place fewer than len(items) values when the request would
// have wrapped — callers needing every item placed must loop Send
// themselves. This is a deliberate performance choice (avoiding a second
// reserve/commit pair per call), not a bug; do not "fix" it here.
func (r *Ring[T, M]) Send(items []T) int {
	res, ok := r.Reserve(len(items))
	if !ok {
		return 0
	}
	n := copy(res.Slice, items)
	r.Commit(n)
	return n
}

// Close marks the ring closed. Idempotent. Closing does not discard
// pending items: a consumer must keep draining until IsEmpty() &&
// IsClosed().
func (r *Ring[T, M]) Close() {
	atomic.StoreUint32(&r.closed, 1)
}

// IsClosed reports whether Close has been called.
func (r *Ring[T, M]) IsClosed() bool {
	return atomic.LoadUint32(&r.closed) == 1
}

// Readable returns a contiguous read-only slice spanning the ring's
// currently-visible payload, without advancing head. It returns false
// (ok=false) iff the ring is currently empty.
func (r *Ring[T, M]) Readable() (rd Readable[T], ok bool) {
	head := r.head
	tail := r.cachedTail
	if head == tail {
		tail = atomic.LoadUint64(&r.tail)
		r.cachedTail = tail
	}
	if head == tail {
		return Readable[T]{}, false
	}
	start := head & r.mask
	length := tail - head
	if avail := r.capacity - start; length > avail {
		length = avail
	}
	return Readable[T]{Slice: r.buf[start : start+length], Pos: head}, true
}

// Advance moves head forward by n, reclaiming those n cells for the
// producer. n must be <= the length of the most recently returned Readable
// slice. This is the sole point where "received" metrics are recorded, so
// any caller driving the ring through Readable+Advance directly (rather
// than through Recv or ConsumeBatch) is still counted.
func (r *Ring[T, M]) Advance(n int) {
	atomic.StoreUint64(&r.head, r.head+uint64(n))
	r.metrics.addReceived(uint64(n))
}

// Recv is a convenience Readable+Advance pair: it copies as many items as
// fit into out and advances head by that count. Like Send, it never loops
// across a wraparound boundary, so it may copy fewer than len(out) items
// even when more are available just past the wrap point.
func (r *Ring[T, M]) Recv(out []T) int {
	rd, ok := r.Readable()
	if !ok {
		return 0
	}
	n := copy(out, rd.Slice)
	r.Advance(n)
	return n
}

// ConsumeBatch snapshots (head, tail) once, invokes handler once per
// logical position in [head, tail) with a pointer into the ring's backing
// array, then advances head past everything just visited in a single
// store. The handler must not retain the pointer past its own call: once
// Advance runs, those cells are eligible for producer reuse. Returns the
// count consumed.
func (r *Ring[T, M]) ConsumeBatch(handler func(*T)) int {
	head := r.head
	tail := atomic.LoadUint64(&r.tail)
	if tail == head {
		return 0
	}
	for pos := head; pos != tail; pos++ {
		handler(&r.buf[pos&r.mask])
	}
	r.Advance(int(tail - head))
	return int(tail - head)
}

// Len returns the number of items currently in the ring.
func (r *Ring[T, M]) Len() int {
	tail := atomic.LoadUint64(&r.tail)
	head := atomic.LoadUint64(&r.head)
	return int(tail - head)
}

// IsEmpty reports whether the ring currently holds no items.
func (r *Ring[T, M]) IsEmpty() bool {
	return r.Len() == 0
}

// IsFull reports whether the ring is currently at capacity.
func (r *Ring[T, M]) IsFull() bool {
	return uint64(r.Len()) >= r.capacity
}
