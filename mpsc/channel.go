// Package mpsc implements a multi-producer single-consumer channel built
// from N independent ring.Ring instances, one per registered producer.
// Every producer's hot path is an uncontended SPSC operation on its own
// ring; the consumer fans in across all registered rings.
//
// Fairness across producers and dynamic ring growth are explicitly out of
// scope: the consumer's sweep always visits rings in registration order,
// and a Channel's ring array is sized once, at construction.
package mpsc

import (
	"sync/atomic"

	"ringflow/diag"
	"ringflow/ring"
)

// Channel is a statically-sized array of rings, pre-constructed at New and
// handed out one at a time to registered producers.
type Channel[T any, M ring.MetricsHook] struct {
	rings         []*ring.Ring[T, M]
	producerCount uint32 // atomic; registration cursor
	closed        uint32 // atomic bool, monotonic
	cfg           Config
}

// New constructs a Channel with cfg.MaxProducers rings, each of capacity
// 2^cfg.RingBits, ready for registration. cfg.EnableMetrics is informational
// only here; M is the type parameter that actually selects NoMetrics or
// *ring.LiveMetrics for every ring in the channel.
func New[T any, M ring.MetricsHook](cfg Config) *Channel[T, M] {
	if cfg.MaxProducers <= 0 {
		panic("mpsc: MaxProducers must be > 0")
	}
	if cfg.RingBits < 1 {
		panic("mpsc: RingBits must be >= 1")
	}
	c := &Channel[T, M]{
		rings: make([]*ring.Ring[T, M], cfg.MaxProducers),
		cfg:   cfg,
	}
	for i := range c.rings {
		c.rings[i] = ring.New[T, M](cfg.RingBits)
	}
	return c
}

// Config returns the configuration the channel was constructed with.
func (c *Channel[T, M]) Config() Config {
	return c.cfg
}

// RegisterProducer hands out exclusive ownership of the next unused ring.
// Registration is one-way: a Producer handle is never returned to a pool,
// and producerCount never decreases — except for the single compensating
// fetch-sub issued right here when registration overflows MaxProducers, so
// a later successful registration still gets a contiguous id.
//
// The registration id is handed out via a relaxed fetch-add: that's safe
// because ring ownership is established by whichever single caller receives
// a given id, and the consumer discovers newly registered rings by reading
// producerCount with an acquire load in Recv/ConsumeAll.
func (c *Channel[T, M]) RegisterProducer() (*Producer[T, M], error) {
	if atomic.LoadUint32(&c.closed) == 1 {
		return nil, ErrClosed
	}
	id := atomic.AddUint32(&c.producerCount, 1) - 1
	if int(id) >= len(c.rings) {
		atomic.AddUint32(&c.producerCount, ^uint32(0)) // compensating fetch-sub
		return nil, ErrTooManyProducers
	}
	r := c.rings[id]
	r.Activate()
	diag.Message("mpsc", "producer registered")
	return &Producer[T, M]{ring: r, id: int(id)}, nil
}

// Recv sweeps rings [0, producerCount) in registration order, pulling from
// each via Ring.Recv into successive subspans of out. It stops as soon as
// out is full or it has made one complete pass finding nothing left to
// take; it never revisits a ring within the same call (no round-robin), so
// ring 0 always drains first — callers needing fairness across producers
// must interleave batch sizes externally, per spec's design choice.
func (c *Channel[T, M]) Recv(out []T) int {
	n := atomic.LoadUint32(&c.producerCount)
	total := 0
	for i := uint32(0); i < n && total < len(out); i++ {
		total += c.rings[i].Recv(out[total:])
	}
	return total
}

// ConsumeAll invokes Ring.ConsumeBatch on every registered ring in order,
// returning the sum of items consumed.
func (c *Channel[T, M]) ConsumeAll(handler func(*T)) int {
	n := atomic.LoadUint32(&c.producerCount)
	total := 0
	for i := uint32(0); i < n; i++ {
		total += c.rings[i].ConsumeBatch(handler)
	}
	return total
}

// Close marks the channel closed, then closes every registered ring.
// Idempotent. Closing does not discard pending items in any ring; a
// consumer must keep draining until every registered ring reports
// IsEmpty() && IsClosed().
func (c *Channel[T, M]) Close() {
	atomic.StoreUint32(&c.closed, 1)
	n := atomic.LoadUint32(&c.producerCount)
	for i := uint32(0); i < n; i++ {
		c.rings[i].Close()
	}
	diag.Message("mpsc", "channel closed")
}

// IsClosed reports whether Close has been called.
func (c *Channel[T, M]) IsClosed() bool {
	return atomic.LoadUint32(&c.closed) == 1
}

// ProducerCount returns the number of producers registered so far.
func (c *Channel[T, M]) ProducerCount() int {
	return int(atomic.LoadUint32(&c.producerCount))
}

// Metrics returns the per-ring metrics for every registered ring, in
// registration order.
func (c *Channel[T, M]) Metrics() []ring.Metrics {
	n := atomic.LoadUint32(&c.producerCount)
	out := make([]ring.Metrics, n)
	for i := uint32(0); i < n; i++ {
		out[i] = c.rings[i].Metrics()
	}
	return out
}
