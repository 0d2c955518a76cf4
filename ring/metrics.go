package ring

import "sync/atomic"

// Metrics is a point-in-time snapshot of a Ring's optional hot-path
// counters. All additivity holds across a channel of many rings: summing
// MessagesSent across rings equals the channel's total committed items,
// and summing MessagesReceived equals its total advanced items.
type Metrics struct {
	MessagesSent     uint64
	MessagesReceived uint64
	BatchesSent      uint64
	BatchesReceived  uint64
	ReserveSpins     uint64
}

// MetricsHook is the elision point for a Ring's per-instance counters. A
// Ring is parameterized over MetricsHook so the enabled/disabled choice is
// made once, at construction, rather than branched on inside Commit,
// Advance, or ReserveWithBackoff. NoMetrics costs nothing: every method
// inlines away and the type itself is zero-sized. *LiveMetrics costs two
// atomic adds per Commit or Advance and one per backoff spin.
type MetricsHook interface {
	addSent(n uint64)
	addReceived(n uint64)
	addSpin()
	Snapshot() Metrics
}

// NoMetrics is the MetricsHook used when a Ring's owner never reads
// metrics. It has no fields and every method is a no-op, so a Ring
// instantiated with it pays no space or cycles for counters that are never
// observed.
type NoMetrics struct{}

func (NoMetrics) addSent(uint64)     {}
func (NoMetrics) addReceived(uint64) {}
func (NoMetrics) addSpin()           {}
func (NoMetrics) Snapshot() Metrics  { return Metrics{} }

// LiveMetrics is the MetricsHook that actually counts. messagesSent and
// batchesSent are advanced only by the ring's producer (via Commit);
// messagesReceived and batchesReceived only by its consumer (via Advance);
// reserveSpins only by the producer's ReserveWithBackoff loop. Snapshot may
// be called from any thread, so every field is touched through
// sync/atomic.
type LiveMetrics struct {
	messagesSent     uint64
	messagesReceived uint64
	batchesSent      uint64
	batchesReceived  uint64
	reserveSpins     uint64
}

func (m *LiveMetrics) addSent(n uint64) {
	atomic.AddUint64(&m.messagesSent, n)
	atomic.AddUint64(&m.batchesSent, 1)
}

func (m *LiveMetrics) addReceived(n uint64) {
	atomic.AddUint64(&m.messagesReceived, n)
	atomic.AddUint64(&m.batchesReceived, 1)
}

func (m *LiveMetrics) addSpin() {
	atomic.AddUint64(&m.reserveSpins, 1)
}

// Snapshot reads every counter with an acquire-style atomic load. The five
// values are not read as a single atomic unit, so a Snapshot taken while a
// commit or advance is in flight may observe e.g. an updated messagesSent
// without the matching batchesSent; callers wanting instant-in-time
// consistency must quiesce producers/consumers first.
func (m *LiveMetrics) Snapshot() Metrics {
	return Metrics{
		MessagesSent:     atomic.LoadUint64(&m.messagesSent),
		MessagesReceived: atomic.LoadUint64(&m.messagesReceived),
		BatchesSent:      atomic.LoadUint64(&m.batchesSent),
		BatchesReceived:  atomic.LoadUint64(&m.batchesReceived),
		ReserveSpins:     atomic.LoadUint64(&m.reserveSpins),
	}
}

// newMetricsHook constructs the zero value for a MetricsHook type
// parameter, allocating the backing LiveMetrics struct when M is
// *LiveMetrics so that Ring never carries a nil metrics hook. This runs
// once per Ring construction, never on a hot path.
func newMetricsHook[M MetricsHook]() M {
	var zero M
	if _, ok := any(zero).(*LiveMetrics); ok {
		return any(&LiveMetrics{}).(M)
	}
	return zero
}
