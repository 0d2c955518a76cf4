package mpsc

// Config controls a Channel's construction-time shape. There is no CLI or
// file format for Config — it is an in-process constructor argument, per
// spec's explicit exclusion of command-line argument parsing from the
// core's scope; embedding programs build one in code.
type Config struct {
	// RingBits is log2 of each producer's ring capacity.
	RingBits uint
	// MaxProducers is the hard cap on concurrently registered producers.
	MaxProducers int
	// EnableMetrics records, for documentation and telemetry purposes,
	// whether a Channel built from this Config is expected to carry live
	// metrics. It is informational only: the actual choice between
	// ring.NoMetrics and *ring.LiveMetrics is made by the M type
	// parameter passed to New[T, M], not by this field.
	EnableMetrics bool
}

// DefaultConfig is the spec's default shape: 65536-slot rings (ringBits=16),
// 16 producers, metrics disabled.
func DefaultConfig() Config {
	return Config{RingBits: 16, MaxProducers: 16, EnableMetrics: false}
}

// LowLatencyConfig trades ring headroom for a smaller working set: 4096-slot
// rings (ringBits=12) keep a producer's hot cells within a smaller cache
// footprint, at the cost of less slack against a slow consumer. Grounded on
// the teacher's own RingBits sizing tradeoff notes in
// constants/constants.go.
func LowLatencyConfig() Config {
	return Config{RingBits: 12, MaxProducers: 16, EnableMetrics: false}
}

// HighThroughputConfig widens both the per-ring buffer (ringBits=18,
// 262144 slots) and the producer cap (32), for workloads with many
// concurrent producers each sending in bursts.
func HighThroughputConfig() Config {
	return Config{RingBits: 18, MaxProducers: 32, EnableMetrics: false}
}
