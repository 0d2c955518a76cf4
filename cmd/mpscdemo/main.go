// ════════════════════════════════════════════════════════════════════════════════════════════════
// Ring-Decomposed MPSC Channel - Demonstration Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Main Entry Point & System Orchestration
//
// Description:
//   Wires a mpsc.Channel to a handful of producer goroutines and a single
//   consumer loop, the same phased bootstrap/steady-state shape as the
//   original arbitrage pipeline's entry point, applied to this package's
//   own domain instead.
//
// Architecture:
//   - Phase 1: Channel and producer registration
//   - Phase 2: Producer goroutines and the consumer drain loop
//   - Phase 3: Shutdown and final stats dump
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs/maxprocs"

	"ringflow/backoff"
	"ringflow/diag"
	"ringflow/lifecycle"
	"ringflow/mpsc"
	"ringflow/ring"
	"ringflow/telemetry"
)

const (
	producerCount  = 4
	itemsPerSender = 10000
)

func main() {
	diag.Message("BOOT", "ring-decomposed mpsc demo starting")

	// PHASE 1: Channel and producer registration
	cfg := mpsc.LowLatencyConfig()
	cfg.MaxProducers = producerCount
	cfg.EnableMetrics = true
	channel := mpsc.New[int, *ring.LiveMetrics](cfg)

	producers := make([]*mpsc.Producer[int, *ring.LiveMetrics], producerCount)
	for i := range producers {
		p, err := channel.RegisterProducer()
		if err != nil {
			diag.Error("BOOT", err)
			os.Exit(1)
		}
		producers[i] = p
	}
	diag.Message("BOOT", "producers registered")

	tracker := lifecycle.NewTracker(lifecycle.DefaultCooldown)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		diag.Message("SHUTDOWN", "signal received")
		tracker.Shutdown()
	}()

	// PHASE 2: producer goroutines and the consumer drain loop
	var wg sync.WaitGroup
	wg.Add(producerCount)
	for i, p := range producers {
		go runProducer(i, p, itemsPerSender, tracker, &wg)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	consumed := runConsumer(channel, tracker, done)
	diag.Message("DRAIN", "consumer loop finished")

	// PHASE 3: shutdown and final stats dump
	channel.Close()
	snap := telemetry.NewStatsSnapshot(time.Now().UnixNano(), cfg.RingBits, cfg.MaxProducers, channel.Metrics())
	data, err := telemetry.DumpStats(snap)
	if err != nil {
		diag.Error("STATS", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
	os.Stdout.Write([]byte("\n"))
	diag.Message("DONE", "processed "+itoa(consumed)+" items")
}

// runProducer sends n sequential values through p, using the ring's own
// ReserveWithBackoff to absorb a temporarily full ring rather than
// busy-spinning a raw Send retry loop.
func runProducer(id int, p *mpsc.Producer[int, *ring.LiveMetrics], n int, tracker *lifecycle.Tracker, wg *sync.WaitGroup) {
	defer wg.Done()
	for i := 0; i < n; i++ {
		v := id*n + i
		res, ok := p.ReserveWithBackoff(1)
		if !ok {
			diag.Message("PRODUCER", "backoff exhausted, dropping item")
			continue
		}
		res.Slice[0] = v
		p.Commit(1)
		tracker.SignalActivity()
	}
}

// runConsumer drains the channel until every producer goroutine has
// finished and the channel reports empty, backing off with
// backoff.Backoff between empty sweeps rather than parking on an OS
// primitive (spec places blocking recv via OS primitives out of scope).
func runConsumer(channel *mpsc.Channel[int, *ring.LiveMetrics], tracker *lifecycle.Tracker, done <-chan struct{}) int {
	var bo backoff.Backoff
	total := 0
	buf := make([]int, 256)
	for {
		n := channel.Recv(buf)
		total += n
		if n > 0 {
			bo.Reset()
			continue
		}

		tracker.PollCooldown()
		if tracker.ShuttingDown() {
			return total
		}

		select {
		case <-done:
			drained := channel.Recv(buf)
			total += drained
			if drained == 0 {
				return total
			}
		default:
		}

		bo.Snooze()
		if bo.IsCompleted() {
			bo.Reset()
		}
	}
}

// itoa avoids pulling in strconv for a single diagnostic message, mirroring
// the teacher's own hand-rolled utils.Itoa used throughout its debug logging.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
