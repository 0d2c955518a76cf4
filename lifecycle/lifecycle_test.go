package lifecycle

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInitialState(t *testing.T) {
	tr := NewTracker(DefaultCooldown)

	stopPtr, hotPtr := tr.Flags()
	if *stopPtr != 0 || *hotPtr != 0 {
		t.Error("flag pointers should reference zero values")
	}
}

func TestFlagPointersAreStable(t *testing.T) {
	tr := NewTracker(DefaultCooldown)

	stopPtr1, hotPtr1 := tr.Flags()
	stopPtr2, hotPtr2 := tr.Flags()
	if stopPtr1 != stopPtr2 || hotPtr1 != hotPtr2 {
		t.Error("Flags should return the same pointers on every call")
	}

	*hotPtr1 = 1
	if tr.hot != 1 {
		t.Error("writing through the hot pointer should update the tracker's field")
	}
}

func TestSignalActivitySetsHotFlag(t *testing.T) {
	tr := NewTracker(DefaultCooldown)
	tr.SignalActivity()

	if tr.hot != 1 {
		t.Error("SignalActivity should set hot to 1")
	}
	if tr.lastHot == 0 {
		t.Error("SignalActivity should record a timestamp")
	}
}

func TestPollCooldownClearsAfterInterval(t *testing.T) {
	tr := NewTracker(10 * time.Millisecond)
	tr.SignalActivity()

	tr.PollCooldown()
	if tr.hot != 1 {
		t.Error("hot should remain set before the cooldown has elapsed")
	}

	time.Sleep(15 * time.Millisecond)
	tr.PollCooldown()
	if tr.hot != 0 {
		t.Error("hot should clear once the cooldown has elapsed since the last signal")
	}
}

func TestPollCooldownNoOpOnColdSystem(t *testing.T) {
	tr := NewTracker(DefaultCooldown)
	tr.PollCooldown()
	if tr.hot != 0 {
		t.Error("PollCooldown should not activate an already-cold tracker")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	tr := NewTracker(DefaultCooldown)

	if tr.ShuttingDown() {
		t.Error("should not report shutting down initially")
	}
	tr.Shutdown()
	tr.Shutdown()
	if !tr.ShuttingDown() {
		t.Error("should report shutting down after Shutdown")
	}
}

func TestIndependentTrackersHaveIndependentCooldowns(t *testing.T) {
	fast := NewTracker(time.Millisecond)
	slow := NewTracker(1 * time.Hour)

	fast.SignalActivity()
	slow.SignalActivity()

	time.Sleep(5 * time.Millisecond)
	fast.PollCooldown()
	slow.PollCooldown()

	if fast.hot != 0 {
		t.Error("fast tracker should have cooled down")
	}
	if slow.hot != 1 {
		t.Error("slow tracker should still be hot")
	}
}

func TestConcurrentActivityAndPolling(t *testing.T) {
	tr := NewTracker(time.Millisecond)

	var wg sync.WaitGroup
	var signals, polls uint64
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				tr.SignalActivity()
				atomic.AddUint64(&signals, 1)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				tr.PollCooldown()
				atomic.AddUint64(&polls, 1)
			}
		}()
	}
	wg.Wait()

	if signals != 2000 || polls != 2000 {
		t.Errorf("expected 2000 signals and polls, got %d/%d", signals, polls)
	}
}
