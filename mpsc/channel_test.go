package mpsc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ringflow/ring"
)

func newTestChannel(t *testing.T, maxProducers int) *Channel[int, ring.NoMetrics] {
	t.Helper()
	return New[int, ring.NoMetrics](Config{RingBits: 4, MaxProducers: maxProducers, EnableMetrics: false})
}

// TestRecvDrainsInRegistrationOrder covers spec scenario S4: two producers,
// P1 sends [10,11], P2 sends [20,21]; Recv into a length-10 buffer returns 4
// values starting with ring 0's items.
func TestRecvDrainsInRegistrationOrder(t *testing.T) {
	c := newTestChannel(t, 4)
	p1, err := c.RegisterProducer()
	require.NoError(t, err)
	p2, err := c.RegisterProducer()
	require.NoError(t, err)

	require.Equal(t, 2, p1.Send([]int{10, 11}))
	require.Equal(t, 2, p2.Send([]int{20, 21}))

	out := make([]int, 10)
	n := c.Recv(out)
	require.Equal(t, 4, n)
	require.Equal(t, []int{10, 11, 20, 21}, out[:n])
}

// TestConsumeAllSumsAcrossProducers covers spec scenario S5.
func TestConsumeAllSumsAcrossProducers(t *testing.T) {
	c := newTestChannel(t, 4)
	p1, err := c.RegisterProducer()
	require.NoError(t, err)
	p2, err := c.RegisterProducer()
	require.NoError(t, err)

	require.Equal(t, 3, p1.Send([]int{1, 2, 3}))
	require.Equal(t, 3, p2.Send([]int{4, 5, 6}))

	sum := 0
	count := c.ConsumeAll(func(v *int) { sum += *v })
	require.Equal(t, 6, count)
	require.Equal(t, 21, sum)
}

// TestRegistrationCap covers spec property #6: registering past
// MaxProducers fails and does not invalidate already-issued handles.
func TestRegistrationCap(t *testing.T) {
	c := newTestChannel(t, 2)
	p1, err := c.RegisterProducer()
	require.NoError(t, err)
	_, err = c.RegisterProducer()
	require.NoError(t, err)

	_, err = c.RegisterProducer()
	require.ErrorIs(t, err, ErrTooManyProducers)

	// prior handle remains valid
	require.Equal(t, 1, p1.Send([]int{42}))
}

// TestRegisterAfterCloseFails covers the Closed branch of RegisterProducer.
func TestRegisterAfterCloseFails(t *testing.T) {
	c := newTestChannel(t, 2)
	c.Close()
	_, err := c.RegisterProducer()
	require.ErrorIs(t, err, ErrClosed)
}

// TestMPSCTotality covers spec property #7: K producers each sending N
// items are all received, with per-producer FIFO order preserved.
func TestMPSCTotality(t *testing.T) {
	const (
		producers = 6
		perSend   = 50
	)
	c := New[int, ring.NoMetrics](Config{RingBits: 8, MaxProducers: producers})

	handles := make([]*Producer[int, ring.NoMetrics], producers)
	for i := range handles {
		p, err := c.RegisterProducer()
		require.NoError(t, err)
		handles[i] = p
	}

	var wg sync.WaitGroup
	wg.Add(producers)
	for i, p := range handles {
		go func(i int, p *Producer[int, ring.NoMetrics]) {
			defer wg.Done()
			for j := 0; j < perSend; j++ {
				v := i*perSend + j
				for {
					if p.Send([]int{v}) == 1 {
						break
					}
				}
			}
		}(i, p)
	}
	wg.Wait()

	seenPerProducer := make([][]int, producers)
	total := c.ConsumeAll(func(v *int) {
		idx := *v / perSend
		seenPerProducer[idx] = append(seenPerProducer[idx], *v)
	})
	require.Equal(t, producers*perSend, total)

	for i, seen := range seenPerProducer {
		require.Len(t, seen, perSend, "producer %d", i)
		for j, v := range seen {
			require.Equal(t, i*perSend+j, v, "producer %d item %d", i, j)
		}
	}
}

// TestCloseClosesEveryRegisteredRing also covers Reserve's close check
// order: Close only takes effect for a producer once its cached head
// needs refreshing, so the ring is first filled and partially drained to
// force that refresh before Close is observed.
func TestCloseClosesEveryRegisteredRing(t *testing.T) {
	c := newTestChannel(t, 3) // RingBits 4 -> capacity 16 per ring
	p1, err := c.RegisterProducer()
	require.NoError(t, err)
	p2, err := c.RegisterProducer()
	require.NoError(t, err)

	require.Equal(t, 16, p1.Send(make([]int, 16)))
	require.Equal(t, 16, p2.Send(make([]int, 16)))
	require.Equal(t, 0, p1.Send([]int{99})) // full: forces p1's cachedHead to refresh

	out := make([]int, 8)
	c.Recv(out) // drains ring 0 (p1's), freeing cells for the real head

	c.Close()
	c.Close() // idempotent

	require.True(t, c.IsClosed())
	require.Equal(t, 0, p1.Send([]int{3}))
}

func TestMetricsAdditivityAcrossRings(t *testing.T) {
	c := New[int, *ring.LiveMetrics](Config{RingBits: 4, MaxProducers: 3})
	var handles []*Producer[int, *ring.LiveMetrics]
	for i := 0; i < 3; i++ {
		p, err := c.RegisterProducer()
		require.NoError(t, err)
		handles = append(handles, p)
	}
	for i, p := range handles {
		for j := 0; j <= i; j++ {
			p.Send([]int{j})
		}
	}
	out := make([]int, 10)
	c.Recv(out)

	var sentTotal, recvTotal uint64
	for _, m := range c.Metrics() {
		sentTotal += m.MessagesSent
		recvTotal += m.MessagesReceived
	}
	require.Equal(t, uint64(1+2+3), sentTotal)
	require.Equal(t, sentTotal, recvTotal)
}
