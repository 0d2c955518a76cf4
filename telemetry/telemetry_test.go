package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ringflow/ring"
)

func TestDumpAndLoadStatsRoundTrip(t *testing.T) {
	snap := NewStatsSnapshot(1700000000, 16, 4, []ring.Metrics{
		{MessagesSent: 10, MessagesReceived: 9, BatchesSent: 2, BatchesReceived: 1, ReserveSpins: 0},
		{MessagesSent: 5, MessagesReceived: 5, BatchesSent: 1, BatchesReceived: 1, ReserveSpins: 3},
	})

	data, err := DumpStats(snap)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := LoadStats(data)
	require.NoError(t, err)
	require.Equal(t, snap, got)
}

func TestSQLiteSinkWritesRowsPerRing(t *testing.T) {
	sink, err := OpenSQLiteSink(":memory:")
	require.NoError(t, err)
	defer sink.Close()

	snap := NewStatsSnapshot(42, 12, 3, []ring.Metrics{
		{MessagesSent: 1, MessagesReceived: 1},
		{MessagesSent: 2, MessagesReceived: 2},
		{MessagesSent: 3, MessagesReceived: 3},
	})
	require.NoError(t, sink.Write(snap))

	var count int
	row := sink.db.QueryRow("SELECT COUNT(*) FROM channel_snapshots WHERE taken_at_unix_nano = ?", int64(42))
	require.NoError(t, row.Scan(&count))
	require.Equal(t, 3, count)
}
