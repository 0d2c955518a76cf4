// Package telemetry supplies the read side of a mpsc.Channel's optional
// metrics: spec.md's data model defines the counters but is silent on
// where they are read from. This package adds a JSON diagnostics dump
// (grounded on the teacher's sonnet-based fast decode in
// syncharvester/syncharvester.go) and an off-hot-path SQLite sink for
// periodic durable snapshots (grounded on the teacher's own
// openDatabase/sqlite3 use in main.go), neither of which is ever called
// from a ring's Reserve/Commit/Readable/Advance path.
package telemetry

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"

	"ringflow/ring"
)

// StatsSnapshot is a point-in-time capture of a channel's configuration
// and every registered ring's metrics, suitable for a diagnostics dump or
// a durable record.
type StatsSnapshot struct {
	TakenAtUnixNano int64          `json:"taken_at_unix_nano"`
	RingBits        uint           `json:"ring_bits"`
	MaxProducers    int            `json:"max_producers"`
	Rings           []ring.Metrics `json:"rings"`
}

// NewStatsSnapshot builds a StatsSnapshot from a channel's current ring
// metrics. Callers pass timestamp explicitly; this package never calls
// time.Now() itself so snapshots stay reproducible in tests.
func NewStatsSnapshot(takenAtUnixNano int64, ringBits uint, maxProducers int, rings []ring.Metrics) StatsSnapshot {
	return StatsSnapshot{
		TakenAtUnixNano: takenAtUnixNano,
		RingBits:        ringBits,
		MaxProducers:    maxProducers,
		Rings:           rings,
	}
}

// DumpStats serializes a StatsSnapshot to JSON using sonnet, a drop-in
// encoding/json replacement, the same role it plays decoding the teacher's
// Ethereum RPC responses.
func DumpStats(snap StatsSnapshot) ([]byte, error) {
	return sonnet.Marshal(snap)
}

// LoadStats parses a JSON-encoded StatsSnapshot previously produced by
// DumpStats.
func LoadStats(data []byte) (StatsSnapshot, error) {
	var snap StatsSnapshot
	err := sonnet.Unmarshal(data, &snap)
	return snap, err
}

// SQLiteSink persists StatsSnapshot rows to a local SQLite file for
// post-hoc throughput analysis of a running channel — the same "durable
// local store for operational data" role sqlite plays for the teacher's
// own pool/cycle tables, here applied to a channel's metrics instead of
// blockchain state.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (creating if necessary) a SQLite database at path
// and ensures its snapshot table exists.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	const schema = `
CREATE TABLE IF NOT EXISTS channel_snapshots (
	taken_at_unix_nano INTEGER NOT NULL,
	ring_index         INTEGER NOT NULL,
	messages_sent      INTEGER NOT NULL,
	messages_received  INTEGER NOT NULL,
	batches_sent       INTEGER NOT NULL,
	batches_received   INTEGER NOT NULL,
	reserve_spins      INTEGER NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

// Write inserts one row per ring in snap. It never runs on a ring's hot
// path; callers are expected to invoke it from a periodic background
// goroutine at a coarse interval (seconds, not microseconds).
func (s *SQLiteSink) Write(snap StatsSnapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
INSERT INTO channel_snapshots (
	taken_at_unix_nano, ring_index, messages_sent, messages_received,
	batches_sent, batches_received, reserve_spins
) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, m := range snap.Rings {
		if _, err := stmt.Exec(
			snap.TakenAtUnixNano, i,
			m.MessagesSent, m.MessagesReceived,
			m.BatchesSent, m.BatchesReceived, m.ReserveSpins,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// RunPeriodic writes a StatsSnapshot via snapshotFn every interval until
// stop is closed. Intended to be launched as its own goroutine by an
// embedding program, mirroring the teacher's own pattern of a dedicated
// goroutine per background concern (see control.PollCooldown's caller in
// ring24.PinnedConsumerWithCooldown).
func (s *SQLiteSink) RunPeriodic(interval time.Duration, stop <-chan struct{}, snapshotFn func() StatsSnapshot) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = s.Write(snapshotFn())
		}
	}
}
