package journal

import "sync/atomic"

// StatsSink receives telemetry the Journal reports about its own
// operation, independent of the queryable JournalStats snapshot. A daemon
// wires this into its metrics/observability stack; tests can use
// NewCounterStats for straightforward assertions.
type StatsSink interface {
	// RecordAppend is called once per successful record* call, after
	// compaction/truncation, tagged by the delta kind, and once per Flush,
	// tagged "Flush".
	RecordAppend(kind string)
	// RecordTruncatedRead is called once per accumulateRange call that
	// returns IsTruncated == true.
	RecordTruncatedRead()
	// RecordHashMismatch is called when recordHashUpdate(fromHash, toHash)
	// or recordUncleanPaths observes fromHash != currentHash.
	RecordHashMismatch()
}

// CounterStats is a StatsSink backed by atomic counters, suitable both as
// the Journal's default sink and for direct assertions in tests.
type CounterStats struct {
	appends         atomic.Int64
	truncatedReads  atomic.Int64
	hashMismatches  atomic.Int64
}

// NewCounterStats constructs an empty CounterStats.
func NewCounterStats() *CounterStats { return &CounterStats{} }

// RecordAppend implements StatsSink.
func (c *CounterStats) RecordAppend(string) { c.appends.Add(1) }

// RecordTruncatedRead implements StatsSink.
func (c *CounterStats) RecordTruncatedRead() { c.truncatedReads.Add(1) }

// RecordHashMismatch implements StatsSink.
func (c *CounterStats) RecordHashMismatch() { c.hashMismatches.Add(1) }

// Appends returns the total number of successful record* and Flush calls
// observed.
func (c *CounterStats) Appends() int64 { return c.appends.Load() }

// TruncatedReads returns the total number of accumulateRange calls that
// returned IsTruncated == true.
func (c *CounterStats) TruncatedReads() int64 { return c.truncatedReads.Load() }

// HashMismatches returns the total number of fromHash mismatches observed.
func (c *CounterStats) HashMismatches() int64 { return c.hashMismatches.Load() }

// noopStats discards everything; used when a Journal is constructed
// without an explicit sink.
type noopStats struct{}

func (noopStats) RecordAppend(string)    {}
func (noopStats) RecordTruncatedRead()   {}
func (noopStats) RecordHashMismatch()    {}
