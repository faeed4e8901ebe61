package journal

import (
	"github.com/s4nju/eden/pkg/log"
)

// Journal is the public façade over the delta store and subscriber
// registry: it owns both, orchestrates locking, compaction, truncation,
// and notification, and is the only type sibling packages depend on.
//
// The delta-state lock and the subscriber-registry lock are independent.
// Lock order, when both are needed, is delta-state then registry; the
// façade never holds the delta-state lock while invoking a subscriber
// callback — it snapshots the callback list under the registry lock and
// releases both locks before calling out.
type Journal struct {
	state       *DeltaState
	subscribers *subscriberRegistry
	stats       StatsSink
	logger      log.Logger
}

// Option configures a Journal at construction time.
type Option func(*Journal)

// WithStatsSink installs a telemetry sink; the default is a no-op sink.
func WithStatsSink(sink StatsSink) Option {
	return func(j *Journal) { j.stats = sink }
}

// WithLogger installs a logger for diagnostic messages, notably swallowed
// subscriber callback panics.
func WithLogger(logger log.Logger) Option {
	return func(j *Journal) { j.logger = logger }
}

// WithMemoryLimit sets the initial memory budget in bytes.
func WithMemoryLimit(bytes uint64) Option {
	return func(j *Journal) { j.state.memoryLimit = bytes }
}

// New constructs an empty Journal.
func New(opts ...Option) *Journal {
	j := &Journal{
		state:       NewDeltaState(),
		subscribers: newSubscriberRegistry(),
		stats:       noopStats{},
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) notifyAll() {
	callbacks := j.subscribers.snapshot()
	notify(callbacks, func(recovered interface{}) {
		if j.logger != nil {
			j.logger.Error("journal subscriber callback panicked", log.Any("recovered", recovered))
		}
	})
}

// RecordCreated appends a FileChangeDelta of kind Created.
func (j *Journal) RecordCreated(path RelativePath) {
	j.recordFileChange(Created, path, "")
}

// RecordRemoved appends a FileChangeDelta of kind Removed.
func (j *Journal) RecordRemoved(path RelativePath) {
	j.recordFileChange(Removed, path, "")
}

// RecordChanged appends a FileChangeDelta of kind Changed.
func (j *Journal) RecordChanged(path RelativePath) {
	j.recordFileChange(Changed, path, "")
}

// RecordRenamed appends a FileChangeDelta of kind Renamed.
func (j *Journal) RecordRenamed(oldPath, newPath RelativePath) {
	j.recordFileChange(Renamed, oldPath, newPath)
}

// RecordReplaced appends a FileChangeDelta of kind Replaced.
func (j *Journal) RecordReplaced(oldPath, newPath RelativePath) {
	j.recordFileChange(Replaced, oldPath, newPath)
}

func (j *Journal) recordFileChange(kind FileChangeKind, path1, path2 RelativePath) {
	j.state.Lock()
	j.state.RecordFileChange(kind, path1, path2)
	j.state.Unlock()

	j.stats.RecordAppend(kind.String())
	j.notifyAll()
}

// RecordHashUpdate appends a HashUpdateDelta with fromHash = currentHash,
// toHash = toHash; it is a no-op iff toHash already equals currentHash.
func (j *Journal) RecordHashUpdate(toHash Hash) {
	j.state.Lock()
	_, _, noop := j.state.RecordHashTransition(false, true, ZeroHash, toHash, nil)
	j.state.Unlock()
	if noop {
		return
	}
	j.stats.RecordAppend("HashUpdate")
	j.notifyAll()
}

// RecordHashUpdateFrom appends a HashUpdateDelta, asserting fromHash equals
// the current hash. A mismatch is reported to telemetry but the update is
// still applied and currentHash still advances to toHash.
func (j *Journal) RecordHashUpdateFrom(fromHash, toHash Hash) {
	j.state.Lock()
	_, mismatched, _ := j.state.RecordHashTransition(true, false, fromHash, toHash, nil)
	j.state.Unlock()
	if mismatched {
		j.stats.RecordHashMismatch()
	}
	j.stats.RecordAppend("HashUpdate")
	j.notifyAll()
}

// RecordUncleanPaths appends a HashUpdateDelta carrying the given set of
// paths that had local modifications at transition time.
func (j *Journal) RecordUncleanPaths(fromHash, toHash Hash, uncleanPaths PathSet) {
	j.state.Lock()
	_, mismatched, _ := j.state.RecordHashTransition(true, false, fromHash, toHash, uncleanPaths)
	j.state.Unlock()
	if mismatched {
		j.stats.RecordHashMismatch()
	}
	j.stats.RecordAppend("HashUpdate")
	j.notifyAll()
}

// GetLatest returns the metadata of the newest entry across both deques,
// or false if the Journal is empty.
func (j *Journal) GetLatest() (DeltaInfo, bool) {
	j.state.RLock()
	defer j.state.RUnlock()
	return j.state.Latest()
}

// GetStats returns a snapshot of store-wide bookkeeping, or false if empty.
func (j *Journal) GetStats() (JournalStats, bool) {
	j.state.RLock()
	defer j.state.RUnlock()
	return j.state.Stats()
}

// AccumulateRange walks every retained entry with sequence number at least
// limitSequence, newest-first, merging into a DeltaRange summary.
// limitSequence == 0 means "from the beginning".
func (j *Journal) AccumulateRange(limitSequence SequenceNumber) (DeltaRange, bool) {
	out, ok := j.state.AccumulateRange(limitSequence)
	if ok && out.IsTruncated {
		j.stats.RecordTruncatedRead()
	}
	return out, ok
}

// GetDebugRawJournalInfo enumerates raw retained entries newest-first for
// introspection, capped at limit entries if limit > 0.
func (j *Journal) GetDebugRawJournalInfo(fromSequence SequenceNumber, limit int, mountGeneration int64) []DebugJournalDelta {
	return j.state.GetDebugRawJournalInfo(fromSequence, limit, mountGeneration)
}

// RegisterSubscriber adds cb to the notification set and returns its id.
func (j *Journal) RegisterSubscriber(cb SubscriberCallback) SubscriberID {
	return j.subscribers.register(cb)
}

// CancelSubscriber removes id, silently ignoring unknown ids.
func (j *Journal) CancelSubscriber(id SubscriberID) {
	j.subscribers.cancel(id)
}

// CancelAllSubscribers clears the subscriber registry.
func (j *Journal) CancelAllSubscribers() {
	j.subscribers.cancelAll()
}

// IsSubscriberValid reports whether id is currently registered.
func (j *Journal) IsSubscriberValid(id SubscriberID) bool {
	return j.subscribers.isValid(id)
}

// Flush clears both deques, keeping nextSequence and currentHash intact,
// and synthesizes a self-referential HashUpdateDelta as the new tip.
func (j *Journal) Flush() {
	j.state.Lock()
	j.state.Flush()
	j.state.Unlock()

	j.stats.RecordAppend("Flush")
	j.notifyAll()
}

// SetMemoryLimit updates the memory budget; lowering it triggers an
// immediate truncation pass.
func (j *Journal) SetMemoryLimit(bytes uint64) {
	j.state.Lock()
	j.state.SetMemoryLimit(bytes)
	j.state.Unlock()
}

// GetMemoryLimit returns the current memory budget in bytes.
func (j *Journal) GetMemoryLimit() uint64 {
	j.state.RLock()
	defer j.state.RUnlock()
	return j.state.MemoryLimit()
}

// EstimateMemoryUsage returns the conservative, monotone-in-content-size
// estimate of bytes currently retained.
func (j *Journal) EstimateMemoryUsage() uint64 {
	return j.state.EstimateMemoryUsage()
}

// CurrentHash returns the current working-copy hash.
func (j *Journal) CurrentHash() Hash {
	j.state.RLock()
	defer j.state.RUnlock()
	return j.state.CurrentHash()
}
