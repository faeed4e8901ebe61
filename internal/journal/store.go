package journal

import (
	"container/list"
	"sync"
	"time"
)

const (
	entryBaseOverheadBytes = 64
	pathOverheadBytes      = 16
)

// DefaultMemoryLimitBytes is the memory budget a freshly constructed
// DeltaState enforces until SetMemoryLimit is called.
const DefaultMemoryLimitBytes uint64 = 1_000_000_000

// DeltaState is the dual-deque store backing the Journal: an ordered
// sequence of FileChangeDelta entries, an ordered sequence of
// HashUpdateDelta entries, the running current hash, stats, and memory
// accounting. Both deques keep strictly increasing sequence numbers from
// front (oldest) to back (newest); the union of sequence numbers across
// both deques is always contiguous.
type DeltaState struct {
	mu sync.RWMutex

	nextSequence SequenceNumber
	fileChanges  *list.List // *FileChangeDelta, ascending sequence
	hashUpdates  *list.List // *HashUpdateDelta, ascending sequence
	currentHash  Hash

	hasStats bool
	stats    JournalStats

	memoryLimit uint64
	memoryUsage uint64

	now func() time.Time
}

// NewDeltaState constructs an empty store with the default memory limit.
func NewDeltaState() *DeltaState {
	return &DeltaState{
		nextSequence: 1,
		fileChanges:  list.New(),
		hashUpdates:  list.New(),
		currentHash:  ZeroHash,
		memoryLimit:  DefaultMemoryLimitBytes,
		now:          time.Now,
	}
}

func estimateFileDeltaUsage(d *FileChangeDelta) uint64 {
	usage := uint64(entryBaseOverheadBytes) + uint64(len(d.Path1)) + uint64(len(d.Path2))
	for p := range d.CreatedFiles {
		usage += uint64(len(p)) + pathOverheadBytes
	}
	for p := range d.ChangedFiles {
		usage += uint64(len(p)) + pathOverheadBytes
	}
	for p := range d.RemovedFiles {
		usage += uint64(len(p)) + pathOverheadBytes
	}
	return usage
}

func estimateHashDeltaUsage(d *HashUpdateDelta) uint64 {
	usage := uint64(entryBaseOverheadBytes)
	for p := range d.UncleanPaths {
		usage += uint64(len(p)) + pathOverheadBytes
	}
	return usage
}

func backFileChange(l *list.List) *FileChangeDelta {
	if e := l.Back(); e != nil {
		return e.Value.(*FileChangeDelta)
	}
	return nil
}

func backHashUpdate(l *list.List) *HashUpdateDelta {
	if e := l.Back(); e != nil {
		return e.Value.(*HashUpdateDelta)
	}
	return nil
}

func frontFileChange(l *list.List) *FileChangeDelta {
	if e := l.Front(); e != nil {
		return e.Value.(*FileChangeDelta)
	}
	return nil
}

func frontHashUpdate(l *list.List) *HashUpdateDelta {
	if e := l.Front(); e != nil {
		return e.Value.(*HashUpdateDelta)
	}
	return nil
}

// RecordFileChange appends (or compacts into the newest same-kind run) a
// single file-tree event. It must be called with the store's write lock
// held by the caller (the Journal façade owns lock acquisition so it can
// snapshot subscribers afterward without re-entering the lock).
func (s *DeltaState) RecordFileChange(kind FileChangeKind, path1, path2 RelativePath) *FileChangeDelta {
	now := s.now()
	back := backFileChange(s.fileChanges)
	hashBack := backHashUpdate(s.hashUpdates)
	canCompact := back != nil && (hashBack == nil || back.SequenceID > hashBack.SequenceID)

	var delta *FileChangeDelta
	if canCompact {
		oldUsage := estimateFileDeltaUsage(back)
		acc := &fileAccumulator{created: back.CreatedFiles, changed: back.ChangedFiles, removed: back.RemovedFiles}
		acc.applyEvent(kind, path1, path2)
		back.Timestamp = now
		newUsage := estimateFileDeltaUsage(back)
		s.adjustMemory(oldUsage, newUsage)
		delta = back
	} else {
		seq := s.nextSequence
		s.nextSequence++
		delta = &FileChangeDelta{
			SequenceID:   seq,
			Timestamp:    now,
			Path1:        path1,
			Path2:        path2,
			Kind:         kind,
			CreatedFiles: PathSet{},
			ChangedFiles: PathSet{},
			RemovedFiles: PathSet{},
		}
		acc := &fileAccumulator{created: delta.CreatedFiles, changed: delta.ChangedFiles, removed: delta.RemovedFiles}
		acc.applyEvent(kind, path1, path2)
		s.fileChanges.PushBack(delta)
		s.adjustMemory(0, estimateFileDeltaUsage(delta))
	}

	s.onAppend(now)
	s.recomputeMaxFilesAccumulated()
	s.truncateIfNecessary()
	return delta
}

// RecordHashTransition appends (or compacts into the newest run) a
// HashUpdateDelta. When checkFrom is true, a mismatch between fromHash and
// the current hash is reported via the mismatched return but the update is
// still applied. When allowNoop is true and toHash already equals the
// current hash with no accompanying unclean paths, no entry is recorded.
func (s *DeltaState) RecordHashTransition(checkFrom, allowNoop bool, fromHash, toHash Hash, uncleanPaths PathSet) (delta *HashUpdateDelta, mismatched, noop bool) {
	if allowNoop && toHash == s.currentHash && len(uncleanPaths) == 0 {
		return nil, false, true
	}
	if checkFrom && fromHash != s.currentHash {
		mismatched = true
	}

	now := s.now()
	back := backHashUpdate(s.hashUpdates)
	fileBack := backFileChange(s.fileChanges)
	canCompact := back != nil && (fileBack == nil || back.SequenceID > fileBack.SequenceID)

	if canCompact {
		oldUsage := estimateHashDeltaUsage(back)
		back.ToHash = toHash
		if back.UncleanPaths == nil {
			back.UncleanPaths = PathSet{}
		}
		back.UncleanPaths.Union(uncleanPaths)
		back.Timestamp = now
		s.adjustMemory(oldUsage, estimateHashDeltaUsage(back))
		delta = back
	} else {
		seq := s.nextSequence
		s.nextSequence++
		up := PathSet{}
		up.Union(uncleanPaths)
		delta = &HashUpdateDelta{
			SequenceID:   seq,
			Timestamp:    now,
			FromHash:     s.currentHash,
			ToHash:       toHash,
			UncleanPaths: up,
		}
		s.hashUpdates.PushBack(delta)
		s.adjustMemory(0, estimateHashDeltaUsage(delta))
	}

	s.currentHash = toHash
	s.onAppend(now)
	s.truncateIfNecessary()
	return delta, mismatched, false
}

func (s *DeltaState) adjustMemory(oldUsage, newUsage uint64) {
	s.memoryUsage -= oldUsage
	s.memoryUsage += newUsage
}

func (s *DeltaState) onAppend(now time.Time) {
	if !s.hasStats {
		s.stats.EarliestTimestamp = now
		s.hasStats = true
	}
	s.stats.LatestTimestamp = now
	s.stats.EntryCount = s.fileChanges.Len() + s.hashUpdates.Len()
}

func (s *DeltaState) recomputeMaxFilesAccumulated() {
	max := 0
	for e := s.fileChanges.Front(); e != nil; e = e.Next() {
		d := e.Value.(*FileChangeDelta)
		if n := pathSetSize(d.CreatedFiles, d.ChangedFiles); n > max {
			max = n
		}
	}
	s.stats.MaxFilesAccumulated = max
}

// truncateIfNecessary pops the globally oldest entry, across whichever
// deque holds it, until memory usage is within budget or only one entry
// remains overall.
func (s *DeltaState) truncateIfNecessary() {
	for s.memoryUsage > s.memoryLimit && (s.fileChanges.Len()+s.hashUpdates.Len()) > 1 {
		ff := frontFileChange(s.fileChanges)
		fh := frontHashUpdate(s.hashUpdates)

		popFile := false
		switch {
		case ff == nil:
			popFile = false
		case fh == nil:
			popFile = true
		case ff.SequenceID < fh.SequenceID:
			popFile = true
		default:
			popFile = false
		}

		if popFile {
			s.adjustMemory(estimateFileDeltaUsage(ff), 0)
			s.fileChanges.Remove(s.fileChanges.Front())
		} else {
			s.adjustMemory(estimateHashDeltaUsage(fh), 0)
			s.hashUpdates.Remove(s.hashUpdates.Front())
		}
	}

	s.stats.EntryCount = s.fileChanges.Len() + s.hashUpdates.Len()
	if earliest, ok := s.earliestTimestampLocked(); ok {
		s.stats.EarliestTimestamp = earliest
	}
	s.recomputeMaxFilesAccumulated()
}

func (s *DeltaState) earliestTimestampLocked() (time.Time, bool) {
	ff := frontFileChange(s.fileChanges)
	fh := frontHashUpdate(s.hashUpdates)
	switch {
	case ff == nil && fh == nil:
		return time.Time{}, false
	case ff == nil:
		return fh.Timestamp, true
	case fh == nil:
		return ff.Timestamp, true
	case ff.SequenceID < fh.SequenceID:
		return ff.Timestamp, true
	default:
		return fh.Timestamp, true
	}
}

// Flush clears both deques, resets stats and memory usage without
// resetting nextSequence or currentHash, then synthesizes a single
// self-referential HashUpdateDelta as the new tip.
func (s *DeltaState) Flush() *HashUpdateDelta {
	s.fileChanges.Init()
	s.hashUpdates.Init()
	s.memoryUsage = 0
	s.hasStats = false
	s.stats = JournalStats{}

	now := s.now()
	seq := s.nextSequence
	s.nextSequence++
	delta := &HashUpdateDelta{
		SequenceID:   seq,
		Timestamp:    now,
		FromHash:     s.currentHash,
		ToHash:       s.currentHash,
		UncleanPaths: PathSet{},
	}
	s.hashUpdates.PushBack(delta)
	s.adjustMemory(0, estimateHashDeltaUsage(delta))
	s.onAppend(now)
	return delta
}

// SetMemoryLimit updates the memory budget, triggering an immediate
// truncation pass if the new limit is lower than current usage.
func (s *DeltaState) SetMemoryLimit(bytes uint64) {
	s.memoryLimit = bytes
	s.truncateIfNecessary()
}

// MemoryLimit returns the current memory budget.
func (s *DeltaState) MemoryLimit() uint64 { return s.memoryLimit }

// MemoryUsage returns the current estimated memory usage.
func (s *DeltaState) MemoryUsage() uint64 { return s.memoryUsage }

// CurrentHash returns the current working-copy hash.
func (s *DeltaState) CurrentHash() Hash { return s.currentHash }

// IsEmpty reports whether the store holds no entries.
func (s *DeltaState) IsEmpty() bool {
	return s.fileChanges.Len() == 0 && s.hashUpdates.Len() == 0
}

// Latest returns the metadata of the newest entry across both deques.
func (s *DeltaState) Latest() (DeltaInfo, bool) {
	ff := backFileChange(s.fileChanges)
	fh := backHashUpdate(s.hashUpdates)
	switch {
	case ff == nil && fh == nil:
		return DeltaInfo{}, false
	case fh == nil || (ff != nil && ff.SequenceID > fh.SequenceID):
		return DeltaInfo{FromHash: s.currentHash, ToHash: s.currentHash, SequenceID: ff.SequenceID, Timestamp: ff.Timestamp}, true
	default:
		return DeltaInfo{FromHash: fh.FromHash, ToHash: fh.ToHash, SequenceID: fh.SequenceID, Timestamp: fh.Timestamp}, true
	}
}

// Stats returns a snapshot of store-wide bookkeeping, or false if empty.
func (s *DeltaState) Stats() (JournalStats, bool) {
	if !s.hasStats {
		return JournalStats{}, false
	}
	return s.stats, true
}

// Lock acquires the store's write lock.
func (s *DeltaState) Lock() { s.mu.Lock() }

// Unlock releases the store's write lock.
func (s *DeltaState) Unlock() { s.mu.Unlock() }

// RLock acquires the store's read lock.
func (s *DeltaState) RLock() { s.mu.RLock() }

// RUnlock releases the store's read lock.
func (s *DeltaState) RUnlock() { s.mu.RUnlock() }
