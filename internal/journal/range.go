package journal

import "container/list"

// rawEntry is a tagged pointer used while walking both deques in merged
// descending-sequence order.
type rawEntry struct {
	seq        SequenceNumber
	fileChange *FileChangeDelta
	hashUpdate *HashUpdateDelta
}

// descendingWalker yields entries from both deques from newest to oldest,
// stopping once an entry's sequence number falls below floor.
type descendingWalker struct {
	fileElem *list.Element
	hashElem *list.Element
	floor    SequenceNumber
}

func newDescendingWalker(s *DeltaState, floor SequenceNumber) *descendingWalker {
	return &descendingWalker{
		fileElem: s.fileChanges.Back(),
		hashElem: s.hashUpdates.Back(),
		floor:    floor,
	}
}

func (w *descendingWalker) next() (rawEntry, bool) {
	var fileDelta *FileChangeDelta
	var hashDelta *HashUpdateDelta
	if w.fileElem != nil {
		fileDelta = w.fileElem.Value.(*FileChangeDelta)
		if fileDelta.SequenceID < w.floor {
			fileDelta = nil
		}
	}
	if w.hashElem != nil {
		hashDelta = w.hashElem.Value.(*HashUpdateDelta)
		if hashDelta.SequenceID < w.floor {
			hashDelta = nil
		}
	}
	if fileDelta == nil && hashDelta == nil {
		return rawEntry{}, false
	}
	if hashDelta == nil || (fileDelta != nil && fileDelta.SequenceID > hashDelta.SequenceID) {
		w.fileElem = w.fileElem.Prev()
		return rawEntry{seq: fileDelta.SequenceID, fileChange: fileDelta}, true
	}
	w.hashElem = w.hashElem.Prev()
	return rawEntry{seq: hashDelta.SequenceID, hashUpdate: hashDelta}, true
}

// minSequence returns the smallest sequence number currently retained
// across both deques.
func (s *DeltaState) minSequence() (SequenceNumber, bool) {
	ff := frontFileChange(s.fileChanges)
	fh := frontHashUpdate(s.hashUpdates)
	switch {
	case ff == nil && fh == nil:
		return 0, false
	case fh == nil:
		return ff.SequenceID, true
	case ff == nil:
		return fh.SequenceID, true
	case ff.SequenceID < fh.SequenceID:
		return ff.SequenceID, true
	default:
		return fh.SequenceID, true
	}
}

// maxSequence returns the largest (newest) sequence number currently
// retained across both deques.
func (s *DeltaState) maxSequence() (SequenceNumber, bool) {
	ff := backFileChange(s.fileChanges)
	fh := backHashUpdate(s.hashUpdates)
	switch {
	case ff == nil && fh == nil:
		return 0, false
	case fh == nil:
		return ff.SequenceID, true
	case ff == nil:
		return fh.SequenceID, true
	case ff.SequenceID > fh.SequenceID:
		return ff.SequenceID, true
	default:
		return fh.SequenceID, true
	}
}

// AccumulateRange walks every retained entry with sequence number at least
// limitSequence, newest-first, merging into a DeltaRange summary. It
// returns false if no such entry exists. limitSequence == 0 means "all".
func (s *DeltaState) AccumulateRange(limitSequence SequenceNumber) (DeltaRange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.IsEmpty() {
		return DeltaRange{}, false
	}

	effectiveFloor := limitSequence
	if effectiveFloor == 0 {
		effectiveFloor = 1
	}

	maxSeq, _ := s.maxSequence()
	if maxSeq < effectiveFloor {
		return DeltaRange{}, false
	}

	newest, _ := s.Latest()
	out := DeltaRange{
		ToSequence:            newest.SequenceID,
		ToTime:                newest.Timestamp,
		ToHash:                s.currentHash,
		FromSequence:          newest.SequenceID,
		FromTime:              newest.Timestamp,
		FromHash:              s.currentHash,
		ChangedFilesInOverlay: PathSet{},
		CreatedFilesInOverlay: PathSet{},
		RemovedFilesInOverlay: PathSet{},
		UncleanPaths:          PathSet{},
	}

	acc := &fileAccumulator{
		created: out.CreatedFilesInOverlay,
		changed: out.ChangedFilesInOverlay,
		removed: out.RemovedFilesInOverlay,
	}

	walker := newDescendingWalker(s, limitSequence)
	visited := false
	var fileDeltas []*FileChangeDelta
	for {
		entry, ok := walker.next()
		if !ok {
			break
		}
		visited = true
		if entry.fileChange != nil {
			fileDeltas = append(fileDeltas, entry.fileChange)
			out.FromSequence = entry.seq
			out.FromTime = entry.fileChange.Timestamp
		} else {
			out.SnapshotTransitions = append(out.SnapshotTransitions, SnapshotTransition{
				FromHash:     entry.hashUpdate.FromHash,
				ToHash:       entry.hashUpdate.ToHash,
				SequenceID:   entry.seq,
				UncleanPaths: entry.hashUpdate.UncleanPaths.Clone(),
			})
			out.UncleanPaths.Union(entry.hashUpdate.UncleanPaths)
			out.FromHash = entry.hashUpdate.FromHash
			out.FromSequence = entry.seq
			out.FromTime = entry.hashUpdate.Timestamp
		}
	}
	if !visited {
		return DeltaRange{}, false
	}

	// fileDeltas was collected newest-first by the walk above; applyDelta
	// is a forward reducer, so replay it oldest-first to get correct
	// cross-boundary compaction (e.g. created then later removed cancels).
	for i := len(fileDeltas) - 1; i >= 0; i-- {
		acc.applyDelta(fileDeltas[i])
	}

	minSeq, _ := s.minSequence()
	out.IsTruncated = minSeq > effectiveFloor
	return out, true
}

// GetDebugRawJournalInfo enumerates raw retained entries newest-first,
// capped at limit if positive, tagging every entry with mountGeneration.
func (s *DeltaState) GetDebugRawJournalInfo(fromSequence SequenceNumber, limit int, mountGeneration int64) []DebugJournalDelta {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []DebugJournalDelta
	walker := newDescendingWalker(s, fromSequence)
	for {
		if limit > 0 && len(out) >= limit {
			break
		}
		entry, ok := walker.next()
		if !ok {
			break
		}
		if entry.fileChange != nil {
			out = append(out, DebugJournalDelta{
				SequenceID:      entry.seq,
				Timestamp:       entry.fileChange.Timestamp,
				MountGeneration: mountGeneration,
				IsHashUpdate:    false,
				FileChange:      entry.fileChange,
			})
		} else {
			out = append(out, DebugJournalDelta{
				SequenceID:      entry.seq,
				Timestamp:       entry.hashUpdate.Timestamp,
				MountGeneration: mountGeneration,
				IsHashUpdate:    true,
				HashUpdate:      entry.hashUpdate,
			})
		}
	}
	return out
}

// EstimateMemoryUsage returns the conservative, monotone-in-content-size
// estimate of bytes retained by the store.
func (s *DeltaState) EstimateMemoryUsage() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memoryUsage
}
