package journal

import (
	"testing"
	"time"
)

func newTestStore() *DeltaState {
	s := NewDeltaState()
	tick := time.Unix(0, 0)
	s.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}
	return s
}

func TestRecordFileChangeCompactsAdjacentSameKindRun(t *testing.T) {
	s := newTestStore()
	s.RecordFileChange(Created, "a", "")
	s.RecordFileChange(Created, "b", "")
	s.RecordFileChange(Changed, "a", "")

	latest, ok := s.Latest()
	if !ok {
		t.Fatalf("expected latest entry")
	}
	if latest.SequenceID != 1 {
		t.Fatalf("expected compaction to keep sequence 1, got %d", latest.SequenceID)
	}
	if s.nextSequence != 2 {
		t.Fatalf("expected nextSequence to stay at 2, got %d", s.nextSequence)
	}
}

func TestRecordFileChangeCreateThenRemoveCancelsInStore(t *testing.T) {
	s := newTestStore()
	s.RecordFileChange(Created, "x", "")
	s.RecordFileChange(Removed, "x", "")

	rng, ok := s.AccumulateRange(0)
	if !ok {
		t.Fatalf("expected a range")
	}
	if len(rng.CreatedFilesInOverlay) != 0 || len(rng.RemovedFilesInOverlay) != 0 || len(rng.ChangedFilesInOverlay) != 0 {
		t.Fatalf("expected empty overlay, got %+v", rng)
	}
}

func TestHashUpdateBreaksFileCompaction(t *testing.T) {
	s := newTestStore()
	var h1 Hash
	h1[0] = 1

	s.RecordFileChange(Created, "a", "")
	s.RecordHashTransition(false, true, ZeroHash, h1, nil)
	s.RecordFileChange(Created, "b", "")

	if s.fileChanges.Len() != 2 {
		t.Fatalf("expected two separate FileChangeDeltas, got %d", s.fileChanges.Len())
	}
	if s.hashUpdates.Len() != 1 {
		t.Fatalf("expected one HashUpdateDelta, got %d", s.hashUpdates.Len())
	}

	seqs := []SequenceNumber{}
	for e := s.fileChanges.Front(); e != nil; e = e.Next() {
		seqs = append(seqs, e.Value.(*FileChangeDelta).SequenceID)
	}
	if seqs[0] != 1 || seqs[1] != 3 {
		t.Fatalf("expected file change sequences 1,3, got %v", seqs)
	}
}

func TestRecordHashUpdateNoopWhenUnchanged(t *testing.T) {
	s := newTestStore()
	_, _, noop := s.RecordHashTransition(false, true, ZeroHash, ZeroHash, nil)
	if !noop {
		t.Fatalf("expected no-op when toHash == currentHash")
	}
	if s.hashUpdates.Len() != 0 {
		t.Fatalf("expected no entry recorded")
	}
}

func TestRecordHashUpdateFromMismatchStillAdvances(t *testing.T) {
	s := newTestStore()
	var wrongFrom, toHash Hash
	wrongFrom[0] = 9
	toHash[0] = 1

	_, mismatched, _ := s.RecordHashTransition(true, false, wrongFrom, toHash, nil)
	if !mismatched {
		t.Fatalf("expected mismatch to be reported")
	}
	if s.CurrentHash() != toHash {
		t.Fatalf("expected currentHash to advance despite mismatch")
	}
}

func TestRenameSemantics(t *testing.T) {
	s := newTestStore()
	s.RecordFileChange(Renamed, "old", "new")

	rng, ok := s.AccumulateRange(0)
	if !ok {
		t.Fatalf("expected a range")
	}
	if !rng.RemovedFilesInOverlay.Has("old") || !rng.CreatedFilesInOverlay.Has("new") {
		t.Fatalf("unexpected overlay: %+v", rng)
	}
}

func TestTruncationDropsOldestAcrossKinds(t *testing.T) {
	s := newTestStore()
	s.SetMemoryLimit(1) // force truncation aggressively once more than one entry exists

	var h1, h2, h3, h4 Hash
	h1[0], h2[0], h3[0], h4[0] = 1, 2, 3, 4

	s.RecordHashTransition(false, true, ZeroHash, h1, nil)
	s.RecordFileChange(Changed, "keepalive", "") // breaks hash-update compaction
	s.RecordHashTransition(false, true, ZeroHash, h2, nil)
	s.RecordFileChange(Changed, "keepalive", "")
	s.RecordHashTransition(false, true, ZeroHash, h3, nil)
	s.RecordFileChange(Changed, "keepalive", "")
	s.RecordHashTransition(false, true, ZeroHash, h4, nil)

	total := s.fileChanges.Len() + s.hashUpdates.Len()
	if total != 1 {
		t.Fatalf("expected truncation down to the sole remaining entry, got %d", total)
	}

	rng, ok := s.AccumulateRange(1)
	if !ok {
		t.Fatalf("expected a range")
	}
	if !rng.IsTruncated {
		t.Fatalf("expected isTruncated true when asking from sequence 1")
	}
}

func TestFlushKeepsSequenceAndHashButClearsEntries(t *testing.T) {
	s := newTestStore()
	var h1 Hash
	h1[0] = 7
	s.RecordFileChange(Created, "a", "")
	s.RecordHashTransition(false, true, ZeroHash, h1, nil)

	beforeNext := s.nextSequence
	s.Flush()

	if s.nextSequence != beforeNext+1 {
		t.Fatalf("expected nextSequence to advance by exactly one for the synthetic entry")
	}
	if s.CurrentHash() != h1 {
		t.Fatalf("expected currentHash preserved across flush")
	}
	if s.fileChanges.Len() != 0 || s.hashUpdates.Len() != 1 {
		t.Fatalf("expected only the synthetic hash update to remain")
	}

	rng, ok := s.AccumulateRange(0)
	if !ok {
		t.Fatalf("expected a range after flush")
	}
	if !rng.IsTruncated {
		t.Fatalf("expected isTruncated true since entries existed before flush")
	}
	if rng.FromHash != h1 || rng.ToHash != h1 {
		t.Fatalf("expected synthetic self-transition, got from=%v to=%v", rng.FromHash, rng.ToHash)
	}
}

func TestFlushOnEmptyStoreIsNotTruncated(t *testing.T) {
	s := newTestStore()
	s.Flush()

	rng, ok := s.AccumulateRange(0)
	if !ok {
		t.Fatalf("expected a range")
	}
	if rng.IsTruncated {
		t.Fatalf("expected isTruncated false when nothing existed before flush")
	}
}

func TestMemoryUsageNeverExceedsLimitWithMultipleEntries(t *testing.T) {
	s := newTestStore()
	s.SetMemoryLimit(200)

	var h Hash
	for i := 0; i < 50; i++ {
		h[0] = byte(i)
		s.RecordHashTransition(false, true, s.CurrentHash(), h, nil)
		s.RecordFileChange(Changed, "keepalive", "") // breaks hash-update compaction
	}

	if s.MemoryUsage() > s.MemoryLimit() && (s.fileChanges.Len()+s.hashUpdates.Len()) > 1 {
		t.Fatalf("expected memory usage within limit once more than one entry remains, got usage=%d limit=%d", s.MemoryUsage(), s.MemoryLimit())
	}
}
