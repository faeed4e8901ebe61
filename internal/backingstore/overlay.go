package backingstore

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/s4nju/eden/internal/journal"
)

// DefaultRecentActivityLimit bounds the recent-activity index size absent an
// explicit override.
const DefaultRecentActivityLimit = 10_000

var (
	activityPrefix = []byte("activity/")
	mountPrefix    = []byte("mount/")
	cursorPrefix   = []byte("cursor/")
)

// ActivityEntry records the most recent observation of a path. SequenceID is
// the newest sequence number of the accumulated range in which the path was
// last seen, not necessarily that of the delta that touched it.
type ActivityEntry struct {
	Path       string `json:"path"`
	SequenceID uint64 `json:"sequenceId"`
	Kind       string `json:"kind"`
	ObservedAt int64  `json:"observedAtUnixMs"`
}

// MountRecord is a mount registry entry, analogous to a namespace record.
type MountRecord struct {
	Name       string `json:"name"`
	Root       string `json:"root"`
	Generation int64  `json:"generation"`
	CreatedMs  int64  `json:"createdAtMs"`
}

func activityKey(mount string, path journal.RelativePath) []byte {
	k := make([]byte, 0, len(activityPrefix)+len(mount)+1+len(path))
	k = append(k, activityPrefix...)
	k = append(k, mount...)
	k = append(k, '/')
	k = append(k, path...)
	return k
}

func mountKey(name string) []byte {
	k := make([]byte, 0, len(mountPrefix)+len(name))
	k = append(k, mountPrefix...)
	k = append(k, name...)
	return k
}

func cursorKey(mount string) []byte {
	k := make([]byte, 0, len(cursorPrefix)+len(mount))
	k = append(k, cursorPrefix...)
	k = append(k, mount...)
	return k
}

// Store bundles a DB with the recent-activity overlay and mount registry
// behavior described in SPEC_FULL.md. It never stores file content.
type Store struct {
	db    *DB
	limit int
}

// NewStore wraps an already-open DB. limit caps the recent-activity index;
// zero or negative selects DefaultRecentActivityLimit.
func NewStore(db *DB, limit int) *Store {
	if limit <= 0 {
		limit = DefaultRecentActivityLimit
	}
	return &Store{db: db, limit: limit}
}

// EnsureMount creates a mount registry record if absent, returning the
// effective record. Idempotent: returns the existing record if already
// present, mirroring EnsureNamespace's create-if-absent contract.
func (s *Store) EnsureMount(name, root string, generation int64) (MountRecord, error) {
	key := mountKey(name)
	if b, err := s.db.Get(key); err == nil && len(b) > 0 {
		var rec MountRecord
		if err := json.Unmarshal(b, &rec); err == nil {
			return rec, nil
		}
	}
	rec := MountRecord{
		Name:       name,
		Root:       root,
		Generation: generation,
		CreatedMs:  time.Now().UnixMilli(),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return MountRecord{}, err
	}
	if err := s.db.Set(key, b); err != nil {
		return MountRecord{}, err
	}
	return rec, nil
}

// RecentActivity returns the most recently recorded ActivityEntry for path
// under mount, if one has been mirrored.
func (s *Store) RecentActivity(mount string, path journal.RelativePath) (ActivityEntry, bool) {
	b, err := s.db.Get(activityKey(mount, path))
	if err != nil {
		return ActivityEntry{}, false
	}
	var entry ActivityEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return ActivityEntry{}, false
	}
	return entry, true
}

// lastMirroredSequence returns the sequence number the mirror last folded
// in for mount, or zero if it has never run.
func (s *Store) lastMirroredSequence(mount string) journal.SequenceNumber {
	b, err := s.db.Get(cursorKey(mount))
	if err != nil || len(b) != 8 {
		return 0
	}
	var seq uint64
	for i := 0; i < 8; i++ {
		seq = seq<<8 | uint64(b[i])
	}
	return journal.SequenceNumber(seq)
}

func (s *Store) setLastMirroredSequence(mount string, seq journal.SequenceNumber) error {
	b := make([]byte, 8)
	v := uint64(seq)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return s.db.Set(cursorKey(mount), b)
}

// MirrorSubscriber registers a Journal subscriber that, on every
// notification, folds newly accumulated deltas into the recent-activity
// index for mount. It is the disk-overlay collaborator that exercises
// AccumulateRange's incremental-query contract outside of tests.
func (s *Store) MirrorSubscriber(j *journal.Journal, mount string) journal.SubscriberID {
	return j.RegisterSubscriber(func() {
		s.mirrorOnce(j, mount)
	})
}

func (s *Store) mirrorOnce(j *journal.Journal, mount string) {
	// Re-accumulate from the last mirrored sequence itself, not the one
	// after it: later events may have been compacted into that entry.
	since := s.lastMirroredSequence(mount)
	rng, ok := j.AccumulateRange(since)
	if !ok {
		return
	}

	now := time.Now().UnixMilli()
	record := func(paths journal.PathSet, kind string) {
		for p := range paths {
			entry := ActivityEntry{
				Path:       string(p),
				SequenceID: uint64(rng.ToSequence),
				Kind:       kind,
				ObservedAt: now,
			}
			b, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			_ = s.db.Set(activityKey(mount, p), b)
		}
	}
	record(rng.CreatedFilesInOverlay, "created")
	record(rng.ChangedFilesInOverlay, "changed")
	record(rng.RemovedFilesInOverlay, "removed")

	s.evictIfOverLimit(mount)
	_ = s.setLastMirroredSequence(mount, rng.ToSequence)
}

// evictIfOverLimit drops the oldest activity entries for mount once the
// index exceeds the configured limit, mirroring the Journal's own
// size-bounded truncation.
func (s *Store) evictIfOverLimit(mount string) {
	prefix := append(append([]byte(nil), activityPrefix...), []byte(mount+"/")...)
	upper := append(append([]byte(nil), prefix...), 0xff)

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return
	}
	defer iter.Close()

	type keyed struct {
		key []byte
		seq uint64
	}
	var entries []keyed
	for iter.First(); iter.Valid(); iter.Next() {
		var e ActivityEntry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			continue
		}
		entries = append(entries, keyed{key: append([]byte(nil), iter.Key()...), seq: e.SequenceID})
	}
	if len(entries) <= s.limit {
		return
	}
	// oldest-first eviction by mirrored sequence number.
	excess := len(entries) - s.limit
	for i := 0; i < len(entries)-1 && excess > 0; i++ {
		minIdx := i
		for j := i + 1; j < len(entries); j++ {
			if entries[j].seq < entries[minIdx].seq {
				minIdx = j
			}
		}
		entries[i], entries[minIdx] = entries[minIdx], entries[i]
		_ = s.db.Delete(entries[i].key)
		excess--
	}
}
