package journal

import (
	"encoding/hex"
	"encoding/json"
	"time"
)

// Hash identifies a source-control snapshot. It is an opaque fixed-width
// byte string; ZeroHash is the distinguished initial value before any
// hash-update has been recorded.
type Hash [20]byte

// ZeroHash is the current hash before any hash-update has been recorded.
var ZeroHash Hash

// String renders the hash as lowercase hex.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// IsZero reports whether h equals ZeroHash.
func (h Hash) IsZero() bool { return h == ZeroHash }

// HashFromBytes copies up to len(Hash) bytes of b into a new Hash.
func HashFromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// MarshalJSON renders the hash the same way String does, so RPC and debug
// payloads carry hex rather than a raw byte array.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON parses the hex string produced by MarshalJSON.
func (h *Hash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	*h = HashFromBytes(decoded)
	return nil
}

// RelativePath is a normalized, forward-slash-separated path relative to
// the mount root. Paths are compared bytewise.
type RelativePath string

// SequenceNumber is the Journal-wide monotonically increasing identifier
// assigned at append time. The first assigned value is 1; zero is reserved
// as a sentinel meaning "from the beginning".
type SequenceNumber uint64

// PathSet is a set of relative paths.
type PathSet map[RelativePath]struct{}

// NewPathSet builds a PathSet from the given paths.
func NewPathSet(paths ...RelativePath) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Clone returns a shallow copy of the set.
func (s PathSet) Clone() PathSet {
	out := make(PathSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Add inserts p into the set.
func (s PathSet) Add(p RelativePath) { s[p] = struct{}{} }

// Remove deletes p from the set.
func (s PathSet) Remove(p RelativePath) { delete(s, p) }

// Has reports whether p is a member of the set.
func (s PathSet) Has(p RelativePath) bool {
	_, ok := s[p]
	return ok
}

// Union adds every path of other into s.
func (s PathSet) Union(other PathSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// FileChangeKind enumerates the file-tree events a FileChangeDelta records.
type FileChangeKind int

const (
	// Created means path1 did not exist and now exists.
	Created FileChangeKind = iota
	// Removed means path1 existed and is now absent.
	Removed
	// Changed means path1 existed, still exists, and its content changed.
	Changed
	// Renamed means path2 was created by a move from path1.
	Renamed
	// Replaced means path2 was overwritten by the contents that were at path1.
	Replaced
)

// String renders the kind for logs and debug listings.
func (k FileChangeKind) String() string {
	switch k {
	case Created:
		return "Created"
	case Removed:
		return "Removed"
	case Changed:
		return "Changed"
	case Renamed:
		return "Renamed"
	case Replaced:
		return "Replaced"
	default:
		return "Unknown"
	}
}

// FileChangeDelta is a single file-tree event, possibly the result of
// compacting several earlier events of the same kind into one entry.
// ChangedFiles, CreatedFiles and RemovedFiles hold the accumulated-set view
// of touched paths in compaction normal form; the range engine folds all
// three into a DeltaRange.
type FileChangeDelta struct {
	SequenceID SequenceNumber
	Timestamp  time.Time
	Path1      RelativePath
	Path2      RelativePath // set only for Renamed/Replaced
	Kind       FileChangeKind

	ChangedFiles PathSet
	CreatedFiles PathSet
	RemovedFiles PathSet
}

// HasPath2 reports whether this delta carries a second path (Renamed/Replaced).
func (d *FileChangeDelta) HasPath2() bool {
	return d.Kind == Renamed || d.Kind == Replaced
}

// HashUpdateDelta is a checkout event recording a transition of the
// working-copy hash, optionally carrying the set of paths that had local
// modifications at transition time.
type HashUpdateDelta struct {
	SequenceID   SequenceNumber
	Timestamp    time.Time
	FromHash     Hash
	ToHash       Hash
	UncleanPaths PathSet
}

// SnapshotTransition is one hash transition visible within an accumulated
// DeltaRange.
type SnapshotTransition struct {
	FromHash     Hash
	ToHash       Hash
	SequenceID   SequenceNumber
	UncleanPaths PathSet
}

// DeltaRange is the summary produced by the range engine over a contiguous
// suffix of retained entries.
type DeltaRange struct {
	FromSequence SequenceNumber
	ToSequence   SequenceNumber
	FromTime     time.Time
	ToTime       time.Time
	FromHash     Hash
	ToHash       Hash

	ChangedFilesInOverlay PathSet
	CreatedFilesInOverlay PathSet
	RemovedFilesInOverlay PathSet
	UncleanPaths          PathSet

	IsTruncated         bool
	SnapshotTransitions []SnapshotTransition
}

// DeltaInfo is the metadata of the newest entry across both deques,
// returned by GetLatest.
type DeltaInfo struct {
	FromHash   Hash
	ToHash     Hash
	SequenceID SequenceNumber
	Timestamp  time.Time
}

// JournalStats is a point-in-time snapshot of store-wide bookkeeping.
type JournalStats struct {
	EntryCount          int
	EarliestTimestamp   time.Time
	LatestTimestamp     time.Time
	MaxFilesAccumulated int
}

// DebugJournalDelta is one raw entry as enumerated by GetDebugRawJournalInfo,
// carrying the caller-supplied mount generation opaquely.
type DebugJournalDelta struct {
	SequenceID      SequenceNumber
	Timestamp       time.Time
	MountGeneration int64
	IsHashUpdate    bool

	FileChange *FileChangeDelta
	HashUpdate *HashUpdateDelta
}
