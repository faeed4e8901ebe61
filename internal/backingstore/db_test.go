package backingstore

import (
	"testing"

	"github.com/s4nju/eden/internal/config"
	"github.com/s4nju/eden/internal/journal"
)

func openTestStore(t *testing.T) (*Store, *DB) {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: config.FsyncNever})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, 0), db
}

func TestEnsureMountIsIdempotent(t *testing.T) {
	store, _ := openTestStore(t)

	rec1, err := store.EnsureMount("work", "/checkouts/work", 7)
	if err != nil {
		t.Fatalf("ensure mount: %v", err)
	}
	if rec1.Generation != 7 {
		t.Fatalf("expected generation 7, got %d", rec1.Generation)
	}

	rec2, err := store.EnsureMount("work", "/checkouts/work-different", 99)
	if err != nil {
		t.Fatalf("ensure mount: %v", err)
	}
	if rec2 != rec1 {
		t.Fatalf("expected idempotent record, got %+v want %+v", rec2, rec1)
	}
}

func TestMirrorSubscriberFoldsRecentActivity(t *testing.T) {
	store, _ := openTestStore(t)
	j := journal.New()

	subID := store.MirrorSubscriber(j, "work")
	defer j.CancelSubscriber(subID)

	j.RecordCreated("a.txt")
	j.RecordChanged("b.txt")
	j.RecordRemoved("c.txt")

	entry, ok := store.RecentActivity("work", "a.txt")
	if !ok {
		t.Fatalf("expected recent activity for a.txt")
	}
	if entry.Kind != "created" {
		t.Fatalf("expected kind created, got %q", entry.Kind)
	}

	if _, ok := store.RecentActivity("work", "c.txt"); !ok {
		t.Fatalf("expected recent activity for c.txt")
	}
}

func TestMirrorSubscriberIsIncremental(t *testing.T) {
	store, _ := openTestStore(t)
	j := journal.New()

	subID := store.MirrorSubscriber(j, "work")
	defer j.CancelSubscriber(subID)

	j.RecordCreated("a.txt")
	first := store.lastMirroredSequence("work")
	if first == 0 {
		t.Fatalf("expected cursor to advance past first notification")
	}

	// A hash update breaks file-change compaction, so b.txt gets a new
	// sequence number instead of being folded into the first entry.
	var h1 journal.Hash
	h1[0] = 1
	j.RecordHashUpdate(h1)
	j.RecordCreated("b.txt")
	second := store.lastMirroredSequence("work")
	if second <= first {
		t.Fatalf("expected cursor to advance again, got %d after %d", second, first)
	}
}
