package journal

import "testing"

func TestFileAccumulatorCreateThenRemoveCancels(t *testing.T) {
	acc := newFileAccumulator()
	acc.applyEvent(Created, "x", "")
	acc.applyEvent(Removed, "x", "")

	if !acc.isEmpty() {
		t.Fatalf("expected create+remove to cancel, got created=%v changed=%v removed=%v", acc.created, acc.changed, acc.removed)
	}
}

func TestFileAccumulatorRemoveThenCreateBecomesChanged(t *testing.T) {
	acc := newFileAccumulator()
	acc.applyEvent(Removed, "x", "")
	acc.applyEvent(Created, "x", "")

	if !acc.changed.Has("x") {
		t.Fatalf("expected x to be changed, got %+v", acc)
	}
	if acc.created.Has("x") || acc.removed.Has("x") {
		t.Fatalf("expected x absent from created/removed, got %+v", acc)
	}
}

func TestFileAccumulatorChangeIgnoredWhenAlreadyCreated(t *testing.T) {
	acc := newFileAccumulator()
	acc.applyEvent(Created, "x", "")
	acc.applyEvent(Changed, "x", "")

	if !acc.created.Has("x") {
		t.Fatalf("expected x to remain created")
	}
	if acc.changed.Has("x") {
		t.Fatalf("expected x not duplicated into changed")
	}
}

func TestFileAccumulatorRenameSplitsIntoRemoveAndCreate(t *testing.T) {
	acc := newFileAccumulator()
	acc.applyEvent(Renamed, "old", "new")

	if !acc.removed.Has("old") {
		t.Fatalf("expected old removed")
	}
	if !acc.created.Has("new") {
		t.Fatalf("expected new created")
	}
}

func TestFileAccumulatorReplaceSplitsIntoRemoveAndChange(t *testing.T) {
	acc := newFileAccumulator()
	acc.applyEvent(Replaced, "old", "new")

	if !acc.removed.Has("old") {
		t.Fatalf("expected old removed")
	}
	if !acc.changed.Has("new") {
		t.Fatalf("expected new changed")
	}
}

func TestFileAccumulatorApplyDeltaFoldsDisjointSets(t *testing.T) {
	older := &FileChangeDelta{
		CreatedFiles: NewPathSet("a"),
		ChangedFiles: NewPathSet("b"),
		RemovedFiles: NewPathSet("c"),
	}
	acc := newFileAccumulator()
	acc.applyDelta(older)

	if !acc.created.Has("a") || !acc.changed.Has("b") || !acc.removed.Has("c") {
		t.Fatalf("expected all three sets folded in, got %+v", acc)
	}
}
