package journal

// fileAccumulator holds the compaction normal form for file-tree events: for
// every path, at most one of {created, changed, removed} is ever true.
// Both the append-time compaction path and the range engine fold raw and
// already-compacted events through the same reducer so the two describe
// identical semantics, per the shared-normal-form design note.
type fileAccumulator struct {
	created PathSet
	changed PathSet
	removed PathSet
}

func newFileAccumulator() *fileAccumulator {
	return &fileAccumulator{
		created: PathSet{},
		changed: PathSet{},
		removed: PathSet{},
	}
}

// applyCreated folds a Created(p) event into the accumulator.
func (a *fileAccumulator) applyCreated(p RelativePath) {
	if a.removed.Has(p) {
		a.removed.Remove(p)
		a.changed.Add(p)
		return
	}
	a.created.Add(p)
}

// applyRemoved folds a Removed(p) event into the accumulator.
func (a *fileAccumulator) applyRemoved(p RelativePath) {
	if a.created.Has(p) {
		a.created.Remove(p)
		return
	}
	a.removed.Add(p)
	a.changed.Remove(p)
}

// applyChanged folds a Changed(p) event into the accumulator.
func (a *fileAccumulator) applyChanged(p RelativePath) {
	if a.created.Has(p) || a.removed.Has(p) {
		return
	}
	a.changed.Add(p)
}

// applyRenamed folds a Renamed(old,new) event as Removed(old) then Created(new).
func (a *fileAccumulator) applyRenamed(oldPath, newPath RelativePath) {
	a.applyRemoved(oldPath)
	a.applyCreated(newPath)
}

// applyReplaced folds a Replaced(old,new) event as Removed(old) then Changed(new).
func (a *fileAccumulator) applyReplaced(oldPath, newPath RelativePath) {
	a.applyRemoved(oldPath)
	a.applyChanged(newPath)
}

// applyEvent folds a single raw FileChangeKind event into the accumulator.
func (a *fileAccumulator) applyEvent(kind FileChangeKind, path1, path2 RelativePath) {
	switch kind {
	case Created:
		a.applyCreated(path1)
	case Removed:
		a.applyRemoved(path1)
	case Changed:
		a.applyChanged(path1)
	case Renamed:
		a.applyRenamed(path1, path2)
	case Replaced:
		a.applyReplaced(path1, path2)
	}
}

// applyDelta folds an already-accumulated FileChangeDelta's sets into the
// accumulator, in the temporal position the delta itself occupies. Because
// created/changed/removed are disjoint within a single delta, the order in
// which its member paths are replayed does not affect the result.
func (a *fileAccumulator) applyDelta(d *FileChangeDelta) {
	for p := range d.CreatedFiles {
		a.applyCreated(p)
	}
	for p := range d.ChangedFiles {
		a.applyChanged(p)
	}
	for p := range d.RemovedFiles {
		a.applyRemoved(p)
	}
}

// isEmpty reports whether the accumulator has no residual effect on any path.
func (a *fileAccumulator) isEmpty() bool {
	return len(a.created) == 0 && len(a.changed) == 0 && len(a.removed) == 0
}

func pathSetSize(created, changed PathSet) int {
	return len(created) + len(changed)
}
