package mount

import (
	"fmt"
	"sync"

	"github.com/s4nju/eden/internal/backingstore"
	"github.com/s4nju/eden/internal/journal"
	"github.com/s4nju/eden/pkg/id"
	"github.com/s4nju/eden/pkg/log"
)

// Mount bundles one Journal with a root path, a name, and a generation. Its
// methods are thin wrappers that a filesystem watcher or checkout engine
// would call to record observations.
type Mount struct {
	Name       string
	Root       string
	Generation int64

	Journal *journal.Journal
	Stats   *journal.CounterStats
}

// Create records that path was created.
func (m *Mount) Create(path journal.RelativePath) { m.Journal.RecordCreated(path) }

// Remove records that path was removed.
func (m *Mount) Remove(path journal.RelativePath) { m.Journal.RecordRemoved(path) }

// Change records that path's content changed.
func (m *Mount) Change(path journal.RelativePath) { m.Journal.RecordChanged(path) }

// Rename records that oldPath moved to newPath.
func (m *Mount) Rename(oldPath, newPath journal.RelativePath) {
	m.Journal.RecordRenamed(oldPath, newPath)
}

// Replace records that newPath was overwritten with the contents from oldPath.
func (m *Mount) Replace(oldPath, newPath journal.RelativePath) {
	m.Journal.RecordReplaced(oldPath, newPath)
}

// CheckoutTo records a hash transition to toHash, reading fromHash off the
// journal's current latest entry.
func (m *Mount) CheckoutTo(toHash journal.Hash) {
	m.Journal.RecordHashUpdate(toHash)
}

// CheckoutWithUnclean records a hash transition to toHash carrying the given
// set of paths left locally modified by the checkout.
func (m *Mount) CheckoutWithUnclean(toHash journal.Hash, unclean journal.PathSet) {
	fromHash := m.Journal.CurrentHash()
	m.Journal.RecordUncleanPaths(fromHash, toHash, unclean)
}

// Registry tracks open mounts by name, backed by a backingstore.Store for
// the mount-registry entries, and ensures a name maps to exactly one live
// Mount.
type Registry struct {
	mu     sync.Mutex
	store  *backingstore.Store
	ids    *id.Generator
	live   map[string]*Mount
	logger log.Logger
}

// NewRegistry builds a Registry backed by store. logger may be nil, in
// which case each mount's Journal logs nothing.
func NewRegistry(store *backingstore.Store, logger log.Logger) *Registry {
	return &Registry{
		store:  store,
		ids:    id.NewGenerator(),
		live:   make(map[string]*Mount),
		logger: logger,
	}
}

// EnsureMount returns the live Mount for name, creating one (and its
// backing registry record) if this is the first time name has been seen.
// Idempotent: a second call with the same name returns the same *Mount,
// mirroring the teacher's EnsureNamespace contract. A freshly created
// Mount's Journal is wired with a CounterStats sink, a component logger,
// and store's recent-activity mirror subscriber, so every mount opened
// through this registry feeds telemetry and the disk-backed activity
// index, not just the ones exercised directly by tests.
func (r *Registry) EnsureMount(name, root string, opts ...journal.Option) (*Mount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.live[name]; ok {
		return m, nil
	}

	generation := generationOf(r.ids.Next())
	rec, err := r.store.EnsureMount(name, root, generation)
	if err != nil {
		return nil, fmt.Errorf("mount: ensure %q: %w", name, err)
	}

	stats := journal.NewCounterStats()
	jOpts := append([]journal.Option{journal.WithStatsSink(stats)}, opts...)
	if r.logger != nil {
		jOpts = append(jOpts, journal.WithLogger(r.logger.With(log.Str("mount", name))))
	}

	m := &Mount{
		Name:       rec.Name,
		Root:       rec.Root,
		Generation: rec.Generation,
		Journal:    journal.New(jOpts...),
		Stats:      stats,
	}
	r.live[name] = m
	r.store.MirrorSubscriber(m.Journal, name)
	return m, nil
}

// Get returns the live Mount for name, if one has been created this process.
func (r *Registry) Get(name string) (*Mount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.live[name]
	return m, ok
}

// Names returns the names of all mounts opened this process, in no
// particular order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.live))
	for name := range r.live {
		out = append(out, name)
	}
	return out
}

// generationOf derives an int64 generation number from an id.ID's low
// 32 bits of timestamp and sequence, giving mounts an opaque generation
// that is unique per Generator the way the underlying ID already is.
func generationOf(v id.ID) int64 {
	b := v.Bytes()
	var ms, seq uint32
	for i := 4; i < 8; i++ {
		ms = ms<<8 | uint32(b[i])
	}
	for i := 12; i < 16; i++ {
		seq = seq<<8 | uint32(b[i])
	}
	return int64(ms)<<32 | int64(seq)
}
