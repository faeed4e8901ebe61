package runtime

import (
	"context"
	"errors"

	"github.com/s4nju/eden/internal/backingstore"
	cfgpkg "github.com/s4nju/eden/internal/config"
	"github.com/s4nju/eden/internal/journal"
	"github.com/s4nju/eden/internal/mount"
	"github.com/s4nju/eden/pkg/log"
)

// Options for building a Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger log.Logger
}

// Runtime wires the backing store, config, and mount registry for a
// single-node instance.
type Runtime struct {
	db     *backingstore.DB
	store  *backingstore.Store
	mounts *mount.Registry
	config cfgpkg.Config
}

// Open opens the backing store at opts.Config.DataDir and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := backingstore.Open(backingstore.Options{
		DataDir:         opts.Config.DataDir,
		Fsync:           opts.Config.Fsync,
		FsyncIntervalMs: opts.Config.FsyncInterval,
	})
	if err != nil {
		return nil, err
	}
	store := backingstore.NewStore(db, opts.Config.RecentActivityLimit)
	var mountLogger log.Logger
	if opts.Logger != nil {
		mountLogger = opts.Logger.With(log.Component("journal"))
	}
	return &Runtime{
		db:     db,
		store:  store,
		mounts: mount.NewRegistry(store, mountLogger),
		config: opts.Config,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check against the backing store.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("runtime: backing store not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// EnsureMount returns the live Mount for name, creating it (and its
// journal) with the runtime's configured memory limit if this is the
// first time name has been seen this process.
func (r *Runtime) EnsureMount(name, root string) (*mount.Mount, error) {
	return r.mounts.EnsureMount(name, root, journal.WithMemoryLimit(r.config.MemoryLimitBytes))
}

// Mount returns the live Mount for name, if one has been created.
func (r *Runtime) Mount(name string) (*mount.Mount, bool) {
	return r.mounts.Get(name)
}

// Mounts exposes the mount registry for advanced operations.
func (r *Runtime) Mounts() *mount.Registry { return r.mounts }

// Store exposes the backing store for advanced operations.
func (r *Runtime) Store() *backingstore.Store { return r.store }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
