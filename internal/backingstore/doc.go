// Package backingstore is a Pebble-backed key/value store that stands in for
// EdenFS's backing-store/disk-overlay layer. It never stores file content: it
// mirrors a per-mount "recent activity" index off a Journal's notifications
// and keeps a small mount registry, both as metadata only.
//
// Example:
//
//	db, _ := backingstore.Open(backingstore.Options{DataDir: cfg.DataDir})
//	defer db.Close()
//	store := backingstore.NewStore(db, cfg.RecentActivityLimit)
//	subID := store.MirrorSubscriber(j, "checkout1")
//	defer j.CancelSubscriber(subID)
package backingstore
